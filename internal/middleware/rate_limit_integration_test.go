//go:build integration

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/bitebox/frontend/internal/session"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rdb := setupRedis(t)
	limiter := NewRecipePostRateLimiter(rdb, nil, nil)

	r := sessionRouter(session.NewMemoryStore(), "http://backend.invalid")
	r.POST("/post", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusSeeOther) })

	sid := uuid.NewString()
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/post", nil)
		req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: sid})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 5; i++ {
		w := send()
		require.Equal(t, http.StatusSeeOther, w.Code, "request %d", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, fmt.Sprint(4-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other sessions are counted separately
	req := httptest.NewRequest(http.MethodPost, "/post", nil)
	other := httptest.NewRecorder()
	r.ServeHTTP(other, req)
	assert.Equal(t, http.StatusSeeOther, other.Code)
}

func TestRateLimiterIsAllowedCountsWindow(t *testing.T) {
	rdb := setupRedis(t)
	limiter := NewLoginRateLimiter(rdb, nil, nil)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		allowed, left, reset, err := limiter.IsAllowed(ctx, "sid")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 10-i, left)
		assert.True(t, reset.After(time.Now()))
	}

	allowed, left, _, err := limiter.IsAllowed(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, left)

	allowed, _, _, err = limiter.IsAllowed(ctx, "other")
	require.NoError(t, err)
	assert.True(t, allowed)
}

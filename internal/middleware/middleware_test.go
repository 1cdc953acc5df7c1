package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/bitebox/frontend/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "7",
		"name":    "Ana",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

// unauthorizedBackend answers every request with 401.
func unauthorizedBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sessionRouter(store session.Store, apiURL string) *gin.Engine {
	r := gin.New()
	r.Use(Sessions(SessionConfig{Store: store, APIBaseURL: apiURL}))
	return r
}

func TestSessionsIssuesCookie(t *testing.T) {
	r := sessionRouter(session.NewMemoryStore(), "http://backend.invalid")
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionFrom(c).ID())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultSessionCookie, cookies[0].Name)
	assert.Equal(t, w.Body.String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestSessionsReplacesInvalidCookie(t *testing.T) {
	r := sessionRouter(session.NewMemoryStore(), "http://backend.invalid")
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionFrom(c).ID())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "../../etc/passwd"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestSessionsLoadsStoredUser(t *testing.T) {
	store := session.NewMemoryStore()
	sid := uuid.NewString()
	require.NoError(t, store.Set(context.Background(), sid, testToken(t), time.Hour))

	r := sessionRouter(store, "http://backend.invalid")
	r.GET("/", func(c *gin.Context) {
		sess := SessionFrom(c)
		require.True(t, sess.IsAuthenticated())
		c.String(http.StatusOK, sess.User().Name)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: sid})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "Ana", w.Body.String())
}

func TestUnauthorizedResponseLogsOutAndRedirects(t *testing.T) {
	store := session.NewMemoryStore()
	sid := uuid.NewString()
	require.NoError(t, store.Set(context.Background(), sid, testToken(t), time.Hour))

	rendered := false
	r := sessionRouter(store, unauthorizedBackend(t).URL)
	r.GET("/mine", func(c *gin.Context) {
		_, err := ServicesFrom(c).Recipes.ListOwn(c.Request.Context())
		require.Error(t, err)
		if c.IsAborted() {
			return
		}
		rendered = true
		c.String(http.StatusOK, "My Recipes")
	})

	req := httptest.NewRequest(http.MethodGet, "/mine", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: sid})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, DefaultLoginPath, w.Header().Get("Location"))
	assert.False(t, rendered)
	assert.Zero(t, store.Len())
}

func TestAnonymousServicesDoNotForceLogout(t *testing.T) {
	store := session.NewMemoryStore()
	sid := uuid.NewString()
	require.NoError(t, store.Set(context.Background(), sid, testToken(t), time.Hour))

	r := sessionRouter(store, unauthorizedBackend(t).URL)
	r.GET("/login", func(c *gin.Context) {
		_, err := AnonymousServices(c).Auth.Authenticate(c.Request.Context(), "a@b.c", "nope")
		require.Error(t, err)
		c.String(http.StatusUnauthorized, "Invalid email or password")
	})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: sid})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, store.Len())
}

func TestRequireSession(t *testing.T) {
	store := session.NewMemoryStore()
	r := sessionRouter(store, "http://backend.invalid")
	r.GET("/profile", RequireSession(""), func(c *gin.Context) {
		c.String(http.StatusOK, "My Recipes")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, DefaultLoginPath, w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "My Recipes")

	sid := uuid.NewString()
	require.NoError(t, store.Set(context.Background(), sid, testToken(t), time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: sid})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "My Recipes", w.Body.String())
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		wantAllowed string
		wantCreds   string
	}{
		{name: "any origin", origin: "https://widget.example", wantAllowed: "*"},
		{name: "listed origin", origins: []string{"https://bitebox.example"}, origin: "https://bitebox.example", wantAllowed: "https://bitebox.example", wantCreds: "true"},
		{name: "unlisted origin", origins: []string{"https://bitebox.example"}, origin: "https://evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.origins))
			r.GET("/api/recipes", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })

			req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	var gotStatus int
	r := gin.New()
	r.Use(ErrorHandler(nil, func(c *gin.Context, status int, message string) {
		gotStatus = status
		c.String(status, message)
	}))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusInternalServerError, gotStatus)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestErrorHandlerDefaultsToJSON(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(nil, nil))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(nil, "/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	for path, want := range map[string]int{"/health": http.StatusOK, "/": http.StatusTeapot} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestNilRateLimiterAllowsEverything(t *testing.T) {
	limiter := NewLoginRateLimiter(nil, nil, nil)
	assert.Nil(t, limiter)

	r := sessionRouter(session.NewMemoryStore(), "http://backend.invalid")
	r.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRateLimiterFailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := NewCommentRateLimiter(rdb, nil, nil)
	require.NotNil(t, limiter)

	r := sessionRouter(session.NewMemoryStore(), "http://backend.invalid")
	r.POST("/comment", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/comment", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

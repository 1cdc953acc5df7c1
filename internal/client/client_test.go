package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBackend(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	register(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestBearerTokenAttached(t *testing.T) {
	var seen string
	srv := setupBackend(t, func(r *gin.Engine) {
		r.GET("/api/recipes", func(c *gin.Context) {
			seen = c.GetHeader("Authorization")
			c.JSON(http.StatusOK, []gin.H{})
		})
	})

	c := New(srv.URL+"/api/", Options{Tokens: StaticToken("abc.def.ghi")})
	var out []map[string]any
	require.NoError(t, c.GetJSON(context.Background(), "/recipes", &out))
	assert.Equal(t, "Bearer abc.def.ghi", seen)
}

func TestNoTokenSendsUnauthenticated(t *testing.T) {
	var seen string
	var present bool
	srv := setupBackend(t, func(r *gin.Engine) {
		r.GET("/recipes", func(c *gin.Context) {
			seen = c.GetHeader("Authorization")
			_, present = c.Request.Header["Authorization"]
			c.Status(http.StatusOK)
		})
	})

	c := New(srv.URL, Options{Tokens: StaticToken("")})
	require.NoError(t, c.GetJSON(context.Background(), "recipes", nil))
	assert.Empty(t, seen)
	assert.False(t, present)
}

func TestUnauthorizedHandlerCalledPerResponse(t *testing.T) {
	srv := setupBackend(t, func(r *gin.Engine) {
		r.GET("/users", func(c *gin.Context) {
			c.String(http.StatusUnauthorized, "Invalid token")
		})
	})

	var calls int32
	c := New(srv.URL, Options{OnUnauthorized: func() { atomic.AddInt32(&calls, 1) }})

	err := c.GetJSON(context.Background(), "/users", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid token", apiErr.Message)

	_ = c.GetJSON(context.Background(), "/users", nil)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSetUnauthorizedHandlerReplaces(t *testing.T) {
	srv := setupBackend(t, func(r *gin.Engine) {
		r.GET("/users", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
	})

	var first, second int32
	c := New(srv.URL, Options{OnUnauthorized: func() { atomic.AddInt32(&first, 1) }})
	c.SetUnauthorizedHandler(func() { atomic.AddInt32(&second, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.GetJSON(context.Background(), "/users", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&first))
	assert.Equal(t, int32(5), atomic.LoadInt32(&second))

	c.SetUnauthorizedHandler(nil)
	assert.NotPanics(t, func() { _ = c.GetJSON(context.Background(), "/users", nil) })
}

func TestAPIErrorClassification(t *testing.T) {
	srv := setupBackend(t, func(r *gin.Engine) {
		r.GET("/recipes/:id", func(c *gin.Context) {
			c.String(http.StatusNotFound, "Recipe not found\n")
		})
		r.POST("/auth/signup", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		})
		r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	})

	var unauthorizedCalls int
	c := New(srv.URL, Options{OnUnauthorized: func() { unauthorizedCalls++ }})

	err := c.GetJSON(context.Background(), "/recipes/99", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Recipe not found")

	err = c.PostMultipart(context.Background(), "/auth/signup", NewMultipart().Field("name", "x"), nil)
	assert.ErrorIs(t, err, ErrBadRequest)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Missing required fields", apiErr.Message)

	err = c.GetJSON(context.Background(), "/boom", nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Internal Server Error")

	assert.Zero(t, unauthorizedCalls)
}

func TestTransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, Options{})
	err := c.GetJSON(context.Background(), "/recipes", nil)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestPostJSONAndDecode(t *testing.T) {
	srv := setupBackend(t, func(r *gin.Engine) {
		r.POST("/auth/login", func(c *gin.Context) {
			var body map[string]string
			if err := c.ShouldBindJSON(&body); err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": body["email"] + "-token"})
		})
		r.POST("/broken", func(c *gin.Context) { c.String(http.StatusOK, "not json") })
	})

	c := New(srv.URL, Options{})
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, c.PostJSON(context.Background(), "/auth/login", map[string]string{"email": "a@b.c"}, &out))
	assert.Equal(t, "a@b.c-token", out.Token)

	err := c.PostJSON(context.Background(), "/broken", map[string]string{}, &out)
	assert.ErrorContains(t, err, "failed to decode")
}

func TestMultipartAndPatch(t *testing.T) {
	var gotName, gotFileType, gotFile, patched string
	srv := setupBackend(t, func(r *gin.Engine) {
		r.PATCH("/users/edit/:id", func(c *gin.Context) {
			gotName = c.PostForm("name_recipe")
			fh, err := c.FormFile("image")
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			gotFileType = fh.Header.Get("Content-Type")
			f, _ := fh.Open()
			data, _ := io.ReadAll(f)
			gotFile = string(data)
			c.Status(http.StatusOK)
		})
		r.PATCH("/users/activate/:id", func(c *gin.Context) {
			patched = c.Param("id")
			c.Status(http.StatusOK)
		})
	})

	c := New(srv.URL, Options{})
	form := NewMultipart().
		Field("name_recipe", "Soup").
		File("image", `so"up.png`, "image/png", []byte("PNGDATA"))
	assert.Equal(t, 2, form.Len())

	require.NoError(t, c.PatchMultipart(context.Background(), "/users/edit/4", form, nil))
	assert.Equal(t, "Soup", gotName)
	assert.Equal(t, "image/png", gotFileType)
	assert.Equal(t, "PNGDATA", gotFile)

	require.NoError(t, c.Patch(context.Background(), "/users/activate/4"))
	assert.Equal(t, "4", patched)
}

func TestMultipartAcceptsPlainTextConfirmation(t *testing.T) {
	srv := setupBackend(t, func(r *gin.Engine) {
		r.POST("/auth/signup", func(c *gin.Context) { c.String(http.StatusCreated, "User created") })
		r.POST("/recipes/post", func(c *gin.Context) { c.String(http.StatusCreated, "Recipe Created\n") })
		r.POST("/recipes/userPost", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"id": "12"}) })
	})

	c := New(srv.URL, Options{})
	var out map[string]any

	require.NoError(t, c.PostMultipart(context.Background(), "/auth/signup", NewMultipart().Field("name", "Ana"), &out))
	assert.Nil(t, out)
	require.NoError(t, c.PostMultipart(context.Background(), "/recipes/post", NewMultipart().Field("name", "Toast"), &out))
	assert.Nil(t, out)

	require.NoError(t, c.PostMultipart(context.Background(), "/recipes/userPost", NewMultipart().Field("name", "Toast"), &out))
	assert.Equal(t, "12", out["id"])
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", errorMessage(nil))
	assert.Equal(t, "plain", errorMessage([]byte(" plain \n")))
	assert.Equal(t, "from message", errorMessage([]byte(`{"error":"e","message":"from message"}`)))
	assert.Equal(t, "e", errorMessage([]byte(`{"error":"e"}`)))
	assert.Len(t, errorMessage([]byte(strings.Repeat("a", 500))), 200)
}

func TestAuthenticated(t *testing.T) {
	ctx := context.Background()
	assert.False(t, New("http://x", Options{}).Authenticated(ctx))
	assert.False(t, New("http://x", Options{Tokens: StaticToken("")}).Authenticated(ctx))
	assert.True(t, New("http://x", Options{Tokens: StaticToken("a.b.c")}).Authenticated(ctx))
}

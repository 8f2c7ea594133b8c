package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFrom(ctx))
	assert.Equal(t, "", RequestIDFrom(context.Background()))
}

func TestFromCtx(t *testing.T) {
	t.Run("Without request id returns global logger", func(t *testing.T) {
		assert.NotNil(t, FromCtx(context.Background()))
	})

	t.Run("With request id", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-456")
		assert.NotNil(t, FromCtx(ctx))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Generates id when absent", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			assert.NotEmpty(t, RequestIDFrom(c.Request.Context()))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Propagates provided id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			assert.Equal(t, "req-789", RequestIDFrom(c.Request.Context()))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-789")
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-789", w.Header().Get("X-Request-ID"))
	})
}

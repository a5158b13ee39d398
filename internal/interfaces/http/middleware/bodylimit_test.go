package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBodyLimitRouter(maxBytes int64) *gin.Engine {
	engine := gin.New()
	engine.Use(BodyLimit(maxBytes))
	engine.POST("/resource", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	return engine
}

func TestBodyLimit(t *testing.T) {
	t.Run("allows body within limit", func(t *testing.T) {
		engine := newBodyLimitRouter(64)

		req := httptest.NewRequest("POST", "/resource", bytes.NewBufferString("small"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared oversize body", func(t *testing.T) {
		engine := newBodyLimitRouter(8)

		req := httptest.NewRequest("POST", "/resource", bytes.NewBufferString("this body is too large"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FILE_TOO_LARGE")
	})

	t.Run("caps streaming body without content length", func(t *testing.T) {
		engine := newBodyLimitRouter(8)

		req := httptest.NewRequest("POST", "/resource", bytes.NewBufferString("this body is too large"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter() *gin.Engine {
	r := gin.New()
	r.GET("/", Root)
	r.GET("/healthz", Health)
	r.HEAD("/healthz", Health)
	r.OPTIONS("/healthz", Health)
	return r
}

func TestRoot(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, RootMessage, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
		expectedBody   string
	}{
		{http.MethodGet, http.StatusOK, `{"status":"ok"}`},
		{http.MethodHead, http.StatusOK, ""},
		{http.MethodOptions, http.StatusNoContent, ""},
	}

	router := setupRouter()

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectedBody == "" {
				assert.Zero(t, w.Body.Len())
			} else {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

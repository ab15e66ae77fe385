package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCors(t *testing.T) {
	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req, err := http.NewRequest("GET", "/blogs", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	Cors()(next).ServeHTTP(rr, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCors_PreflightShortCircuits(t *testing.T) {
	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req, err := http.NewRequest("OPTIONS", "/blog", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	Cors()(next).ServeHTTP(rr, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

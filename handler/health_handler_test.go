// handler/health_handler_test.go
package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	expectedBody := `{"service":"go-shop-api","status":"healthy"}`
	assert.JSONEq(t, expectedBody, rr.Body.String())
}

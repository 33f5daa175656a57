package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockDBService struct {
	health map[string]string
}

func (m *mockDBService) Health() map[string]string       { return m.health }
func (m *mockDBService) Client() *mongo.Client           { return nil }
func (m *mockDBService) Database() *mongo.Database       { return nil }
func (m *mockDBService) Close(ctx context.Context) error { return nil }

func TestHelloWorldHandler(t *testing.T) {
	ch := NewCommonHandler(&mockDBService{})
	rr := httptest.NewRecorder()
	ch.HelloWorldHandler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, rr.Body.String())
}

func TestHealthHandler(t *testing.T) {
	ch := NewCommonHandler(&mockDBService{health: map[string]string{"message": "It's healthy"}})
	rr := httptest.NewRecorder()
	ch.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	ch = NewCommonHandler(&mockDBService{health: map[string]string{"message": "db down", "error": "timeout"}})
	rr = httptest.NewRecorder()
	ch.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "db down")
}

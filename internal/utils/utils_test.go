package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateVerificationToken(t *testing.T) {
	a, err := GenerateVerificationToken()
	require.NoError(t, err)
	b, err := GenerateVerificationToken()
	require.NoError(t, err)

	assert.Len(t, a, 2*VerificationTokenBytes)
	assert.NotEqual(t, a, b)
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	id := primitive.NewObjectID()

	token, err := GenerateJWT(secret, id, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), claims.UserID)
	assert.Equal(t, id.Hex(), claims.Subject)
	assert.Empty(t, claims.ID, "jti is not set")

	_, err = ParseJWT([]byte("other-secret"), token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateJWT(secret, primitive.NewObjectID(), -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(secret, token)
	assert.Error(t, err)
}

func TestGenerateJWTEmptySecret(t *testing.T) {
	_, err := GenerateJWT(nil, primitive.NewObjectID(), time.Hour)
	assert.Error(t, err)
}

func TestSendJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	SendJSONError(rr, "nope", http.StatusTeapot)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "nope", body["message"])
	assert.NotContains(t, body, "data")
}

func TestGetUserIDFromContext(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), id.Hex()))

	got, err := GetUserIDFromContext(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	rr := httptest.NewRecorder()
	_, err = GetUserIDFromContext(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

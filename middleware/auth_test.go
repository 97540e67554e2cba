package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, *primitive.ObjectID) {
	t.Helper()
	var seen *primitive.ObjectID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			seen = &id
		}
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	Auth(testSecret)(next).ServeHTTP(w, req)
	return w, seen
}

func TestAuth(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("valid token reaches the handler with the user id", func(t *testing.T) {
		token := signToken(t, testSecret, userID.Hex(), time.Hour)
		w, seen := runAuth(t, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, userID, *seen)
	})

	t.Run("missing header", func(t *testing.T) {
		w, seen := runAuth(t, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, seen)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		token := signToken(t, testSecret, userID.Hex(), time.Hour)
		w, _ := runAuth(t, "Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, userID.Hex(), -time.Minute)
		w, seen := runAuth(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, seen)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signToken(t, "other-secret", userID.Hex(), time.Hour)
		w, seen := runAuth(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, seen)
	})

	t.Run("user id claim that is not an object id", func(t *testing.T) {
		token := signToken(t, testSecret, "not-hex", time.Hour)
		w, seen := runAuth(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, seen)
	})
}

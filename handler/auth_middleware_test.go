package handler_test

import (
	"go-shop-api/config"
	"go-shop-api/handler"
	"go-shop-api/model"
	"go-shop-api/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionTestHandler(repo *fakeUserRepo) http.Handler {
	session := handler.NewSessionMiddleware(repo, service.NewAuthService(repo))
	return session.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := handler.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "no user attached", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(user.Username))
	}))
}

func seedUser(t *testing.T, repo *fakeUserRepo) *model.User {
	t.Helper()
	user := &model.User{
		Name: "Ann", Username: "ann1", Email: "ann@x.com", Mobile: "5551234",
		Password: "hashed", IsVerified: true, Role: model.RoleUser,
	}
	require.NoError(t, repo.CreateUser(user))
	return user
}

func signExpiredAccessToken(t *testing.T, userID int) string {
	t.Helper()
	claims := &model.AppClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.AppConfig.JWT.AccessSecret))
	require.NoError(t, err)
	return token
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		h := newSessionTestHandler(newFakeUserRepo())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Access token missing")
	})

	t.Run("bearer header token resolves the account", func(t *testing.T) {
		repo := newFakeUserRepo()
		user := seedUser(t, repo)
		authService := service.NewAuthService(repo)
		pair, err := authService.GenerateTokenPair(user.ID)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rr := httptest.NewRecorder()
		newSessionTestHandler(repo).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ann1", rr.Body.String())
	})

	t.Run("cookie token is accepted when no header is present", func(t *testing.T) {
		repo := newFakeUserRepo()
		user := seedUser(t, repo)
		pair, err := service.NewAuthService(repo).GenerateTokenPair(user.ID)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: pair.AccessToken})
		rr := httptest.NewRecorder()
		newSessionTestHandler(repo).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("body token is accepted last", func(t *testing.T) {
		repo := newFakeUserRepo()
		user := seedUser(t, repo)
		pair, err := service.NewAuthService(repo).GenerateTokenPair(user.ID)
		require.NoError(t, err)

		body := strings.NewReader(`{"accessToken":"` + pair.AccessToken + `"}`)
		req := httptest.NewRequest("POST", "/protected", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		newSessionTestHandler(repo).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("expired token names expiry in the message", func(t *testing.T) {
		repo := newFakeUserRepo()
		user := seedUser(t, repo)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signExpiredAccessToken(t, user.ID))
		rr := httptest.NewRecorder()
		newSessionTestHandler(repo).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "expired")
	})

	t.Run("token signed with the refresh secret is rejected", func(t *testing.T) {
		repo := newFakeUserRepo()
		user := seedUser(t, repo)
		pair, err := service.NewAuthService(repo).GenerateTokenPair(user.ID)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		rr := httptest.NewRecorder()
		newSessionTestHandler(repo).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("deleted account is unauthorized", func(t *testing.T) {
		repo := newFakeUserRepo()
		user := seedUser(t, repo)
		pair, err := service.NewAuthService(repo).GenerateTokenPair(user.ID)
		require.NoError(t, err)
		require.NoError(t, repo.DeleteUser(user.ID))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rr := httptest.NewRecorder()
		newSessionTestHandler(repo).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "User not found")
	})
}

func TestRequireRoles(t *testing.T) {
	allowed := handler.RequireRoles(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no account attached", func(t *testing.T) {
		rr := httptest.NewRecorder()
		allowed.ServeHTTP(rr, httptest.NewRequest("GET", "/admin", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

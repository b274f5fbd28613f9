package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"go-shop-api/common"
	"go-shop-api/model"
	"go-shop-api/repository"
	"go-shop-api/service"
	"io"
	"net/http"
	"strings"
)

type contextKey string

const UserContextKey contextKey = "user"

// UserFromContext returns the account the session middleware resolved
// for this request.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*model.User)
	return user, ok
}

// SessionMiddleware gates protected routes: it resolves an inbound
// access token to a live account and attaches it to the request
// context.
type SessionMiddleware struct {
	userRepo repository.IUserRepository
	auth     *service.AuthService
}

func NewSessionMiddleware(userRepo repository.IUserRepository, auth *service.AuthService) *SessionMiddleware {
	return &SessionMiddleware{
		userRepo: userRepo,
		auth:     auth,
	}
}

// extractToken resolves the access token from the Authorization
// header, the accessToken cookie or the accessToken body field, in
// that order. The body is restored so downstream handlers can still
// decode it.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		headerParts := strings.SplitN(authHeader, " ", 2)
		if len(headerParts) == 2 && strings.EqualFold(headerParts[0], "bearer") {
			if token := strings.TrimSpace(headerParts[1]); token != "" {
				return token
			}
		}
	}

	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if r.Body == nil || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.AccessToken
}

func (m *SessionMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			common.NewUnauthorizedError("Unauthorized request! Access token missing.", nil).Send(w)
			return
		}

		claims, err := m.auth.ParseAccessToken(token)
		if err != nil {
			// Pass the decode failure through so clients can tell
			// an expired token from a malformed one.
			common.NewUnauthorizedError(err.Error(), err).Send(w)
			return
		}

		if claims.UserID == 0 {
			common.NewUnauthorizedError("Invalid access token payload!", nil).Send(w)
			return
		}

		user, err := m.userRepo.GetUserByID(claims.UserID)
		if err != nil {
			if err == sql.ErrNoRows {
				common.NewUnauthorizedError("Invalid access token! User not found.", nil).Send(w)
			} else {
				common.NewUnauthorizedError("Unauthorized request!", err).Send(w)
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles guards a route behind a role check. It must run after
// the session middleware.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				common.NewUnauthorizedError("Unauthorized", nil).Send(w)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			common.NewForbiddenError("Access denied. Insufficient privileges.").Send(w)
		})
	}
}

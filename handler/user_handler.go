package handler

import (
	"encoding/json"
	"errors"
	"go-shop-api/common"
	"go-shop-api/config"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func cookieSettings() (secure bool, sameSite http.SameSite) {
	if config.AppConfig.Server.Env == "production" {
		return true, http.SameSiteNoneMode
	}
	return false, http.SameSiteLaxMode
}

func setAuthCookies(w http.ResponseWriter, pair *model.TokenPair) {
	secure, sameSite := cookieSettings()
	http.SetCookie(w, &http.Cookie{
		Name: "accessToken", Value: pair.AccessToken,
		Path: "/", HttpOnly: true, Secure: secure, SameSite: sameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name: "refreshToken", Value: pair.RefreshToken,
		Path: "/", HttpOnly: true, Secure: secure, SameSite: sameSite,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	secure, sameSite := cookieSettings()
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name: name, Value: "", MaxAge: -1,
			Path: "/", HttpOnly: true, Secure: secure, SameSite: sameSite,
		})
	}
}

// mapUserServiceError translates service-layer failures into the
// response taxonomy.
func mapUserServiceError(err error) *common.AppError {
	var dup *service.DuplicateKeyError
	switch {
	case errors.As(err, &dup):
		return common.NewDuplicateKeyError(dup.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return common.NewNotFoundError("User not found!")
	case errors.Is(err, service.ErrIncorrectPassword):
		return common.NewUnauthorizedError("Password is incorrect", nil)
	case errors.Is(err, service.ErrInvalidOTP):
		return common.NewValidationError("Invalid OTP!")
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		return common.NewValidationError("No valid fields provided to update!")
	case errors.Is(err, service.ErrInvalidGoogleToken):
		return common.NewUnauthorizedError("Google login failed", err)
	default:
		return common.NewUpstreamError("Server error", err)
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  create an unverified account and email a verification OTP
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  map[string]interface{}
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	logger.Log.WithFields(logrus.Fields{
		"username": req.Username,
		"email":    req.Email,
	}).Info("Register request received")

	user, err := h.userService.Register(&req)
	if err != nil {
		return mapUserServiceError(err)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully. Check your email for OTP.",
		"data":    user,
	})
	return nil
}

// VerifyEmail godoc
// @Summary      Verify a registration OTP
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.VerifyRequest true "Verification payload"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/verify [patch]
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.VerifyRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.Verify(req.Email, int(req.OTP)); err != nil {
		return mapUserServiceError(err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email verified successfully!",
	})
	return nil
}

// Login godoc
// @Summary      Log in with username or email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login payload"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, pair, err := h.userService.Login(&req)
	if err != nil {
		return mapUserServiceError(err)
	}

	setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Logged in successfully",
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
	return nil
}

// GoogleLogin godoc
// @Summary      Log in with a Google ID token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.GoogleLoginRequest true "Google login payload"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/google [post]
func (h *UserHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.GoogleLoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, pair, err := h.userService.GoogleLogin(r.Context(), req.TokenID)
	if err != nil {
		return mapUserServiceError(err)
	}

	setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Logged in with Google successfully",
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
	return nil
}

// Refresh godoc
// @Summary      Rotate the access/refresh token pair
// @Description  the refresh token is read from the cookie or the body; the previous token is invalidated
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/refresh [post]
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	token := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req model.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return common.NewUnauthorizedError("Unauthorized request! Refresh token missing.", nil)
	}

	pair, err := h.authService.Refresh(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshTokenReused):
			return common.NewUnauthorizedError("Refresh token expired or already used", nil)
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return common.NewUnauthorizedError("Invalid or expired refresh token", nil)
		default:
			return common.NewUpstreamError("Server error", err)
		}
	}

	setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "New access token created successfully",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
	return nil
}

// Logout godoc
// @Summary      Log out the current session
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewUnauthorizedError("Unauthorized", nil)
	}

	if err := h.authService.Logout(user.ID); err != nil {
		return common.NewUpstreamError("Server error", err)
	}

	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully!",
	})
	return nil
}

// Me godoc
// @Summary      Get the authenticated account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewUnauthorizedError("Unauthorized", nil)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    user,
	})
	return nil
}

// UpdateMe godoc
// @Summary      Update profile fields of the authenticated account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.UpdateUserRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/me [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewUnauthorizedError("Unauthorized", nil)
	}

	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	updated, err := h.userService.Update(user.ID, &req)
	if err != nil {
		return mapUserServiceError(err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully!",
		"data":    updated,
	})
	return nil
}

// DeleteMe godoc
// @Summary      Delete the authenticated account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users/me [delete]
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return common.NewUnauthorizedError("Unauthorized", nil)
	}

	if err := h.userService.Delete(user.ID); err != nil {
		return mapUserServiceError(err)
	}

	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully!",
	})
	return nil
}

// ListUsers godoc
// @Summary      List all accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.GetAll()
	if err != nil {
		return common.NewUpstreamError("Could not retrieve users", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    users,
	})
	return nil
}

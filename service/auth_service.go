package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"go-shop-api/config"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidRefreshToken covers signature, format and expiry
	// failures on a presented refresh token, and tokens whose owner
	// no longer exists.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenReused means the presented refresh token was
	// already rotated out or cleared by a logout.
	ErrRefreshTokenReused = errors.New("refresh token expired or already used")
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// AuthService owns password hashing and the access/refresh token pair:
// minting, rotation and invalidation. The user record's refresh_token
// column is the single source of truth for session validity.
type AuthService struct {
	userRepo repository.IUserRepository
}

func NewAuthService(userRepo repository.IUserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

func accessTTL() time.Duration {
	if m := config.AppConfig.JWT.AccessTTLMinutes; m > 0 {
		return time.Duration(m) * time.Minute
	}
	return defaultAccessTTL
}

func refreshTTL() time.Duration {
	if h := config.AppConfig.JWT.RefreshTTLHours; h > 0 {
		return time.Duration(h) * time.Hour
	}
	return defaultRefreshTTL
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// tokenID returns a random token identifier. The iat/exp claims only
// have second granularity, so without a unique jti two tokens minted
// for the same user in the same second would be byte-identical and
// rotation would be a no-op.
func tokenID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func signToken(userID int, secret string, ttl time.Duration) (string, error) {
	jti, err := tokenID()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to generate token id")
		return "", err
	}

	now := time.Now()
	claims := &model.AppClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

func parseToken(tokenString, secret string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// mintPair builds a fresh token pair without persisting anything.
func (s *AuthService) mintPair(userID int) (*model.TokenPair, error) {
	accessToken, err := signToken(userID, config.AppConfig.JWT.AccessSecret, accessTTL())
	if err != nil {
		return nil, err
	}

	refreshToken, err := signToken(userID, config.AppConfig.JWT.RefreshSecret, refreshTTL())
	if err != nil {
		return nil, err
	}

	return &model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// GenerateTokenPair mints an access/refresh pair for the user and
// persists the refresh token, overwriting any prior value. This is the
// rotation point: a previously issued refresh token stops being
// recognized as soon as the new one lands, even if it has not expired.
func (s *AuthService) GenerateTokenPair(userID int) (*model.TokenPair, error) {
	pair, err := s.mintPair(userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRefreshToken(userID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// ParseAccessToken verifies an access token's signature and expiry and
// returns its claims.
func (s *AuthService) ParseAccessToken(tokenString string) (*model.AppClaims, error) {
	return parseToken(tokenString, config.AppConfig.JWT.AccessSecret)
}

// Refresh validates a presented refresh token and rotates the pair.
// The stored token is replaced only if it still equals the presented
// one, so replaying a rotated-out token fails cleanly instead of
// silently producing a second valid pair.
func (s *AuthService) Refresh(presented string) (*model.TokenPair, error) {
	claims, err := parseToken(presented, config.AppConfig.JWT.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to load user during token refresh")
		}
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.RotateRefreshToken(user.ID, presented, pair.RefreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenMismatch) {
			logger.Log.WithField("user_id", user.ID).Warn("Refresh token reuse detected")
			return nil, ErrRefreshTokenReused
		}
		return nil, err
	}

	return pair, nil
}

// Logout clears the stored refresh token, making any outstanding
// refresh token for the user permanently unusable regardless of expiry.
func (s *AuthService) Logout(userID int) error {
	return s.userRepo.ClearRefreshToken(userID)
}

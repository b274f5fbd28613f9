// file: service/auth_service_test.go

package service

import (
	"database/sql"
	"go-shop-api/model"
	"go-shop-api/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthService_HashAndCheckPassword(t *testing.T) {
	authService := NewAuthService(nil)
	password := "mySecretPassword123"

	hashedPassword, err := authService.HashPassword(password)
	if err != nil {
		t.Fatalf("authService.HashPassword() returned an unexpected error: %v", err)
	}

	if hashedPassword == password {
		t.Errorf("Hashed password should not be the same as the original password.")
	}

	if !authService.CheckPasswordHash(password, hashedPassword) {
		t.Errorf("CheckPasswordHash() should have returned true for a matching password.")
	}

	if authService.CheckPasswordHash("notMyPassword", hashedPassword) {
		t.Errorf("CheckPasswordHash() should have returned false for a non-matching password.")
	}
}

func TestAuthService_GenerateTokenPair(t *testing.T) {
	mockRepo := new(mockUserRepo)
	mockRepo.On("SetRefreshToken", 42, mock.AnythingOfType("string")).Return(nil).Once()

	authService := NewAuthService(mockRepo)
	pair, err := authService.GenerateTokenPair(42)

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	// The access token must decode with the access secret and carry
	// the account identifier.
	claims, err := authService.ParseAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)

	// The refresh token is signed with a distinct secret, so it must
	// not verify as an access token.
	_, err = authService.ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_MintedTokensAreUnique(t *testing.T) {
	// iat/exp only have second granularity, so pairs minted back to
	// back must still differ or rotation degenerates into a no-op and
	// an old refresh token would keep working.
	authService := NewAuthService(nil)

	first, err := authService.mintPair(42)
	assert.NoError(t, err)
	second, err := authService.mintPair(42)
	assert.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestAuthService_Refresh(t *testing.T) {
	user := &model.User{ID: 7, Username: "ann1", Email: "ann@x.com"}

	t.Run("rotates the pair and persists the new refresh token", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService := NewAuthService(mockRepo)

		mockRepo.On("SetRefreshToken", 7, mock.AnythingOfType("string")).Return(nil).Once()
		original, err := authService.GenerateTokenPair(7)
		assert.NoError(t, err)

		mockRepo.On("GetUserByID", 7).Return(user, nil).Once()
		mockRepo.On("RotateRefreshToken", 7, original.RefreshToken, mock.AnythingOfType("string")).Return(nil).Once()

		rotated, err := authService.Refresh(original.RefreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, rotated.AccessToken)
		assert.NotEqual(t, original.RefreshToken, rotated.RefreshToken)

		mockRepo.AssertExpectations(t)
	})

	t.Run("replaying a rotated-out token fails", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService := NewAuthService(mockRepo)

		mockRepo.On("SetRefreshToken", 7, mock.AnythingOfType("string")).Return(nil).Once()
		original, err := authService.GenerateTokenPair(7)
		assert.NoError(t, err)

		mockRepo.On("GetUserByID", 7).Return(user, nil).Once()
		mockRepo.On("RotateRefreshToken", 7, original.RefreshToken, mock.AnythingOfType("string")).
			Return(repository.ErrRefreshTokenMismatch).Once()

		_, err = authService.Refresh(original.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenReused)

		mockRepo.AssertExpectations(t)
	})

	t.Run("garbage token fails without touching the store", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService := NewAuthService(mockRepo)

		_, err := authService.Refresh("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)

		mockRepo.AssertNotCalled(t, "GetUserByID")
	})

	t.Run("access token is rejected as a refresh token", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService := NewAuthService(mockRepo)

		mockRepo.On("SetRefreshToken", 7, mock.AnythingOfType("string")).Return(nil).Once()
		pair, err := authService.GenerateTokenPair(7)
		assert.NoError(t, err)

		_, err = authService.Refresh(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("deleted account fails", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		authService := NewAuthService(mockRepo)

		mockRepo.On("SetRefreshToken", 7, mock.AnythingOfType("string")).Return(nil).Once()
		pair, err := authService.GenerateTokenPair(7)
		assert.NoError(t, err)

		mockRepo.On("GetUserByID", 7).Return(nil, sql.ErrNoRows).Once()

		_, err = authService.Refresh(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	mockRepo := new(mockUserRepo)
	mockRepo.On("ClearRefreshToken", 7).Return(nil).Once()

	authService := NewAuthService(mockRepo)
	err := authService.Logout(7)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

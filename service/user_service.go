package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/repository"
	"math/big"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("password is incorrect")
	ErrInvalidOTP        = errors.New("invalid OTP")
	ErrNoFieldsToUpdate  = errors.New("no valid fields provided to update")
)

// DuplicateKeyError reports which unique field collided during a create
// or update.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists!", e.Field)
}

const otpEmailSubject = "Verify your GO SHOP Account"

// UserService handles the account lifecycle: registration with email
// OTP verification, credential login, profile updates and deletion.
type UserService struct {
	userRepo repository.IUserRepository
	auth     *AuthService
	mailer   IMailer
	google   IGoogleVerifier
}

func NewUserService(userRepo repository.IUserRepository, auth *AuthService, mailer IMailer, google IGoogleVerifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		mailer:   mailer,
		google:   google,
	}
}

// generateOTP draws a 6-digit code uniformly from [100000, 999999].
func generateOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}

func mapDuplicateErr(err error) error {
	if field, ok := repository.DuplicateField(err); ok {
		return &DuplicateKeyError{Field: field}
	}
	return err
}

// Register creates an unverified account with a freshly generated OTP
// and dispatches the verification email. Email delivery is
// fire-and-forget: a send failure is logged and never fails the
// registration.
func (s *UserService) Register(req *model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:       req.Name,
		Username:   req.Username,
		Email:      req.Email,
		Mobile:     req.Mobile,
		Password:   hashedPassword,
		OTP:        &otp,
		IsVerified: false,
		Role:       model.RoleUser,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, mapDuplicateErr(err)
	}

	go func(email, name string, code int) {
		if err := s.mailer.SendOTP(email, name, code, otpEmailSubject); err != nil {
			logger.Log.WithError(err).WithField("email", email).Error("Failed to send OTP email")
			return
		}
		logger.Log.WithField("email", email).Info("OTP email sent")
	}(user.Email, user.Name, otp)

	return user, nil
}

// Verify consumes the registration OTP. On a match the account is
// flipped to verified and the stored code is cleared, so a second call
// with the same code fails.
func (s *UserService) Verify(email string, otp int) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	if user.OTP == nil || *user.OTP != otp {
		return ErrInvalidOTP
	}

	return s.userRepo.MarkVerified(user.ID)
}

// Login checks the credential against the stored hash and mints a
// token pair. The error never reveals more than "password is
// incorrect" when the hash does not match.
func (s *UserService) Login(req *model.LoginRequest) (*model.User, *model.TokenPair, error) {
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, err := s.userRepo.GetUserByLogin(identifier)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if !s.auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, nil, ErrIncorrectPassword
	}

	pair, err := s.auth.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User logged in")

	return user, pair, nil
}

// GoogleLogin verifies a Google ID token and resolves it to an
// account, creating a pre-verified one on first login. Token issuance
// is identical to the password path.
func (s *UserService) GoogleLogin(ctx context.Context, idToken string) (*model.User, *model.TokenPair, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByEmail(identity.Email)
	if err == sql.ErrNoRows {
		user, err = s.createGoogleUser(identity)
	}
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.auth.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in with Google")
	return user, pair, nil
}

func (s *UserService) createGoogleUser(identity *GoogleIdentity) (*model.User, error) {
	// The account never uses password login, but the column is
	// mandatory; store a hash of random bytes.
	randomBytes := make([]byte, 20)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, err
	}
	hashedPassword, err := s.auth.HashPassword(hex.EncodeToString(randomBytes))
	if err != nil {
		return nil, err
	}

	name := identity.Name
	if name == "" {
		name = strings.Split(identity.Email, "@")[0]
	}

	user := &model.User{
		Name:       name,
		Username:   strings.Split(identity.Email, "@")[0],
		Email:      identity.Email,
		Mobile:     "0000000000",
		Password:   hashedPassword,
		IsVerified: true,
		Role:       model.RoleUser,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, mapDuplicateErr(err)
	}
	return user, nil
}

// Update applies a partial profile update. At least one field must be
// supplied.
func (s *UserService) Update(userID int, req *model.UpdateUserRequest) (*model.User, error) {
	if req.Name == nil && req.Username == nil && req.Email == nil && req.Mobile == nil {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.UpdateUser(userID, repository.UpdateUserParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Mobile:   req.Mobile,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, mapDuplicateErr(err)
	}
	return user, nil
}

// Delete removes the account.
func (s *UserService) Delete(userID int) error {
	if err := s.userRepo.DeleteUser(userID); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User deleted")
	return nil
}

// GetAll lists every account. Admin only; secrets are stripped by the
// model's JSON representation.
func (s *UserService) GetAll() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

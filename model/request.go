// file: model/request.go

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,min=7,max=15"`
	Password string `json:"password" validate:"required,min=8"`
}

// OTPCode is a verification code that decodes from either a JSON
// number or a numeric string, since clients submit it both ways.
type OTPCode int

func (c *OTPCode) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("otp must be numeric: %w", err)
	}
	*c = OTPCode(n)
	return nil
}

// VerifyRequest defines the payload for consuming a registration OTP.
type VerifyRequest struct {
	Email string  `json:"email" validate:"required,email"`
	OTP   OTPCode `json:"otp" validate:"required"`
}

// LoginRequest defines the payload for user authentication.
// Either username or email must be supplied.
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token in the body, used when the
// client does not send it as a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateUserRequest defines the payload for a partial profile update.
// Only non-nil fields are written.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Mobile   *string `json:"mobile" validate:"omitempty,min=7,max=15"`
}

// GoogleLoginRequest carries a Google-issued ID token for the
// federated login path.
type GoogleLoginRequest struct {
	TokenID string `json:"tokenId" validate:"required"`
}

// CreateItemRequest defines the payload for adding a catalog item.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"omitempty,gte=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url" validate:"required,url"`
}

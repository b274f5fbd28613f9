// file: service/google.go

package service

import (
	"context"
	"errors"
	"go-shop-api/config"

	"google.golang.org/api/idtoken"
)

// ErrInvalidGoogleToken is returned when the presented ID token fails
// Google-side validation or was issued for a different client.
var ErrInvalidGoogleToken = errors.New("invalid google id token")

// GoogleIdentity is the verified identity extracted from a Google ID
// token.
type GoogleIdentity struct {
	Email string
	Name  string
}

// IGoogleVerifier abstracts Google ID token validation so the
// federated login path can be tested offline.
type IGoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// GoogleVerifier validates Google-issued ID tokens against the
// configured OAuth client ID.
type GoogleVerifier struct{}

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, config.AppConfig.Google.ClientID)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, ErrInvalidGoogleToken
	}

	name, _ := payload.Claims["name"].(string)
	return &GoogleIdentity{Email: email, Name: name}, nil
}

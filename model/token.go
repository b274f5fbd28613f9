// file: model/token.go

package model

// TokenPair holds a freshly minted access/refresh token pair. The
// refresh token is also persisted on the user record, which is the
// source of truth for revocation and single-use rotation.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

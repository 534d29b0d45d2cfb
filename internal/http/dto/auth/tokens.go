// Package auth contiene los DTOs de los endpoints de autenticación.
package auth

// TokenPairResponse es la respuesta de login y reissue.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ReissueRequest body de POST /api/v1/auth/reissue.
type ReissueRequest struct {
	RefreshToken string `json:"refreshToken"`
}

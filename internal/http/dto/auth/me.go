package auth

import "time"

// MeResponse expone la identidad ligada al request.
type MeResponse struct {
	AccountID string    `json:"accountId"`
	Nickname  string    `json:"nickname"`
	Admin     bool      `json:"admin"`
	ExpiresAt time.Time `json:"expiresAt"`
}

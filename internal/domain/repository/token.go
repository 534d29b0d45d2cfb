package repository

import "time"

// RefreshTokenRecord es la única fila de refresh activa por cuenta.
// Token debe ser exactamente el último refresh emitido para AccountID;
// cualquier refresh anterior queda reemplazado aunque su firma siga vigente.
type RefreshTokenRecord struct {
	AccountID string
	Token     string
	ExpiresAt time.Time
}

// BlacklistEntry es un access token revocado antes de su expiración natural.
// Una entrada con ExpiresAt en el pasado es inerte.
type BlacklistEntry struct {
	Token     string
	ExpiresAt time.Time
}

// Live indica si la entrada sigue bloqueando el token en el instante now.
func (e BlacklistEntry) Live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

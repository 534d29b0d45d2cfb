// Package admin contiene los controllers administrativos.
package admin

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Ping *PingController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers() *Controllers {
	return &Controllers{
		Ping: NewPingController(),
	}
}

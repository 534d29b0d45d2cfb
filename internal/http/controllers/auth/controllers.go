// Package auth contiene los controllers de login federado, reissue, logout y me.
package auth

import svc "github.com/dropDatabas3/shelfauth/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login   *LoginController
	Reissue *ReissueController
	Logout  *LogoutController
	Me      *MeController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Login:   NewLoginController(s.Login),
		Reissue: NewReissueController(s.Reissue),
		Logout:  NewLogoutController(s.Logout),
		Me:      NewMeController(),
	}
}

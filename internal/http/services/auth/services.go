// Package auth contiene los services de login federado, reissue y logout.
package auth

import "github.com/dropDatabas3/shelfauth/internal/tokenstore"

// Deps contiene las dependencias compartidas por los services de auth.
type Deps struct {
	Providers ProviderLogin
	Members   MemberResolver
	Issuer    TokenIssuer
	Tokens    tokenstore.Store
	Accounts  AccountReader
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login   LoginService
	Reissue ReissueService
	Logout  LogoutService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{
		Login:   NewLoginService(d),
		Reissue: NewReissueService(d),
		Logout:  NewLogoutService(d),
	}
}

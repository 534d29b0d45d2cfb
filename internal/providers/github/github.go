// Package github registra el mapper de GitHub. GitHub no emite ID tokens: el
// perfil sale de GET /user con el access token.
package github

import (
	"github.com/dropDatabas3/shelfauth/internal/providers"
)

const (
	Tag         = "github"
	TokenURL    = "https://github.com/login/oauth/access_token"
	UserInfoURL = "https://api.github.com/user"
)

func init() {
	providers.Register(providers.Provider{
		Tag:         Tag,
		Map:         Map,
		TokenURL:    TokenURL,
		UserInfoURL: UserInfoURL,
	})
}

// Map usa login como nickname; name suele venir vacío o con espacios.
func Map(payload map[string]any) (providers.Profile, error) {
	id := providers.String(payload, "id")
	if id == "" {
		return providers.Profile{}, providers.ErrInvalidPayload
	}
	return providers.Profile{
		ProviderID: id,
		Email:      providers.String(payload, "email"),
		Nickname:   providers.String(payload, "login"),
		ImageURL:   providers.String(payload, "avatar_url"),
	}, nil
}

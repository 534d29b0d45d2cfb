// Package google registra el mapper de Google (userinfo OIDC, payload plano).
package google

import (
	"strings"

	"github.com/dropDatabas3/shelfauth/internal/providers"
)

const (
	Tag         = "google"
	TokenURL    = "https://oauth2.googleapis.com/token"
	UserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

func init() {
	providers.Register(providers.Provider{
		Tag:         Tag,
		Map:         Map,
		TokenURL:    TokenURL,
		UserInfoURL: UserInfoURL,
	})
}

func Map(payload map[string]any) (providers.Profile, error) {
	sub := providers.String(payload, "sub")
	if sub == "" {
		return providers.Profile{}, providers.ErrInvalidPayload
	}
	email := providers.String(payload, "email")
	nick := providers.String(payload, "name")
	if nick == "" {
		nick = providers.String(payload, "given_name")
	}
	if nick == "" && email != "" {
		nick, _, _ = strings.Cut(email, "@")
	}
	return providers.Profile{
		ProviderID: sub,
		Email:      email,
		Nickname:   nick,
		ImageURL:   providers.String(payload, "picture"),
	}, nil
}

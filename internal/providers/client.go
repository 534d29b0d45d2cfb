package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// ErrMissingCode el callback llegó sin authorization code.
var ErrMissingCode = errors.New("providers: missing authorization code")

const maxBody = 1 << 20

// Credentials de la app registrada en el proveedor. TokenURL/UserInfoURL vacíos
// usan los defaults del Provider registrado.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenURL     string
	UserInfoURL  string
}

// Client hace el code exchange + fetch de perfil y delega el mapeo al Registry.
// Sólo los proveedores con Credentials configuradas quedan habilitados.
type Client struct {
	reg   *Registry
	creds map[string]Credentials
	http  *http.Client
}

func NewClient(reg *Registry, creds map[string]Credentials, hc *http.Client) *Client {
	if reg == nil {
		reg = Default()
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	norm := make(map[string]Credentials, len(creds))
	for tag, c := range creds {
		norm[NormalizeTag(tag)] = c
	}
	return &Client{reg: reg, creds: norm, http: hc}
}

// Enabled lista los tags registrados y configurados.
func (c *Client) Enabled() []string {
	var out []string
	for _, t := range c.reg.Tags() {
		if _, ok := c.creds[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// Login canjea code por un access token del proveedor, obtiene el perfil crudo
// y lo traduce a Profile.
func (c *Client) Login(ctx context.Context, tag, code string) (Profile, error) {
	p, ok := c.reg.Lookup(tag)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, tag)
	}
	cr, ok := c.creds[p.Tag]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q not configured", ErrUnsupportedProvider, tag)
	}
	if strings.TrimSpace(code) == "" {
		return Profile{}, ErrMissingCode
	}

	tokenURL := firstNonEmpty(cr.TokenURL, p.TokenURL)
	userURL := firstNonEmpty(cr.UserInfoURL, p.UserInfoURL)

	at, err := c.exchange(ctx, tokenURL, cr, code)
	if err != nil {
		logger.From(ctx).Warn("provider code exchange failed", logger.Provider(p.Tag), logger.Err(err))
		return Profile{}, fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}

	payload, err := c.userInfo(ctx, userURL, at)
	if err != nil {
		logger.From(ctx).Warn("provider userinfo failed", logger.Provider(p.Tag), logger.Err(err))
		return Profile{}, fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}

	return c.reg.ExtractProfile(p.Tag, payload)
}

func (c *Client) exchange(ctx context.Context, endpoint string, cr Credentials, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", cr.ClientID)
	form.Set("client_secret", cr.ClientSecret)
	form.Set("code", code)
	if cr.RedirectURL != "" {
		form.Set("redirect_uri", cr.RedirectURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response (status %d): %w", resp.StatusCode, err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("oauth error: %s - %s", tr.Error, tr.ErrorDesc)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}
	if tr.AccessToken == "" {
		return "", errors.New("no access_token in response")
	}
	return tr.AccessToken, nil
}

func (c *Client) userInfo(ctx context.Context, endpoint, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBody))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return payload, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

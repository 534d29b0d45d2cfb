package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSignature = errors.New("jwt: invalid signature")
	ErrTokenExpired     = errors.New("jwt: token expired")
	ErrMalformedToken   = errors.New("jwt: malformed token")
)

// Claims es la vista verificada de un token. Para refresh tokens
// Nickname y Admin quedan en su valor cero.
type Claims struct {
	Role      KeyRole
	Subject   string
	Nickname  string
	Admin     bool
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining devuelve el tiempo de vida restante respecto a now (nunca negativo).
func (c *Claims) Remaining(now time.Time) time.Duration {
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Verify valida firma HS256 contra el secreto del rol indicado, exp e iss.
// Errores: ErrInvalidSignature | ErrTokenExpired | ErrMalformedToken.
func (i *Issuer) Verify(token string, role KeyRole) (*Claims, error) {
	secret, err := i.secret(role)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrMalformedToken
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(i.now),
		jwtv5.WithLeeway(i.leeway),
	}
	if i.iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.iss))
	}

	var cl accessClaims
	tok, err := jwtv5.ParseWithClaims(token, &cl, func(*jwtv5.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !tok.Valid || cl.Subject == "" || cl.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}

	out := &Claims{
		Role:      role,
		Subject:   cl.Subject,
		Nickname:  cl.Nickname,
		Admin:     cl.Admin,
		ID:        cl.ID,
		ExpiresAt: cl.ExpiresAt.Time,
	}
	if cl.IssuedAt != nil {
		out.IssuedAt = cl.IssuedAt.Time
	}
	return out, nil
}

// mapParseError traduce los errores de golang-jwt a la taxonomía del paquete.
// La firma se verifica antes que las claims, así que un token expirado firmado
// con otra clave reporta ErrInvalidSignature.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid), errors.Is(err, jwtv5.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrMalformedToken
	}
}

package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
)

// KeyRole selecciona el secreto contra el que se firma o verifica un token.
// Siempre es explícito en el call site; nunca se infiere del contenido del token.
type KeyRole int

const (
	AccessKey KeyRole = iota + 1
	RefreshKey
)

func (r KeyRole) String() string {
	switch r {
	case AccessKey:
		return "access"
	case RefreshKey:
		return "refresh"
	default:
		return "unknown"
	}
}

var (
	ErrMissingSecret = errors.New("jwt: access and refresh secrets are required")
	ErrSharedSecret  = errors.New("jwt: access and refresh secrets must differ")
	ErrUnknownRole   = errors.New("jwt: unknown key role")
)

// Config agrupa secretos y TTLs del issuer.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration // default 15m
	RefreshTTL    time.Duration // default 14d
	// Issuer se inyecta como "iss" y se exige al verificar si no está vacío.
	Issuer string
	// Leeway tolerancia para exp/iat al verificar.
	Leeway time.Duration
	// Now reloj inyectable (tests); default time.Now.
	Now func() time.Time
}

// Issuer firma access/refresh tokens HS256 con secretos distintos.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	iss           string
	leeway        time.Duration
	now           func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, ErrMissingSecret
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, ErrSharedSecret
	}
	i := &Issuer{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		iss:           cfg.Issuer,
		leeway:        cfg.Leeway,
		now:           cfg.Now,
	}
	if i.accessTTL <= 0 {
		i.accessTTL = 15 * time.Minute
	}
	if i.refreshTTL <= 0 {
		i.refreshTTL = 14 * 24 * time.Hour
	}
	if i.now == nil {
		i.now = time.Now
	}
	return i, nil
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Now expone el reloj del issuer para que los cálculos de TTL restante
// usen la misma referencia que la verificación.
func (i *Issuer) Now() time.Time { return i.now() }

// Pair es el resultado de un login o reissue.
type Pair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// accessClaims: {sub, nickname, admin, iat, exp, jti[, iss]}
type accessClaims struct {
	Nickname string `json:"nickname"`
	Admin    bool   `json:"admin"`
	jwtv5.RegisteredClaims
}

// refreshClaims: {sub, iat, exp, jti[, iss]}
type refreshClaims struct {
	jwtv5.RegisteredClaims
}

// IssuePair emite access + refresh para la cuenta.
func (i *Issuer) IssuePair(a *repository.Account) (Pair, error) {
	if a == nil || a.ID == "" {
		return Pair{}, ErrMalformedToken
	}
	now := i.now().UTC()

	accessExp := now.Add(i.accessTTL)
	access, err := i.sign(AccessKey, accessClaims{
		Nickname:         a.Nickname,
		Admin:            a.Admin,
		RegisteredClaims: i.registered(a.ID, now, accessExp),
	})
	if err != nil {
		return Pair{}, err
	}

	refreshExp := now.Add(i.refreshTTL)
	refresh, err := i.sign(RefreshKey, refreshClaims{
		RegisteredClaims: i.registered(a.ID, now, refreshExp),
	})
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp.Truncate(time.Second),
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp.Truncate(time.Second),
	}, nil
}

// registered arma las claims estándar. jti hace único cada token aunque dos
// emisiones para la misma cuenta caigan en el mismo segundo.
func (i *Issuer) registered(sub string, now, exp time.Time) jwtv5.RegisteredClaims {
	return jwtv5.RegisteredClaims{
		Issuer:    i.iss,
		Subject:   sub,
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}
}

func (i *Issuer) sign(role KeyRole, claims jwtv5.Claims) (string, error) {
	secret, err := i.secret(role)
	if err != nil {
		return "", err
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	return tk.SignedString(secret)
}

func (i *Issuer) secret(role KeyRole) ([]byte, error) {
	switch role {
	case AccessKey:
		return i.accessSecret, nil
	case RefreshKey:
		return i.refreshSecret, nil
	default:
		return nil, ErrUnknownRole
	}
}

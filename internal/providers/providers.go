// Package providers traduce el payload crudo de cada proveedor federado a un
// Profile canónico. Cada proveedor vive en su sub-paquete y se registra en init();
// importarlo con blank import lo habilita.
package providers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnsupportedProvider el tag no está registrado.
	ErrUnsupportedProvider = errors.New("providers: unsupported provider")
	// ErrInvalidPayload el payload no trae el id del usuario en el proveedor.
	ErrInvalidPayload = errors.New("providers: invalid payload")
	// ErrProviderExchange falla upstream (token exchange o userinfo).
	ErrProviderExchange = errors.New("providers: upstream exchange failed")
)

// Profile es la vista canónica de un usuario federado.
type Profile struct {
	Email      string
	Nickname   string
	ImageURL   string
	ProviderID string
	Provider   string
}

// Mapper extrae un Profile de un payload anidado. Debe ser pura: sin I/O.
// No necesita completar Profile.Provider; lo completa el registry.
type Mapper func(payload map[string]any) (Profile, error)

// Provider describe un proveedor registrado. TokenURL/UserInfoURL son los
// endpoints por defecto; config puede sobreescribirlos.
type Provider struct {
	Tag         string
	Map         Mapper
	TokenURL    string
	UserInfoURL string
}

// Registry mapea tag → Provider. Seguro para uso concurrente.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Provider)}
}

// Register agrega p. Panic si el tag ya existe o está vacío (error de programación).
func (r *Registry) Register(p Provider) {
	tag := NormalizeTag(p.Tag)
	if tag == "" || p.Map == nil {
		panic("providers: tag and mapper are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.m[tag]; exists {
		panic(fmt.Sprintf("providers: %q already registered", tag))
	}
	p.Tag = tag
	r.m[tag] = p
}

// Lookup obtiene el proveedor por tag (case-insensitive).
func (r *Registry) Lookup(tag string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.m[NormalizeTag(tag)]
	return p, ok
}

// Tags lista los tags registrados, ordenados.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for t := range r.m {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ExtractProfile despacha al Mapper del tag.
func (r *Registry) ExtractProfile(tag string, payload map[string]any) (Profile, error) {
	p, ok := r.Lookup(tag)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, tag)
	}
	if payload == nil {
		return Profile{}, ErrInvalidPayload
	}
	prof, err := p.Map(payload)
	if err != nil {
		return Profile{}, err
	}
	if prof.ProviderID == "" {
		return Profile{}, ErrInvalidPayload
	}
	prof.Provider = p.Tag
	prof.Email = strings.TrimSpace(prof.Email)
	prof.Nickname = strings.TrimSpace(prof.Nickname)
	return prof, nil
}

// NormalizeTag forma canónica de un tag ("Kakao " → "kakao").
func NormalizeTag(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

// ─── Registry global ───

var defaultRegistry = NewRegistry()

// Default retorna el registry global donde se registran los sub-paquetes.
func Default() *Registry { return defaultRegistry }

// Register registra en el registry global. Llamar en init() de cada proveedor.
func Register(p Provider) { defaultRegistry.Register(p) }

// ExtractProfile usa el registry global.
func ExtractProfile(tag string, payload map[string]any) (Profile, error) {
	return defaultRegistry.ExtractProfile(tag, payload)
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/core/events"
)

// Claims carried in the session access token.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider is the concrete identity provider: credentials are
// verified against the store's identity records and sessions are
// represented as signed bearer tokens. Sign-in and sign-out publish
// events on the bus; consumers must take state from the events, not
// from the SignIn return value.
type JWTProvider struct {
	identities IdentityRepository
	bus        *events.EventBus
	secret     []byte
	tokenTTL   time.Duration
	logger     *slog.Logger

	mu      sync.RWMutex
	current *Identity
}

func NewJWTProvider(identities IdentityRepository, bus *events.EventBus, secret string, tokenTTL time.Duration, logger *slog.Logger) *JWTProvider {
	return &JWTProvider{
		identities: identities,
		bus:        bus,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// CurrentIdentity returns the identity held from the most recent
// sign-in, or nil when signed out.
func (p *JWTProvider) CurrentIdentity() *Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	identity := *p.current
	return &identity
}

func (p *JWTProvider) SignIn(email, password string) (string, error) {
	row, err := p.identities.GetIdentityByEmail(NormalizeEmail(email))
	if err != nil {
		p.logger.Error("identity lookup failed", "error", err)
		return "", internal.NewStoreError(err)
	}
	if row == nil {
		return "", internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return "", internal.ErrInvalidCredentials
	}

	identity := Identity{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		AvatarURL:   row.AvatarURL,
	}

	token, err := p.generateToken(identity)
	if err != nil {
		return "", internal.NewInternalError("failed to sign session token", err)
	}

	p.mu.Lock()
	p.current = &identity
	p.mu.Unlock()

	p.bus.PublishSync(context.Background(),
		events.NewSignedInEvent(identity.ID, identity.Email, identity.DisplayName, identity.AvatarURL))

	return token, nil
}

func (p *JWTProvider) SignOut() error {
	p.mu.Lock()
	current := p.current
	p.current = nil
	p.mu.Unlock()

	var id, email string
	if current != nil {
		id, email = current.ID, current.Email
	}
	p.bus.PublishSync(context.Background(), events.NewSignedOutEvent(id, email))
	return nil
}

// ValidateToken resolves a bearer token back to the identity it was
// issued for.
func (p *JWTProvider) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}

	return &Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		AvatarURL:   claims.AvatarURL,
	}, nil
}

func (p *JWTProvider) generateToken(identity Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// HashPassword is used by the seeder when provisioning identities.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ClientTokenDuration is 7 days, matching admin sessions.
	ClientTokenDuration = 7 * 24 * time.Hour
	clientTokenIssuer   = "studio-backend"
)

var ErrInvalidClientToken = errors.New("invalid client token")

// ClientClaims are the claims carried by a client portal token.
type ClientClaims struct {
	jwt.RegisteredClaims
	Tier string `json:"tier,omitempty"`
}

// ClientTokenManager signs and verifies HS256 client tokens.
type ClientTokenManager struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

func NewClientTokenManager(secret string) *ClientTokenManager {
	return &ClientTokenManager{
		secret:   []byte(secret),
		duration: ClientTokenDuration,
		now:      time.Now,
	}
}

// Generate issues a token whose subject is the client ID.
func (m *ClientTokenManager) Generate(clientID uuid.UUID, tier string) (string, error) {
	now := m.now().UTC()
	claims := ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   clientID.String(),
			Issuer:    clientTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
		Tier: tier,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate parses tokenStr and returns the client ID it was issued for.
func (m *ClientTokenManager) Validate(tokenStr string) (uuid.UUID, error) {
	if tokenStr == "" {
		return uuid.Nil, ErrInvalidClientToken
	}

	claims := &ClientClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(clientTokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidClientToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidClientToken
	}
	return id, nil
}

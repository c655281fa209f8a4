package session

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims wraps the session payload in standard JWT claims so the cookie is
// signed (HS256) and expires.
type Claims struct {
	jwt.RegisteredClaims
	Session *Session `json:"sess"`
}

// Codec signs and verifies session cookies.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, common.ErrMissingSecret
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (c *Codec) Encode(s *Session) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Session: s,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and returns the session it carries. Any
// verification failure (bad signature, expiry, garbage) yields
// common.ErrInvalidSession.
func (c *Codec) Decode(token string) (*Session, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidSession, err)
	}
	if !parsed.Valid {
		return nil, common.ErrInvalidSession
	}
	if claims.Session == nil {
		return New(), nil
	}
	return claims.Session, nil
}

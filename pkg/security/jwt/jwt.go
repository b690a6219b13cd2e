package jwt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artem13815/acquisitions/pkg/auth"
)

// TokenTTL is the fixed lifetime of an issued token. There is no refresh.
const TokenTTL = 24 * time.Hour

type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewGenerator(secret, issuer string) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: TokenTTL, now: time.Now}
}

// WithClock overrides the time source; used by tests to move across expiry.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Claims carries the user identity next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64     `json:"id"`
	Email  string    `json:"email"`
	Role   auth.Role `json:"role"`
}

func (g *Generator) Generate(ctx context.Context, user auth.User) (string, error) {
	now := g.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", auth.ErrTokenSignFailed, err)
	}
	return signed, nil
}

// Verify parses an HS256 token and returns its claims. Any failure, including
// expiry, is reported as auth.ErrInvalidOrExpiredToken.
func (g *Generator) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	}
	if g.issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidOrExpiredToken, err)
	}
	return claims, nil
}

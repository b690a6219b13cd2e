package jwt

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/acquisitions/pkg/auth"
)

var testUser = auth.User{ID: 42, Email: "a@x.com", Role: auth.RoleAdmin}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestGenerateAndVerify_RoundTrip(t *testing.T) {
	g := NewGenerator("super-secret", "acquisitions")

	tok, err := g.Generate(context.Background(), testUser)
	require.NoError(t, err)

	claims, err := g.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "acquisitions", claims.Issuer)
	assert.Equal(t, TokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerify_Expiry(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := &clock{t: issued}
	g := NewGenerator("secret", "acquisitions").WithClock(clk.now)

	tok, err := g.Generate(context.Background(), testUser)
	require.NoError(t, err)

	clk.t = issued.Add(TokenTTL - time.Minute)
	_, err = g.Verify(tok)
	require.NoError(t, err)

	clk.t = issued.Add(TokenTTL + time.Second)
	_, err = g.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidOrExpiredToken)
}

func TestVerify_Rejects(t *testing.T) {
	g := NewGenerator("right-secret", "acquisitions")
	tok, err := g.Generate(context.Background(), testUser)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: 1})
	noneTok, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	otherIssuer, err := NewGenerator("right-secret", "someone-else").Generate(context.Background(), testUser)
	require.NoError(t, err)

	tests := map[string]string{
		"tampered signature": tampered,
		"wrong secret":       mustGenerate(t, NewGenerator("wrong-secret", "acquisitions")),
		"malformed":          "not.a.jwt",
		"empty":              "",
		"alg none":           noneTok,
		"other issuer":       otherIssuer,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := g.Verify(tok)
			assert.ErrorIs(t, err, auth.ErrInvalidOrExpiredToken)
		})
	}
}

func mustGenerate(t *testing.T, g *Generator) string {
	t.Helper()
	tok, err := g.Generate(context.Background(), testUser)
	require.NoError(t, err)
	return tok
}

func newMiddlewareApp(g *Generator, required bool) *fiber.App {
	app := fiber.New()
	app.Get("/", NewAuthMiddleware(g, required), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.SendString("guest")
		}
		return c.SendString(claims.Email)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	g := NewGenerator("secret", "acquisitions")
	tok := mustGenerate(t, g)

	tests := []struct {
		name       string
		required   bool
		cookie     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "cookie token", cookie: tok, wantStatus: 200, wantBody: "a@x.com"},
		{name: "bearer header", header: "Bearer " + tok, wantStatus: 200, wantBody: "a@x.com"},
		{name: "raw header", header: tok, wantStatus: 200, wantBody: "a@x.com"},
		{name: "optional without token", wantStatus: 200, wantBody: "guest"},
		{name: "optional with bad token", cookie: "garbage", wantStatus: 200, wantBody: "guest"},
		{name: "required without token", required: true, wantStatus: 401},
		{name: "required with bad token", required: true, header: "Bearer garbage", wantStatus: 401},
		{name: "required with token", required: true, cookie: tok, wantStatus: 200, wantBody: "a@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", CookieName+"="+tt.cookie)
			}
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := newMiddlewareApp(g, tt.required).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

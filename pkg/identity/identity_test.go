package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
)

func TestStatic(t *testing.T) {
	if id, ok := Static("u1").Current(context.Background()); !ok || id != "u1" {
		t.Fatalf("expected u1, got %q %v", id, ok)
	}
	if _, ok := Static("").Current(context.Background()); ok {
		t.Fatal("expected empty static to be signed out")
	}
}

func TestFromRequest(t *testing.T) {
	p := FromRequest{Fallback: Static("cli")}
	if id, _ := p.Current(context.Background()); id != "cli" {
		t.Fatalf("expected fallback user, got %q", id)
	}
	ctx := WithUser(context.Background(), "web")
	if id, _ := p.Current(ctx); id != "web" {
		t.Fatalf("expected request user, got %q", id)
	}
	if _, ok := (FromRequest{}).Current(context.Background()); ok {
		t.Fatal("expected no user without fallback")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
	}
	for in, want := range cases {
		got, err := BearerToken(in)
		if err != nil || got != want {
			t.Fatalf("BearerToken(%q): expected %q, got %q %v", in, want, got, err)
		}
	}
	for _, in := range []string{"", "Basic abc", "Bearer ", "abc"} {
		if _, err := BearerToken(in); !errors.Is(err, ErrNoToken) {
			t.Fatalf("BearerToken(%q): expected ErrNoToken, got %v", in, err)
		}
	}
}

func sign(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestJWTVerifier(t *testing.T) {
	v := JWTVerifier{Secret: []byte("shh")}
	ctx := context.Background()

	good := sign(t, "shh", jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	if id, err := v.Verify(ctx, good); err != nil || id != "u1" {
		t.Fatalf("expected u1, got %q %v", id, err)
	}

	bad := map[string]string{
		"wrong secret": sign(t, "other", jwt.RegisteredClaims{Subject: "u1"}),
		"expired":      sign(t, "shh", jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}),
		"no subject":   sign(t, "shh", jwt.RegisteredClaims{Issuer: "u1"}),
		"garbage":      "not.a.jwt",
	}
	for name, tok := range bad {
		if _, err := v.Verify(ctx, tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
	if _, err := v.Verify(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

type fakeAuth struct {
	uid string
	err error
}

func (f fakeAuth) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.Token{UID: f.uid}, nil
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()
	v := &FirebaseVerifier{client: fakeAuth{uid: "fb-1"}}
	if id, err := v.Verify(ctx, "tok"); err != nil || id != "fb-1" {
		t.Fatalf("expected fb-1, got %q %v", id, err)
	}
	v = &FirebaseVerifier{client: fakeAuth{err: errors.New("ID token has expired")}}
	if _, err := v.Verify(ctx, "tok"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

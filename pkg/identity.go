package pkg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-resty/resty/v2"
)

// ErrInvalidToken covers every way a bearer token can fail to resolve:
// bad signature, expired, malformed, or unknown to the identity provider.
var ErrInvalidToken = errors.New("invalid or expired token")

// IdentityResolver maps a bearer token to the identity provider's user id.
type IdentityResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// JWTVerifier resolves users locally by verifying the identity provider's
// HS256 signature and reading the subject claim. This avoids one network
// round trip per request when the provider's JWT secret is available.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) ResolveUser(_ context.Context, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// AuthClient resolves users remotely against the identity provider's user
// endpoint, the same call the original service made per request.
type AuthClient struct {
	http *resty.Client
}

func NewAuthClient(baseURL, apiKey string) *AuthClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	if apiKey != "" {
		client.SetHeader("apikey", apiKey)
	}
	return &AuthClient{http: client}
}

func (c *AuthClient) ResolveUser(ctx context.Context, token string) (string, error) {
	var user struct {
		ID string `json:"id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return "", fmt.Errorf("identity lookup failed: %w", err)
	}
	if resp.IsError() || user.ID == "" {
		return "", ErrInvalidToken
	}
	return user.ID, nil
}

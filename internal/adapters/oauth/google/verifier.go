package google

import (
	"context"
	"errors"

	"github.com/vncsmyrnk/election/internal/core/ports"
	"google.golang.org/api/idtoken"
)

type GoogleVerifier struct {
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewVerifier() ports.TokenVerifier {
	return &GoogleVerifier{validate: idtoken.Validate}
}

// Verify accepts only ID tokens issued for clientID whose e-mail Google has verified.
func (v *GoogleVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := v.validate(ctx, token, clientID)
	if err != nil {
		return nil, err
	}
	return payloadFromClaims(payload.Claims)
}

func payloadFromClaims(claims map[string]any) (*ports.TokenPayload, error) {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("email not found in claims")
	}
	if verified, _ := claims["email_verified"].(bool); !verified {
		return nil, errors.New("email is not verified")
	}
	name, _ := claims["name"].(string)
	return &ports.TokenPayload{Email: email, Name: name}, nil
}

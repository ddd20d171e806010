package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// Identity is the signed-in caller as asserted by a verified ID token.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return identityFromClaims(result.UID, result.Claims), nil
}

func identityFromClaims(uid string, claims map[string]interface{}) *Identity {
	id := &Identity{UID: uid}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := claims["picture"].(string); ok {
		id.Picture = v
	}
	return id
}

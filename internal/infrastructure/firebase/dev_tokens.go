package firebase

import (
	"context"
	"fmt"
	"strings"
)

const devTokenPrefix = "dev:"

// DevTokenVerifier accepts "dev:<uid>" or "dev:<uid>:<email>" bearer tokens.
// It is wired only for the in-memory data store in development, where no
// Firebase project is available.
type DevTokenVerifier struct{}

func NewDevTokenVerifier() *DevTokenVerifier {
	return &DevTokenVerifier{}
}

func (DevTokenVerifier) VerifyToken(_ context.Context, token string) (*Identity, error) {
	if !strings.HasPrefix(token, devTokenPrefix) {
		return nil, fmt.Errorf("not a development token")
	}
	parts := strings.SplitN(strings.TrimPrefix(token, devTokenPrefix), ":", 2)
	if parts[0] == "" {
		return nil, fmt.Errorf("development token has no uid")
	}

	id := &Identity{UID: parts[0], Name: parts[0]}
	if len(parts) == 2 {
		id.Email = parts[1]
	} else {
		id.Email = parts[0] + "@dev.local"
	}
	return id, nil
}

// DevToken builds the token DevTokenVerifier accepts for uid.
func DevToken(uid string) string {
	return devTokenPrefix + uid
}

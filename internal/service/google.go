package service

import (
	"context"

	"github.com/crucial707/trade-journal/internal/models"
	"github.com/rs/zerolog"
)

// GoogleIdentity is the account a Google sign-in resolves to.
type GoogleIdentity struct {
	GoogleID string
	Email    string
}

// GoogleAuthenticator resolves a Google sign-in callback to an identity.
type GoogleAuthenticator interface {
	Authenticate(ctx context.Context, in models.GoogleLogin) (GoogleIdentity, error)
}

// PassThroughGoogleAuth accepts the callback payload as-is: it neither
// verifies the Google token nor persists a user.
type PassThroughGoogleAuth struct {
	Log zerolog.Logger
}

func (g PassThroughGoogleAuth) Authenticate(_ context.Context, in models.GoogleLogin) (GoogleIdentity, error) {
	g.Log.Info().Str("email", in.Email).Msg("Google login recorded")
	return GoogleIdentity{GoogleID: in.GoogleID, Email: in.Email}, nil
}

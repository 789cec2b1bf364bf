package gdrive

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/tlesnik44-code/origocode/internal/store"
)

// SessionSource builds a fresh authorized Drive handle per operation.
// Nothing beyond the OAuth credentials is kept between calls, so an
// expired token is transparently refreshed on the next session.
type SessionSource struct {
	auth *Authenticator
}

// NewSessionSource creates a session source from OAuth credentials.
func NewSessionSource(clientID, clientSecret, tokenPath string) *SessionSource {
	return &SessionSource{
		auth: NewAuthenticator(clientID, clientSecret, tokenPath),
	}
}

// Session returns a ready-to-use store handle backed by a newly
// authorized Drive service.
func (s *SessionSource) Session(ctx context.Context) (store.RemoteStore, error) {
	token, err := s.auth.Authorized(ctx)
	if err != nil {
		return nil, err
	}

	client := s.auth.Config().Client(ctx, token)
	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return NewClient(service), nil
}

// Authenticator exposes the underlying authenticator for the
// interactive auth command.
func (s *SessionSource) Authenticator() *Authenticator {
	return s.auth
}

// Compile-time interface check
var _ store.SessionSource = (*SessionSource)(nil)

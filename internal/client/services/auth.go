package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/session"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new account on the server.
//   - Login: authenticate and establish the session (subscribers are
//     notified, which is what triggers the post-login sync).
//   - Logout: tear the session down.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Register(ctx context.Context, username string, password string) error
	Login(ctx context.Context, username string, password string) error
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions *session.Manager
}

// NewAuthService constructs an AuthService bound to the given API client and
// session manager.
func NewAuthService(c client.Client, sessions *session.Manager) AuthService {
	return &authService{client: c, sessions: sessions}
}

func (a *authService) Register(ctx context.Context, username string, password string) error {
	if err := a.client.Register(ctx, username, password); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, username string, password string) error {
	ownerID, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	a.sessions.Set(ownerID)
	return nil
}

func (a *authService) Logout(ctx context.Context) {
	a.sessions.Clear()
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

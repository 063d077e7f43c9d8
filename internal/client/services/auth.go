// Package services contains application services for the moodisland client.
// This file defines the authentication service: login, register, logout and
// restoring a remembered session at startup.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/moodisland/internal/client/client"
	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

var ErrEmptyToken = errors.New("server returned an empty token")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / Register: authenticate against the server, put the token and
//     profile into the store and remember the token.
//   - Logout: end the session and forget the token.
//   - Restore: re-authenticate from a remembered, unexpired token.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) error
	Register(ctx context.Context, creds models.Credentials) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  *store.Store
	prefs  preferences.Repository
	logger logging.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService. The remembered token is also
// dropped whenever the store logs out, including logouts forced by a 401.
func NewAuthService(c client.Client, st *store.Store, prefs preferences.Repository, logger logging.Logger) AuthService {
	a := &authService{
		client: c,
		store:  st,
		prefs:  prefs,
		logger: logger.With("component", "auth"),
		now:    time.Now,
	}
	st.Subscribe(func(act store.Action) {
		if act == store.ActionLogout {
			a.forgetToken(context.Background())
		}
	})
	return a
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	res, err := a.client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.startSession(ctx, res)
}

// Register creates the account. Backends that answer with a token log the
// user in straight away.
func (a *authService) Register(ctx context.Context, creds models.Credentials) error {
	res, err := a.client.Register(ctx, creds)
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	if res.Token == "" {
		return nil
	}
	return a.startSession(ctx, res)
}

func (a *authService) startSession(ctx context.Context, res *client.AuthResult) error {
	if res.Token == "" {
		return ErrEmptyToken
	}
	a.store.Authenticate(res.Token)
	a.store.UpdateUser(res.User)

	if err := a.prefs.Set(ctx, store.TokenKey, []byte(res.Token)); err != nil {
		a.logger.Warn(ctx, "failed to remember token", "err", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.store.Logout()
	return nil
}

func (a *authService) forgetToken(ctx context.Context) {
	if err := a.prefs.Delete(ctx, store.TokenKey); err != nil {
		a.logger.Warn(ctx, "failed to forget token", "err", err)
	}
}

// Restore authenticates the store from the remembered token. An expired JWT
// is discarded; tokens that are not JWTs are trusted until the server
// rejects them.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	raw, err := a.prefs.Get(ctx, store.TokenKey)
	if err != nil {
		return false, fmt.Errorf("read remembered token: %w", err)
	}
	token := string(raw)
	if token == "" {
		return false, nil
	}

	if tokenExpired(token, a.now()) {
		a.logger.Info(ctx, "remembered token expired")
		a.forgetToken(ctx)
		return false, nil
	}

	a.store.Authenticate(token)
	return true, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// tokenExpired reads the exp claim without verifying the signature; the
// client holds no key and the server checks the token anyway.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

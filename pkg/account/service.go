package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/shopkit/pkg/apiclient"
	"github.com/dmitrymomot/shopkit/pkg/authstore"
	"github.com/dmitrymomot/shopkit/pkg/validator"
)

const (
	tokenPath        = "/token"
	logoutPath       = "/auth/logout"
	userPath         = "/auth/user"
	resetRequestPath = "/password-reset"
)

// Service performs credential operations and keeps the auth store current.
type Service struct {
	gateway apiclient.Caller // bare gateway: credential-issuing calls
	authed  apiclient.Caller // coordinator-wrapped: authenticated calls
	store   *authstore.Store
	log     *slog.Logger
}

// Option configures Service creation.
type Option func(*Service)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService wires the two call paths and the auth store together.
func NewService(gateway, authed apiclient.Caller, store *authstore.Store, opts ...Option) *Service {
	s := &Service{
		gateway: gateway,
		authed:  authed,
		store:   store,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type signInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	User authstore.Session `json:"user"`
}

// SignIn exchanges an email/password pair for a credential. The server sets
// the credential cookies on the gateway's jar; the confirmed identity lands
// in the auth store. A rejected pair surfaces as ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (authstore.Session, error) {
	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.Required("password", password),
	); err != nil {
		return authstore.Session{}, err
	}

	raw, err := s.gateway.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   tokenPath,
		Body:   signInPayload{Email: email, Password: password},
	})
	if err != nil {
		var authErr *apiclient.AuthError
		if errors.As(err, &authErr) {
			return authstore.Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return authstore.Session{}, fmt.Errorf("account: sign in: %w", err)
	}

	var resp signInResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return authstore.Session{}, fmt.Errorf("account: decode sign-in response: %w", err)
		}
	}

	sess := resp.User
	if sess == (authstore.Session{}) {
		// Older deployments return only a confirmation message; ask the
		// identity endpoint who just signed in.
		identityRaw, err := s.authed.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: userPath})
		if err != nil {
			return authstore.Session{}, fmt.Errorf("account: confirm identity after sign-in: %w", err)
		}
		if err := json.Unmarshal(identityRaw, &sess); err != nil {
			return authstore.Session{}, fmt.Errorf("account: decode identity: %w", err)
		}
	}

	s.store.SetAuthenticated(sess)
	s.log.InfoContext(ctx, "signed in", slog.Int64("user_id", sess.UserID))
	return sess, nil
}

// SignOut revokes the credential server-side and resets the auth store.
// The local reset happens even when the server call fails: the caller is
// done with this session either way.
func (s *Service) SignOut(ctx context.Context) error {
	_, err := s.authed.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   logoutPath,
	})
	s.store.Clear()
	if err != nil {
		return fmt.Errorf("account: sign out: %w", err)
	}
	s.log.InfoContext(ctx, "signed out")
	return nil
}

// RequestPasswordReset asks the server to email a reset link. The server
// answers 2xx whether or not the address exists, so a nil error only means
// "request accepted".
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if err := validator.Apply(validator.ValidEmail("email", email)); err != nil {
		return err
	}

	_, err := s.gateway.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   resetRequestPath,
		Body:   map[string]string{"email": email},
	})
	if err != nil {
		return fmt.Errorf("account: request password reset: %w", err)
	}
	return nil
}

// ConfirmPasswordReset completes the emailed reset flow with the uid/token
// pair from the link and the new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	if err := validator.Apply(
		validator.Required("uid", uid),
		validator.Required("token", token),
		validator.MinLen("password", newPassword, 8),
	); err != nil {
		return err
	}

	_, err := s.gateway.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("%s/%s/%s", resetRequestPath, uid, token),
		Body:   map[string]string{"password": newPassword},
	})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() {
			return fmt.Errorf("%w: %w", ErrResetRejected, err)
		}
		return fmt.Errorf("account: confirm password reset: %w", err)
	}
	return nil
}

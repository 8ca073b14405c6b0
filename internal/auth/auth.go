// Package auth checks credentials and turns a successful check into a stored
// session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/jask/subsportal/internal/apiclient"
	"github.com/jask/subsportal/internal/nav"
	"github.com/jask/subsportal/internal/session"
)

// ErrInvalidCredentials is returned when the email/password pair is refused.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// InvalidCredentialsMessage is the banner shown for ErrInvalidCredentials.
const InvalidCredentialsMessage = "Invalid email or password"

// Built-in administrator account accepted by StaticAuthenticator.
const (
	StaticEmail    = "subsadmin@gmail.com"
	StaticPassword = "123456"
	StaticToken    = "static-admin-token-123456"
)

// Grant is what a successful authentication yields.
type Grant struct {
	Token string
	User  session.User
}

// Authenticator checks one email/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Grant, error)
}

// StaticAuthenticator accepts only the built-in administrator account.
// Comparison is exact: no trimming, no case folding.
type StaticAuthenticator struct{}

func (StaticAuthenticator) Authenticate(_ context.Context, email, password string) (Grant, error) {
	if email != StaticEmail || password != StaticPassword {
		return Grant{}, ErrInvalidCredentials
	}
	return Grant{
		Token: StaticToken,
		User:  session.User{Name: "Admin", Role: session.RoleSubcontractor},
	}, nil
}

// RemoteAuthenticator asks the backend's /login endpoint.
type RemoteAuthenticator struct {
	Client *apiclient.Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success *bool         `json:"success,omitempty"`
	Message string        `json:"message,omitempty"`
	Token   string        `json:"token"`
	User    *session.User `json:"user,omitempty"`
}

func (a RemoteAuthenticator) Authenticate(ctx context.Context, email, password string) (Grant, error) {
	var resp loginResponse
	err := a.Client.PostJSON(ctx, "/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			return Grant{}, ErrInvalidCredentials
		}
		return Grant{}, fmt.Errorf("login request: %w", err)
	}
	if (resp.Success != nil && !*resp.Success) || resp.Token == "" {
		return Grant{}, ErrInvalidCredentials
	}

	g := Grant{Token: resp.Token}
	if resp.User != nil {
		g.User = *resp.User
	}
	// the client knows one role; a backend that omits it means that one
	if g.User.Role == "" {
		g.User.Role = session.RoleSubcontractor
	}
	return g, nil
}

// TokenExpired reports whether token is a JWT whose exp claim is at or before
// now. The signature is not checked. Tokens that are not JWTs, or carry no
// exp, never expire.
func TokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Expired is TokenExpired against the wall clock, shaped for
// session.WithExpiry.
func Expired(token string) bool { return TokenExpired(token, time.Now()) }

// Service runs login and logout against the session repository.
type Service struct {
	auth      Authenticator
	sessions  session.Repository
	navigator nav.Navigator
	log       *zap.Logger
}

// NewService wires the login collaborators. navigator and log may be nil.
func NewService(a Authenticator, sessions session.Repository, navigator nav.Navigator, log *zap.Logger) *Service {
	if a == nil {
		a = StaticAuthenticator{}
	}
	if navigator == nil {
		navigator = nav.NavigatorFunc(func(nav.Route) {})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{auth: a, sessions: sessions, navigator: navigator, log: log}
}

// Login checks the pair and on success stores the token and user, then moves
// to the dashboard. A refused pair leaves the session untouched and returns
// ErrInvalidCredentials. If the user cannot be stored the token is dropped
// again.
func (s *Service) Login(ctx context.Context, email, password string) (session.User, error) {
	g, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.Info("login refused", zap.String("email", email))
			return session.User{}, ErrInvalidCredentials
		}
		s.log.Error("login failed", zap.String("email", email), zap.Error(err))
		return session.User{}, err
	}

	if err := s.sessions.SetToken(ctx, g.Token); err != nil {
		return session.User{}, fmt.Errorf("store token: %w", err)
	}
	if err := s.sessions.Set(ctx, &g.User); err != nil {
		// a token without a user is half signed in
		if cerr := s.sessions.SetToken(ctx, ""); cerr != nil {
			s.log.Error("drop token after failed login", zap.Error(cerr))
		}
		return session.User{}, fmt.Errorf("store user: %w", err)
	}
	s.log.Info("login accepted", zap.String("email", email), zap.String("role", string(g.User.Role)))
	s.navigator.Navigate(nav.RouteDashboard)
	return g.User, nil
}

// Logout clears the session and returns to the login screen.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info("logged out")
	s.navigator.Navigate(nav.RouteLogin)
	return nil
}

// Message maps an error from Login to the banner text.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentialsMessage
	default:
		if msg := apiclient.ServerMessage(err); msg != "" {
			return msg
		}
		return "Login failed"
	}
}

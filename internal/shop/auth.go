package shop

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
)

// Session is the credential storage the auth service manages.
// *auth.Store implements it.
type Session interface {
	api.TokenStore
	SetCredentials(access, refresh string) error
	SetUserProfile(v any) error
	UserProfile(v any) bool
	IsAuthenticated() bool
}

// AuthService logs users in and out and manages the cached profile.
type AuthService struct {
	client  *api.Client
	session Session
	logger  *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(client *api.Client, session Session, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthService{client: client, session: session, logger: logger}
}

// Login exchanges credentials for tokens and stores them with the profile.
// A 401 here means bad credentials and is never refreshed.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := models.Validate(&req); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "auth/login/", req)
}

// Register creates an account and stores the returned tokens and profile.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := models.Validate(&req); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "auth/register/", req)
}

func (s *AuthService) authenticate(ctx context.Context, path string, body any) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := s.client.Do(ctx, &api.Request{Method: http.MethodPost, Path: path, Body: body, NoRefresh: true}, &resp)
	if err != nil {
		return nil, err
	}

	if err := s.session.SetCredentials(resp.Access, resp.Refresh); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}
	if err := s.session.SetUserProfile(resp.User); err != nil {
		return nil, fmt.Errorf("saving user profile: %w", err)
	}
	return &resp, nil
}

// Logout tells the server to revoke the refresh token, then clears the
// stored credentials whatever the server answered.
func (s *AuthService) Logout(ctx context.Context) error {
	if refresh, ok := s.session.RefreshToken(); ok {
		err := s.client.Do(ctx, &api.Request{
			Method:    http.MethodPost,
			Path:      "auth/logout/",
			Body:      map[string]string{"refresh": refresh},
			NoRefresh: true,
		}, nil)
		if err != nil {
			s.logger.Warn("logout request failed", "error", err)
		}
	}
	return s.session.ClearCredentials()
}

// Refresh forces a token refresh. It shares any refresh already in flight.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	return s.client.Refresh(ctx)
}

// IsAuthenticated reports whether an access token is stored. It makes no
// network call.
func (s *AuthService) IsAuthenticated() bool {
	return s.session.IsAuthenticated()
}

// CurrentUser returns the cached profile, if any.
func (s *AuthService) CurrentUser() (*models.User, bool) {
	var u models.User
	if !s.session.UserProfile(&u) {
		return nil, false
	}
	return &u, true
}

// Me fetches the profile from the server and refreshes the cache.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := s.client.Get(ctx, "auth/me/", nil, &u); err != nil {
		return nil, err
	}
	if err := s.session.SetUserProfile(u); err != nil {
		s.logger.Warn("could not cache user profile", "error", err)
	}
	return &u, nil
}

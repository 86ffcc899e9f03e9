package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/ports"
)

// Config carries the GitHub OAuth application settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Service runs the GitHub OAuth login flow and owns session persistence.
type Service struct {
	oauth    *oauth2.Config
	sessions ports.SessionRepository

	// Overridable for tests; defaults to the GitHub API lookup.
	lookupUser func(ctx context.Context, accessToken string) (userKey string, username string, err error)
}

func NewService(cfg Config, sessions ports.SessionRepository) *Service {
	return &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       []string{"repo", "read:org"},
		},
		sessions:   sessions,
		lookupUser: lookupGitHubUser,
	}
}

// AuthCodeURL returns the GitHub authorization URL for a login attempt.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// CompleteLogin exchanges the authorization code, resolves the GitHub
// identity behind it and persists a new session.
func (s *Service) CompleteLogin(ctx context.Context, code string) (ports.Session, error) {
	if ctx == nil {
		return ports.Session{}, errors.New("context is required")
	}
	if strings.TrimSpace(code) == "" {
		return ports.Session{}, errors.New("authorization code is required")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return ports.Session{}, errs.Wrap(err, "exchange authorization code")
	}

	userKey, username, err := s.lookupUser(ctx, token.AccessToken)
	if err != nil {
		return ports.Session{}, errs.Wrap(err, "look up github user")
	}

	session := ports.Session{
		Token:       uuid.NewString(),
		UserKey:     userKey,
		Username:    username,
		AccessToken: token.AccessToken,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return ports.Session{}, errs.Wrap(err, "persist session")
	}

	return session, nil
}

// SessionFromToken resolves the session behind a cookie token.
func (s *Service) SessionFromToken(ctx context.Context, token string) (ports.Session, error) {
	if ctx == nil {
		return ports.Session{}, errors.New("context is required")
	}
	return s.sessions.GetByToken(ctx, token)
}

// Logout discards the session; unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

func lookupGitHubUser(ctx context.Context, accessToken string) (string, string, error) {
	client := gogithub.NewClient(nil).WithAuthToken(accessToken)

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return "", "", errs.Wrap(err, "fetch authenticated user")
	}

	return strconv.FormatInt(user.GetID(), 10), user.GetLogin(), nil
}

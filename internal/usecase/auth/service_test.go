package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/Bre77/wip/internal/ports"
)

type fakeSessions struct {
	created []ports.Session
	deleted []string
	byToken map[string]ports.Session
}

func (f *fakeSessions) Create(_ context.Context, session ports.Session) error {
	f.created = append(f.created, session)
	return nil
}

func (f *fakeSessions) GetByToken(_ context.Context, token string) (ports.Session, error) {
	session, ok := f.byToken[token]
	if !ok {
		return ports.Session{}, ports.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessions) DeleteByToken(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

func TestCompleteLoginCreatesSession(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gho_test","token_type":"bearer"}`))
	}))
	t.Cleanup(tokenServer.Close)

	sessions := &fakeSessions{}
	svc := NewService(Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/auth/callback"}, sessions)
	svc.oauth.Endpoint = oauth2.Endpoint{TokenURL: tokenServer.URL + "/token"}
	svc.lookupUser = func(context.Context, string) (string, string, error) {
		return "1234", "octocat", nil
	}

	session, err := svc.CompleteLogin(context.Background(), "code123")
	if err != nil {
		t.Fatalf("CompleteLogin() error = %v", err)
	}
	if session.Token == "" {
		t.Fatalf("CompleteLogin() empty session token")
	}
	if session.UserKey != "1234" || session.Username != "octocat" || session.AccessToken != "gho_test" {
		t.Fatalf("CompleteLogin() session = %+v", session)
	}
	if len(sessions.created) != 1 || sessions.created[0].Token != session.Token {
		t.Fatalf("session not persisted: %+v", sessions.created)
	}
}

func TestCompleteLoginRejectsEmptyCode(t *testing.T) {
	svc := NewService(Config{}, &fakeSessions{})

	if _, err := svc.CompleteLogin(context.Background(), " "); err == nil {
		t.Fatalf("CompleteLogin() expected error for empty code")
	}
}

func TestCompleteLoginUserLookupFailure(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gho_test","token_type":"bearer"}`))
	}))
	t.Cleanup(tokenServer.Close)

	sessions := &fakeSessions{}
	svc := NewService(Config{}, sessions)
	svc.oauth.Endpoint = oauth2.Endpoint{TokenURL: tokenServer.URL + "/token"}
	svc.lookupUser = func(context.Context, string) (string, string, error) {
		return "", "", errors.New("api down")
	}

	if _, err := svc.CompleteLogin(context.Background(), "code123"); err == nil {
		t.Fatalf("CompleteLogin() expected error")
	}
	if len(sessions.created) != 0 {
		t.Fatalf("session persisted despite lookup failure")
	}
}

func TestSessionFromToken(t *testing.T) {
	sessions := &fakeSessions{byToken: map[string]ports.Session{
		"tok-1": {Token: "tok-1", UserKey: "1234", Username: "octocat"},
	}}
	svc := NewService(Config{}, sessions)

	session, err := svc.SessionFromToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("SessionFromToken() error = %v", err)
	}
	if session.UserKey != "1234" {
		t.Fatalf("SessionFromToken() = %+v", session)
	}

	_, err = svc.SessionFromToken(context.Background(), "missing")
	if !errors.Is(err, ports.ErrSessionNotFound) {
		t.Fatalf("SessionFromToken() error = %v, want ErrSessionNotFound", err)
	}
}

func TestLogout(t *testing.T) {
	sessions := &fakeSessions{}
	svc := NewService(Config{}, sessions)

	if err := svc.Logout(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "tok-1" {
		t.Fatalf("Logout() deleted = %v", sessions.deleted)
	}

	// Blank token is a no-op, not an error.
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout(blank) error = %v", err)
	}
	if len(sessions.deleted) != 1 {
		t.Fatalf("Logout(blank) touched the store")
	}
}

package ports

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a logged-in GitHub identity plus its bearer credential.
type Session struct {
	Token       string
	UserKey     string
	Username    string
	AccessToken string
	CreatedAt   string
}

type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	GetByToken(ctx context.Context, token string) (Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/infrastructure/persistence/sqlite/model"
	"github.com/Bre77/wip/internal/ports"
)

type SessionRepository struct {
	db *gorm.DB
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session ports.Session) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if strings.TrimSpace(session.Token) == "" {
		return errors.New("session token is required")
	}
	if strings.TrimSpace(session.UserKey) == "" {
		return errors.New("session user key is required")
	}

	row := model.Session{
		Token:       session.Token,
		UserKey:     session.UserKey,
		Username:    session.Username,
		AccessToken: session.AccessToken,
		CreatedAt:   session.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert session")
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (ports.Session, error) {
	if ctx == nil {
		return ports.Session{}, errors.New("context is required")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ports.Session{}, errors.New("session token is required")
	}

	var row model.Session
	if err := r.db.WithContext(ctx).Where("token = ?", trimmed).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Session{}, ports.ErrSessionNotFound
		}
		return ports.Session{}, errs.Wrap(err, "query session by token")
	}

	return ports.Session{
		Token:       row.Token,
		UserKey:     row.UserKey,
		Username:    row.Username,
		AccessToken: row.AccessToken,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return errors.New("session token is required")
	}

	if err := r.db.WithContext(ctx).Where("token = ?", trimmed).Delete(&model.Session{}).Error; err != nil {
		return errs.Wrap(err, "delete session")
	}
	return nil
}

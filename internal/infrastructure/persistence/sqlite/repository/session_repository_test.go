package repository

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Bre77/wip/internal/infrastructure/persistence/sqlite/model"
	"github.com/Bre77/wip/internal/ports"
)

func setupSessionRepo(t *testing.T) *SessionRepository {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Session{}); err != nil {
		t.Fatalf("auto migrate sessions: %v", err)
	}
	return NewSessionRepository(db)
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := setupSessionRepo(t)
	ctx := context.Background()

	session := ports.Session{
		Token:       "tok-1",
		UserKey:     "1234",
		Username:    "octocat",
		AccessToken: "gho_secret",
		CreatedAt:   "2024-06-01T00:00:00Z",
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetByToken() error = %v", err)
	}
	if got != session {
		t.Fatalf("GetByToken() = %+v", got)
	}

	if err := repo.DeleteByToken(ctx, "tok-1"); err != nil {
		t.Fatalf("DeleteByToken() error = %v", err)
	}

	_, err = repo.GetByToken(ctx, "tok-1")
	if !errors.Is(err, ports.ErrSessionNotFound) {
		t.Fatalf("GetByToken() after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepositoryUnknownToken(t *testing.T) {
	repo := setupSessionRepo(t)

	_, err := repo.GetByToken(context.Background(), "nope")
	if !errors.Is(err, ports.ErrSessionNotFound) {
		t.Fatalf("GetByToken() error = %v, want ErrSessionNotFound", err)
	}
}

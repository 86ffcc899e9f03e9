package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/infrastructure/persistence/sqlite/model"
	"github.com/Bre77/wip/internal/ports"
)

type OverrideRepository struct {
	db *gorm.DB
}

var _ ports.OverrideRepository = (*OverrideRepository)(nil)

func NewOverrideRepository(db *gorm.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

func (r *OverrideRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *OverrideRepository) ListByUser(ctx context.Context, userKey string) ([]ports.OverrideRow, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	trimmedUser := strings.TrimSpace(userKey)
	if trimmedUser == "" {
		return nil, errors.New("user key is required")
	}

	var rows []model.WorkItem
	if err := db.Where("user_key = ?", trimmedUser).Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query work items by user")
	}

	out := make([]ports.OverrideRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapWorkItem(row))
	}
	return out, nil
}

func (r *OverrideRepository) Upsert(ctx context.Context, id string, userKey string, update ports.OverrideUpdate) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	trimmedID := strings.TrimSpace(id)
	trimmedUser := strings.TrimSpace(userKey)
	if trimmedID == "" {
		return errors.New("item id is required")
	}
	if trimmedUser == "" {
		return errors.New("user key is required")
	}
	if update.Empty() {
		return errors.New("update has no fields")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var existing model.WorkItem
	err = db.Where("id = ? AND user_key = ?", trimmedID, trimmedUser).Take(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := model.WorkItem{
			ID:        trimmedID,
			UserKey:   trimmedUser,
			ItemKind:  string(worklist.KindFromID(trimmedID)),
			Priority:  int(worklist.PriorityMeh),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if update.Priority != nil {
			row.Priority = *update.Priority
		}
		if update.SetNotes {
			row.Notes = update.Notes
		}
		if update.Hidden != nil {
			row.Hidden = *update.Hidden
		}
		if err := db.Create(&row).Error; err != nil {
			return errs.Wrap(err, "insert work item")
		}
		return nil

	case err != nil:
		return errs.Wrap(err, "query work item")
	}

	assignments := map[string]any{"updated_at": now}
	if update.Priority != nil {
		assignments["priority"] = *update.Priority
	}
	if update.SetNotes {
		assignments["notes"] = update.Notes
	}
	if update.Hidden != nil {
		assignments["hidden"] = *update.Hidden
	}

	if err := db.Model(&model.WorkItem{}).
		Where("id = ? AND user_key = ?", trimmedID, trimmedUser).
		Updates(assignments).Error; err != nil {
		return errs.Wrap(err, "update work item")
	}
	return nil
}

func (r *OverrideRepository) BatchSetPriority(ctx context.Context, userKey string, entries []ports.PriorityEntry) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	trimmedUser := strings.TrimSpace(userKey)
	if trimmedUser == "" {
		return errors.New("user key is required")
	}
	if len(entries) == 0 {
		return errors.New("entries are required")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	rows := make([]model.WorkItem, 0, len(entries))
	for _, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return errors.New("entry id is required")
		}
		rows = append(rows, model.WorkItem{
			ID:        id,
			UserKey:   trimmedUser,
			ItemKind:  string(worklist.KindFromID(id)),
			Priority:  entry.Priority,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}, {Name: "user_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"priority":   gorm.Expr("excluded.priority"),
			"updated_at": now,
		}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "batch upsert priorities")
	}
	return nil
}

func mapWorkItem(row model.WorkItem) ports.OverrideRow {
	return ports.OverrideRow{
		ID:        row.ID,
		UserKey:   row.UserKey,
		ItemKind:  row.ItemKind,
		Priority:  row.Priority,
		Notes:     row.Notes,
		Hidden:    row.Hidden,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

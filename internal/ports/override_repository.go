package ports

import "context"

// OverrideRow is one persisted customization row, keyed by
// (item identifier, user key).
type OverrideRow struct {
	ID        string
	UserKey   string
	ItemKind  string
	Priority  int
	Notes     *string
	Hidden    bool
	CreatedAt string
	UpdatedAt string
}

// OverrideUpdate is a partial update: nil pointer means "leave unchanged".
// Notes can be cleared by setting SetNotes with a nil Notes.
type OverrideUpdate struct {
	Priority *int
	Notes    *string
	SetNotes bool
	Hidden   *bool
}

// Empty reports whether the update carries no recognized field. Callers must
// reject empty updates before they reach the store.
func (u OverrideUpdate) Empty() bool {
	return u.Priority == nil && !u.SetNotes && u.Hidden == nil
}

// PriorityEntry is one (item identifier, priority) pair of a batch reorder.
type PriorityEntry struct {
	ID       string
	Priority int
}

type OverrideRepository interface {
	ListByUser(ctx context.Context, userKey string) ([]OverrideRow, error)

	// Upsert applies a partial update, creating the row with defaults for
	// unsupplied fields when it does not exist yet.
	Upsert(ctx context.Context, id string, userKey string, update OverrideUpdate) error

	// BatchSetPriority inserts-or-updates priorities only; notes and hidden
	// on existing rows stay untouched. Runs inside the ambient transaction
	// when one is carried by the context.
	BatchSetPriority(ctx context.Context, userKey string, entries []PriorityEntry) error
}

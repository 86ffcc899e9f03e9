package worklist

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Bre77/wip/internal/bootstrap/logging"
	domainworklist "github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/ports"
)

var (
	ErrItemIDRequired  = errors.New("item id is required")
	ErrNoFields        = errors.New("no recognized fields to update")
	ErrInvalidPriority = errors.New("priority must be between 0 and 4")
	ErrEmptyBatch      = errors.New("batch requires at least one entry")
)

// Config carries the service's tunables; classification literals come from
// configuration so tests can run against synthetic rules.
type Config struct {
	Rules       domainworklist.Rules
	SnapshotTTL time.Duration
}

type Service struct {
	source      ports.GitHubSource
	repo        ports.OverrideRepository
	uow         ports.UnitOfWork
	cache       ports.Cache
	rules       domainworklist.Rules
	snapshotTTL time.Duration
}

// NewService wires the worklist usecases with the upstream source, override
// store and snapshot cache.
func NewService(source ports.GitHubSource, repo ports.OverrideRepository, uow ports.UnitOfWork, cache ports.Cache, cfg Config) *Service {
	ttl := cfg.SnapshotTTL
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}

	return &Service{
		source:      source,
		repo:        repo,
		uow:         uow,
		cache:       cache,
		rules:       cfg.Rules,
		snapshotTTL: ttl,
	}
}

type ListInput struct {
	Token   string
	UserKey string
}

// List produces the full reconciled, sorted worklist and publishes it as
// the user's snapshot. Upstream failures degrade to fewer items; only an
// override-store failure aborts the listing.
func (s *Service) List(ctx context.Context, in ListInput) ([]domainworklist.Item, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if strings.TrimSpace(in.UserKey) == "" {
		return nil, errors.New("user key is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.worklist"), slog.String("user_key", in.UserKey))

	var prs, issues []domainworklist.UpstreamItem
	var prErr, issueErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		prs, prErr = s.source.FetchPullRequests(logCtx, in.Token, in.UserKey)
	}()
	go func() {
		defer wg.Done()
		issues, issueErr = s.source.FetchIssues(logCtx, in.Token, in.UserKey)
	}()
	wg.Wait()

	// The source already degrades upstream failures; anything still
	// surfacing here is infrastructure trouble and degrades the same way.
	if prErr != nil {
		logging.Warn(logCtx, "pull request fetch failed, continuing without", slog.Any("err", errs.Loggable(prErr)))
		prs = nil
	}
	if issueErr != nil {
		logging.Warn(logCtx, "issue fetch failed, continuing without", slog.Any("err", errs.Loggable(issueErr)))
		issues = nil
	}

	rows, err := s.repo.ListByUser(logCtx, in.UserKey)
	if err != nil {
		return nil, errs.Wrap(err, "load overrides")
	}

	overrides := make(map[string]domainworklist.Override, len(rows))
	for _, row := range rows {
		overrides[row.ID] = domainworklist.Override{
			Priority: row.Priority,
			Notes:    row.Notes,
			Hidden:   row.Hidden,
		}
	}

	items := domainworklist.Reconcile(prs, issues, overrides, s.rules)

	s.publishSnapshot(logCtx, in.UserKey, items)

	return items, nil
}

// Refresh drops the upstream caches for the user; the next listing
// repopulates them. Idempotent.
func (s *Service) Refresh(ctx context.Context, userKey string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if strings.TrimSpace(userKey) == "" {
		return errors.New("user key is required")
	}

	if err := s.source.Invalidate(ctx, userKey); err != nil {
		return errs.Wrap(err, "invalidate upstream cache")
	}
	return nil
}

type UpdateItemInput struct {
	UserKey  string
	ID       string
	Priority *int
	Notes    *string
	SetNotes bool
	Hidden   *bool
}

// UpdateItem applies a partial override update. Validation failures reject
// the request before anything reaches the store.
func (s *Service) UpdateItem(ctx context.Context, in UpdateItemInput) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if strings.TrimSpace(in.UserKey) == "" {
		return errors.New("user key is required")
	}
	if strings.TrimSpace(in.ID) == "" {
		return ErrItemIDRequired
	}

	update := ports.OverrideUpdate{
		Priority: in.Priority,
		Notes:    in.Notes,
		SetNotes: in.SetNotes,
		Hidden:   in.Hidden,
	}
	if update.Empty() {
		return ErrNoFields
	}
	if in.Priority != nil && !domainworklist.Priority(*in.Priority).Valid() {
		return ErrInvalidPriority
	}

	if err := s.repo.Upsert(ctx, strings.TrimSpace(in.ID), in.UserKey, update); err != nil {
		return errs.Wrap(err, "upsert override")
	}
	return nil
}

// HideItem is the single-item hide shortcut.
func (s *Service) HideItem(ctx context.Context, userKey string, id string) error {
	hidden := true
	return s.UpdateItem(ctx, UpdateItemInput{UserKey: userKey, ID: id, Hidden: &hidden})
}

type ReorderEntry struct {
	ID       string
	Priority int
}

// BatchReorder reassigns priorities for a list of items as one atomic unit.
// The whole batch is validated first and either fully applies or not at all.
func (s *Service) BatchReorder(ctx context.Context, userKey string, entries []ReorderEntry) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if strings.TrimSpace(userKey) == "" {
		return errors.New("user key is required")
	}
	if len(entries) == 0 {
		return ErrEmptyBatch
	}

	batch := make([]ports.PriorityEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.ID) == "" {
			return ErrItemIDRequired
		}
		if !domainworklist.Priority(entry.Priority).Valid() {
			return ErrInvalidPriority
		}
		batch = append(batch, ports.PriorityEntry{ID: strings.TrimSpace(entry.ID), Priority: entry.Priority})
	}

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.BatchSetPriority(txCtx, userKey, batch)
	})
	if err != nil {
		return errs.Wrap(err, "batch set priorities")
	}
	return nil
}

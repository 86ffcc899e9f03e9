package worklist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Bre77/wip/internal/bootstrap/logging"
	domainworklist "github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/errs"
)

const (
	DefaultSnapshotTTL = time.Hour

	snapshotKeyPrefix = "snapshot:"
)

// publishSnapshot writes the reconciled sequence to the snapshot cache for
// the read-only query interface. Best-effort: a failed publish is logged
// and never fails the listing that produced it.
func (s *Service) publishSnapshot(ctx context.Context, userKey string, items []domainworklist.Item) {
	encoded, err := json.Marshal(items)
	if err != nil {
		logging.Warn(ctx, "snapshot encode failed", slog.Any("err", errs.Loggable(err)))
		return
	}

	if err := s.cache.Set(ctx, snapshotKeyPrefix+userKey, string(encoded), s.snapshotTTL); err != nil {
		logging.Warn(ctx, "snapshot publish failed", slog.Any("err", errs.Loggable(err)))
	}
}

// Snapshot returns the most recently published item sequence for a user.
// found=false means no snapshot exists (never published, or expired).
func (s *Service) Snapshot(ctx context.Context, userKey string) ([]domainworklist.Item, bool, error) {
	if ctx == nil {
		return nil, false, errors.New("context is required")
	}
	if strings.TrimSpace(userKey) == "" {
		return nil, false, errors.New("user key is required")
	}

	value, found, err := s.cache.Get(ctx, snapshotKeyPrefix+userKey)
	if err != nil {
		return nil, false, errs.Wrap(err, "read snapshot")
	}
	if !found {
		return nil, false, nil
	}

	var items []domainworklist.Item
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil, false, errs.Wrap(err, "decode snapshot")
	}
	return items, true, nil
}

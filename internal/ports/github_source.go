package ports

import (
	"context"

	"github.com/Bre77/wip/internal/domain/worklist"
)

// GitHubSource provides the upstream pull-request and issue collections for
// one authenticated user. Implementations degrade upstream failures to an
// empty (possibly partial) result; a returned error signals an
// infrastructure problem, never an upstream one.
type GitHubSource interface {
	FetchPullRequests(ctx context.Context, token string, userKey string) ([]worklist.UpstreamItem, error)
	FetchIssues(ctx context.Context, token string, userKey string) ([]worklist.UpstreamItem, error)

	// Invalidate drops the cached collections so the next fetch bypasses
	// the cache.
	Invalidate(ctx context.Context, userKey string) error
}

package github

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Bre77/wip/internal/bootstrap/logging"
	"github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/ports"
)

const DefaultCacheTTL = 5 * time.Minute

// Fetcher is the read-through cached upstream source. Upstream failures are
// logged and degrade to an empty result for that query; the listing as a
// whole never fails because GitHub was unreachable.
type Fetcher struct {
	gql   *GraphQLClient
	cache ports.Cache
	ttl   time.Duration
}

var _ ports.GitHubSource = (*Fetcher)(nil)

func NewFetcher(gql *GraphQLClient, cache ports.Cache, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Fetcher{
		gql:   gql,
		cache: cache,
		ttl:   ttl,
	}
}

func (f *Fetcher) FetchPullRequests(ctx context.Context, token string, userKey string) ([]worklist.UpstreamItem, error) {
	if err := checkFetchArgs(ctx, userKey); err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "github.fetcher"), slog.String("user_key", userKey))

	cacheKey := "prs:" + userKey
	if items, ok := f.fromCache(logCtx, cacheKey); ok {
		return items, nil
	}

	items := make([]worklist.UpstreamItem, 0)
	var data pullRequestsData
	if err := f.gql.Query(logCtx, token, pullRequestsQuery, nil, &data); err != nil {
		logging.Warn(logCtx, "pull request query failed, degrading to empty", slog.Any("err", errs.Loggable(err)))
	} else {
		for _, node := range data.Viewer.PullRequests.Nodes {
			items = append(items, node.toUpstream())
		}
	}

	f.toCache(logCtx, cacheKey, items)
	return items, nil
}

func (f *Fetcher) FetchIssues(ctx context.Context, token string, userKey string) ([]worklist.UpstreamItem, error) {
	if err := checkFetchArgs(ctx, userKey); err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "github.fetcher"), slog.String("user_key", userKey))

	cacheKey := "issues:" + userKey
	if items, ok := f.fromCache(logCtx, cacheKey); ok {
		return items, nil
	}

	var login viewerLoginData
	if err := f.gql.Query(logCtx, token, viewerLoginQuery, nil, &login); err != nil {
		logging.Warn(logCtx, "viewer login query failed, degrading to empty", slog.Any("err", errs.Loggable(err)))
		return nil, nil
	}
	if login.Viewer.Login == "" {
		logging.Warn(logCtx, "viewer login missing, degrading to empty")
		return nil, nil
	}

	// Two searches: issues assigned to the user anywhere, and issues in
	// repositories the user owns. They overlap; colliding ids denote the
	// same issue and the second result wins.
	var assigned, owned []ghItem
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assigned = f.searchIssues(logCtx, token, "is:issue is:open assignee:"+login.Viewer.Login)
	}()
	go func() {
		defer wg.Done()
		owned = f.searchIssues(logCtx, token, "is:issue is:open user:"+login.Viewer.Login)
	}()
	wg.Wait()

	items := mergeIssues(assigned, owned)

	f.toCache(logCtx, cacheKey, items)
	return items, nil
}

func (f *Fetcher) Invalidate(ctx context.Context, userKey string) error {
	if err := checkFetchArgs(ctx, userKey); err != nil {
		return err
	}

	var failed []error
	for _, key := range []string{"prs:" + userKey, "issues:" + userKey} {
		if err := f.cache.Delete(ctx, key); err != nil {
			failed = append(failed, errs.Wrapf(err, "invalidate %q", key))
		}
	}
	return errors.Join(failed...)
}

func (f *Fetcher) searchIssues(ctx context.Context, token string, searchQuery string) []ghItem {
	var data issuesSearchData
	err := f.gql.Query(ctx, token, issuesSearchQuery, map[string]any{"searchQuery": searchQuery}, &data)
	if err != nil {
		logging.Warn(
			ctx,
			"issue search failed, degrading to empty",
			slog.String("search_query", searchQuery),
			slog.Any("err", errs.Loggable(err)),
		)
		return nil
	}
	return data.Search.Nodes
}

// mergeIssues deduplicates by upstream id, second occurrence winning, while
// keeping first-seen order so the merge is deterministic for a fixed input.
func mergeIssues(assigned []ghItem, owned []ghItem) []worklist.UpstreamItem {
	merged := make([]worklist.UpstreamItem, 0, len(assigned)+len(owned))
	index := make(map[string]int, len(assigned)+len(owned))

	for _, nodes := range [][]ghItem{assigned, owned} {
		for _, node := range nodes {
			if node.ID == "" {
				continue
			}
			item := node.toUpstream()
			if pos, seen := index[node.ID]; seen {
				merged[pos] = item
				continue
			}
			index[node.ID] = len(merged)
			merged = append(merged, item)
		}
	}

	return merged
}

func (f *Fetcher) fromCache(ctx context.Context, key string) ([]worklist.UpstreamItem, bool) {
	value, found, err := f.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "cache read failed, treating as miss", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var items []worklist.UpstreamItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		logging.Warn(ctx, "cache entry unreadable, treating as miss", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return nil, false
	}
	return items, true
}

func (f *Fetcher) toCache(ctx context.Context, key string, items []worklist.UpstreamItem) {
	encoded, err := json.Marshal(items)
	if err != nil {
		logging.Warn(ctx, "cache encode failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return
	}
	if err := f.cache.Set(ctx, key, string(encoded), f.ttl); err != nil {
		logging.Warn(ctx, "cache write failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func checkFetchArgs(ctx context.Context, userKey string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if strings.TrimSpace(userKey) == "" {
		return errors.New("user key is required")
	}
	return nil
}

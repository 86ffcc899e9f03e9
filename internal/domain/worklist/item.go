package worklist

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindPullRequest Kind = "pr"
	KindIssue       Kind = "issue"
)

// ItemID builds the composite identifier "kind:owner/name#number". It is
// stable across refetches as long as the repository name and number hold.
func ItemID(kind Kind, repo string, number int) string {
	return fmt.Sprintf("%s:%s#%d", kind, repo, number)
}

// KindFromID derives the item kind from the identifier prefix.
func KindFromID(id string) Kind {
	if strings.HasPrefix(id, string(KindPullRequest)+":") {
		return KindPullRequest
	}
	return KindIssue
}

// UpstreamItem is a raw pull request or issue as fetched from GitHub.
// PR-specific metadata stays in GitHub's vocabulary until reconciliation.
type UpstreamItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Number         int       `json:"number"`
	URL            string    `json:"url"`
	Repo           string    `json:"repo"`
	IsDraft        bool      `json:"isDraft"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Mergeable      string    `json:"mergeable,omitempty"`
	ReviewDecision string    `json:"reviewDecision,omitempty"`
	ReviewRequests int       `json:"reviewRequests,omitempty"`
	CheckRollup    string    `json:"checkRollup,omitempty"`
}

// Override carries the user's stored customization for one item. Priority
// is deliberately unconstrained here; out-of-range values fall back to
// auto-classification during reconciliation.
type Override struct {
	Priority int
	Notes    *string
	Hidden   bool
}

// Item is the canonical, reconciled work item returned by listings and
// published as the snapshot.
type Item struct {
	ID           string       `json:"id"`
	Kind         Kind         `json:"type"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	Number       int          `json:"number"`
	URL          string       `json:"url"`
	Repo         string       `json:"repo"`
	IsDraft      bool         `json:"isDraft"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	Priority     Priority     `json:"priority"`
	PriorityName string       `json:"priorityName"`
	Notes        *string      `json:"notes"`
	Hidden       bool         `json:"hidden"`
	CIStatus     CIStatus     `json:"ciStatus,omitempty"`
	MergeStatus  MergeStatus  `json:"mergeable,omitempty"`
	ReviewStatus ReviewStatus `json:"reviewStatus,omitempty"`
}

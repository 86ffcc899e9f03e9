package worklist

import "strings"

// Rules holds the auto-classification literals. They are configuration, not
// behavior: the cascade below is fixed, first match wins.
type Rules struct {
	// UberRepo is the single repository whose items can reach the
	// most-urgent level, when the title mentions UberKeyword.
	UberRepo    string
	UberKeyword string
	// PriorityOwner is the owner namespace classified as high.
	PriorityOwner string
	// HomeOwner is the owner namespace classified as normal.
	HomeOwner string
}

// Classify assigns a priority from repository and title alone. All matching
// is case-insensitive.
func (r Rules) Classify(repo string, title string) Priority {
	repoLower := strings.ToLower(repo)
	titleLower := strings.ToLower(title)

	if r.UberRepo != "" && repoLower == strings.ToLower(r.UberRepo) &&
		r.UberKeyword != "" && strings.Contains(titleLower, strings.ToLower(r.UberKeyword)) {
		return PriorityUber
	}

	if ownerMatches(repoLower, r.PriorityOwner) {
		return PriorityHigh
	}

	if ownerMatches(repoLower, r.HomeOwner) {
		return PriorityNormal
	}

	return PriorityLow
}

func ownerMatches(repoLower string, owner string) bool {
	if owner == "" {
		return false
	}
	return strings.HasPrefix(repoLower, strings.ToLower(owner)+"/")
}

package worklist

import "sort"

// Reconcile merges upstream pull requests and issues with the user's stored
// overrides into the canonical, sorted item list. It is a pure function of
// its inputs and never fails: malformed overrides (priority outside the
// enumeration) count as absent and fall back to auto-classification.
func Reconcile(prs []UpstreamItem, issues []UpstreamItem, overrides map[string]Override, rules Rules) []Item {
	items := make([]Item, 0, len(prs)+len(issues))
	items = append(items, combine(prs, KindPullRequest, overrides, rules)...)
	items = append(items, combine(issues, KindIssue, overrides, rules)...)

	// Priority ascending, newest first within a level. Stable so equal
	// (priority, createdAt) pairs keep their input order.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return items
}

func combine(upstream []UpstreamItem, kind Kind, overrides map[string]Override, rules Rules) []Item {
	out := make([]Item, 0, len(upstream))

	for _, it := range upstream {
		id := ItemID(kind, it.Repo, it.Number)

		override, hasOverride := overrides[id]

		priority := Priority(override.Priority)
		if !hasOverride || !priority.Valid() {
			priority = rules.Classify(it.Repo, it.Title)
		}

		item := Item{
			ID:           id,
			Kind:         kind,
			Title:        it.Title,
			Body:         it.Body,
			Number:       it.Number,
			URL:          it.URL,
			Repo:         it.Repo,
			IsDraft:      it.IsDraft,
			CreatedAt:    it.CreatedAt,
			UpdatedAt:    it.UpdatedAt,
			Priority:     priority,
			PriorityName: priority.Name(),
		}

		if hasOverride {
			item.Notes = override.Notes
			item.Hidden = override.Hidden
		}

		if kind == KindPullRequest {
			item.CIStatus = deriveCIStatus(it)
			item.MergeStatus = deriveMergeStatus(it)
			item.ReviewStatus = deriveReviewStatus(it)
		}

		out = append(out, item)
	}

	return out
}

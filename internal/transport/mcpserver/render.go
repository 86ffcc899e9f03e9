package mcpserver

import (
	"fmt"
	"strings"

	"github.com/Bre77/wip/internal/domain/worklist"
)

// RenderSummary turns a reconciled item sequence into the markdown document
// served to agents. Hidden items are excluded; the rest is grouped by
// priority level, most urgent first.
func RenderSummary(items []worklist.Item) string {
	var b strings.Builder
	b.WriteString("# Work In Progress\n")

	total := 0
	for _, level := range worklist.PriorityNames() {
		var group []worklist.Item
		for _, it := range items {
			if it.Hidden {
				continue
			}
			if it.PriorityName == level {
				group = append(group, it)
			}
		}
		if len(group) == 0 {
			continue
		}
		total += len(group)

		fmt.Fprintf(&b, "\n## %s Priority\n\n", titleCase(level))
		for _, it := range group {
			writeItem(&b, it)
		}
	}

	if total == 0 {
		b.WriteString("\nNo open work items.\n")
	}

	return b.String()
}

func writeItem(b *strings.Builder, it worklist.Item) {
	label := "Issue"
	if it.Kind == worklist.KindPullRequest {
		label = "PR"
	}

	fmt.Fprintf(b, "- [%s] **%s** (%s#%d)%s\n", label, it.Title, it.Repo, it.Number, badges(it))
	fmt.Fprintf(b, "  %s\n", it.URL)
	if it.Notes != nil && *it.Notes != "" {
		fmt.Fprintf(b, "  Notes: %s\n", *it.Notes)
	}
}

func badges(it worklist.Item) string {
	var parts []string
	if it.IsDraft {
		parts = append(parts, "Draft")
	}
	switch it.CIStatus {
	case worklist.CIFailure, worklist.CIError:
		parts = append(parts, "CI Failing")
	case worklist.CIPending:
		parts = append(parts, "CI Pending")
	case worklist.CISuccess:
		parts = append(parts, "CI Passing")
	}
	if it.MergeStatus == worklist.MergeConflicting {
		parts = append(parts, "Merge Conflicts")
	}
	switch it.ReviewStatus {
	case worklist.ReviewChangesRequested:
		parts = append(parts, "Changes Requested")
	case worklist.ReviewApproved:
		parts = append(parts, "Approved")
	case worklist.ReviewPending, worklist.ReviewRequired:
		parts = append(parts, "Pending Review")
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

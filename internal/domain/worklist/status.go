package worklist

// Derived pull-request status fields. The empty value means "none"; issues
// never carry any of them.

type CIStatus string

const (
	CISuccess CIStatus = "success"
	CIFailure CIStatus = "failure"
	CIPending CIStatus = "pending"
	CIError   CIStatus = "error"
)

type MergeStatus string

const (
	MergeClean       MergeStatus = "mergeable"
	MergeConflicting MergeStatus = "conflicting"
	MergeUnknown     MergeStatus = "unknown"
)

type ReviewStatus string

const (
	ReviewApproved         ReviewStatus = "approved"
	ReviewChangesRequested ReviewStatus = "changes_requested"
	ReviewRequired         ReviewStatus = "review_required"
	ReviewPending          ReviewStatus = "pending_review"
)

func deriveCIStatus(it UpstreamItem) CIStatus {
	switch it.CheckRollup {
	case "SUCCESS":
		return CISuccess
	case "FAILURE":
		return CIFailure
	case "PENDING", "EXPECTED":
		return CIPending
	case "ERROR":
		return CIError
	default:
		return ""
	}
}

func deriveMergeStatus(it UpstreamItem) MergeStatus {
	switch it.Mergeable {
	case "":
		return ""
	case "MERGEABLE":
		return MergeClean
	case "CONFLICTING":
		return MergeConflicting
	default:
		return MergeUnknown
	}
}

func deriveReviewStatus(it UpstreamItem) ReviewStatus {
	switch it.ReviewDecision {
	case "APPROVED":
		return ReviewApproved
	case "CHANGES_REQUESTED":
		return ReviewChangesRequested
	case "REVIEW_REQUIRED":
		return ReviewRequired
	}
	// No decision yet, but reviews were requested.
	if it.ReviewRequests > 0 {
		return ReviewPending
	}
	return ""
}

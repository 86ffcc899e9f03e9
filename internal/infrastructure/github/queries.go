package github

import (
	"time"

	"github.com/Bre77/wip/internal/domain/worklist"
)

// All open pull requests owned by the authenticated identity, including the
// review/merge/check metadata the reconciler derives statuses from.
const pullRequestsQuery = `
  query {
    viewer {
      pullRequests(first: 100, states: OPEN) {
        nodes {
          id
          title
          body
          number
          url
          isDraft
          createdAt
          updatedAt
          repository {
            nameWithOwner
          }
          mergeable
          reviewDecision
          reviewRequests {
            totalCount
          }
          commits(last: 1) {
            nodes {
              commit {
                statusCheckRollup {
                  state
                }
              }
            }
          }
        }
      }
    }
  }
`

const issuesSearchQuery = `
  query($searchQuery: String!) {
    search(query: $searchQuery, type: ISSUE, first: 100) {
      nodes {
        ... on Issue {
          id
          title
          body
          number
          url
          createdAt
          updatedAt
          repository {
            nameWithOwner
          }
        }
      }
    }
  }
`

const viewerLoginQuery = `
  query {
    viewer {
      login
    }
  }
`

type ghItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Number     int       `json:"number"`
	URL        string    `json:"url"`
	IsDraft    bool      `json:"isDraft"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Repository struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
	Mergeable      string `json:"mergeable"`
	ReviewDecision string `json:"reviewDecision"`
	ReviewRequests struct {
		TotalCount int `json:"totalCount"`
	} `json:"reviewRequests"`
	Commits struct {
		Nodes []struct {
			Commit struct {
				StatusCheckRollup *struct {
					State string `json:"state"`
				} `json:"statusCheckRollup"`
			} `json:"commit"`
		} `json:"nodes"`
	} `json:"commits"`
}

func (it ghItem) toUpstream() worklist.UpstreamItem {
	upstream := worklist.UpstreamItem{
		ID:             it.ID,
		Title:          it.Title,
		Body:           it.Body,
		Number:         it.Number,
		URL:            it.URL,
		Repo:           it.Repository.NameWithOwner,
		IsDraft:        it.IsDraft,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
		Mergeable:      it.Mergeable,
		ReviewDecision: it.ReviewDecision,
		ReviewRequests: it.ReviewRequests.TotalCount,
	}

	if len(it.Commits.Nodes) > 0 {
		if rollup := it.Commits.Nodes[0].Commit.StatusCheckRollup; rollup != nil {
			upstream.CheckRollup = rollup.State
		}
	}

	return upstream
}

type pullRequestsData struct {
	Viewer struct {
		PullRequests struct {
			Nodes []ghItem `json:"nodes"`
		} `json:"pullRequests"`
	} `json:"viewer"`
}

type issuesSearchData struct {
	Search struct {
		Nodes []ghItem `json:"nodes"`
	} `json:"search"`
}

type viewerLoginData struct {
	Viewer struct {
		Login string `json:"login"`
	} `json:"viewer"`
}

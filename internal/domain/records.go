package domain

import "time"

// CommitRecord is one sampled commit from the default branch.
type CommitRecord struct {
	AuthorLogin string
	AuthorName  string
	CommittedAt time.Time
}

// Contributor resolves the author identity of the commit.
func (c CommitRecord) Contributor() Contributor {
	return ResolveContributor(c.AuthorLogin, c.AuthorName)
}

// ReleaseRecord holds the timestamps of one release.
type ReleaseRecord struct {
	PublishedAt *time.Time
	CreatedAt   time.Time
}

// Effective is the publish time, or the creation time for unpublished releases.
func (r ReleaseRecord) Effective() time.Time {
	if r.PublishedAt != nil {
		return *r.PublishedAt
	}
	return r.CreatedAt
}

// Response is a review or comment left on a pull request.
type Response struct {
	CreatedAt   time.Time
	AuthorLogin string
}

// PullRequestRecord is one sampled pull request with its earliest responses.
type PullRequestRecord struct {
	CreatedAt      time.Time
	MergedAt       *time.Time
	ClosedAt       *time.Time
	AuthorLogin    string
	FirstResponses []Response
}

func (p PullRequestRecord) IsMerged() bool {
	return p.MergedAt != nil
}

func (p PullRequestRecord) IsClosedWithoutMerge() bool {
	return p.ClosedAt != nil && p.MergedAt == nil
}

// AlivenessSnapshot is the raw upstream data behind AlivenessMetrics.
// HasHistory is false when the repository has no default branch commit (an empty repository).
type AlivenessSnapshot struct {
	PushedAt       time.Time
	HasHistory     bool
	CommitsWeek    int
	CommitsMonth   int
	CommitsQuarter int
	Commits        []CommitRecord
	Releases       []ReleaseRecord
	OpenedIssues30 int
	OpenedIssues90 int
	ClosedIssues30 int
	ClosedIssues90 int
}

// OutcomesSnapshot is the raw upstream data behind ContributionOutcomesMetrics.
type OutcomesSnapshot struct {
	OwnerLogin  string
	Merged      []PullRequestRecord
	Closed      []PullRequestRecord
	MergedTotal int
	ClosedTotal int
	OpenTotal   int
}

// InsightsSnapshot is the result of the single combined upstream query.
type InsightsSnapshot struct {
	Aliveness AlivenessSnapshot
	Outcomes  OutcomesSnapshot
}

package domain

// CommitVelocity counts default branch commits in the trailing windows.
type CommitVelocity struct {
	Week    int `json:"week"`
	Month   int `json:"month"`
	Quarter int `json:"quarter"`
}

// BusFactor is the share of sampled commits authored by the top contributors.
type BusFactor struct {
	Top1Percent int `json:"top1Percent"`
	Top3Percent int `json:"top3Percent"`
}

// IssueChurn counts issues opened and closed since 30 and 90 days ago.
type IssueChurn struct {
	Opened30 int `json:"opened30"`
	Closed30 int `json:"closed30"`
	Opened90 int `json:"opened90"`
	Closed90 int `json:"closed90"`
}

// AlivenessMetrics summarizes how active a repository is.
type AlivenessMetrics struct {
	DaysSinceLastCommit int            `json:"daysSinceLastCommit"`
	CommitVelocity      CommitVelocity `json:"commitVelocity"`
	BusFactor           BusFactor      `json:"busFactor"`
	// ReleaseCadence is the mean number of days between releases, nil with fewer than two releases.
	ReleaseCadence *int       `json:"releaseCadence"`
	IssueChurn     IssueChurn `json:"issueChurn"`
}

// PRTotals are the unsampled pull request counts reported by the upstream.
type PRTotals struct {
	Merged int `json:"merged"`
	Closed int `json:"closed"`
	Open   int `json:"open"`
}

// ContributionOutcomesMetrics summarizes what happens to contributed pull requests.
// Rates are computed over the sampled pull requests, not over Totals.
type ContributionOutcomesMetrics struct {
	PRAcceptanceRate         int      `json:"prAcceptanceRate"`
	TimeToFirstResponse      *int     `json:"timeToFirstResponse"`
	TimeToMerge              *int     `json:"timeToMerge"`
	ExternalContributorShare int      `json:"externalContributorShare"`
	ClosedWithoutMergeRate   int      `json:"closedWithoutMergeRate"`
	TotalPRs                 PRTotals `json:"totalPRs"`
}

// Insights combines both metric sets for one repository.
type Insights struct {
	Aliveness            AlivenessMetrics            `json:"aliveness"`
	ContributionOutcomes ContributionOutcomesMetrics `json:"contributionOutcomes"`
}

// Freshness tells whether a result was computed for this request or served from cache.
type Freshness string

const (
	FreshnessMiss Freshness = "MISS"
	FreshnessHit  Freshness = "HIT"
)

package usecase

import (
	"strings"

	"github.com/naka-gawa/repo-insights/internal/domain"
)

// maxLatencyHours excludes latencies of a year or more from the averages.
const maxLatencyHours = 365 * hoursPerDay

// withinLatencyBounds reports whether an hour delta lies in the open interval (0, maxLatencyHours).
func withinLatencyBounds(hours float64) bool {
	return hours > 0 && hours < maxLatencyHours
}

// ClosedWithoutMerge drops pull requests from the closed sample that were in fact merged.
func ClosedWithoutMerge(closed []domain.PullRequestRecord) []domain.PullRequestRecord {
	out := make([]domain.PullRequestRecord, 0, len(closed))
	for _, pr := range closed {
		if pr.IsMerged() {
			continue
		}
		out = append(out, pr)
	}
	return out
}

// FirstResponse returns the earliest review or comment not written by the pull request author.
// Responses without an author login never qualify.
func FirstResponse(pr domain.PullRequestRecord) (domain.Response, bool) {
	author := strings.ToLower(pr.AuthorLogin)
	var first domain.Response
	found := false
	for _, r := range pr.FirstResponses {
		if r.AuthorLogin == "" || strings.ToLower(r.AuthorLogin) == author {
			continue
		}
		if !found || r.CreatedAt.Before(first.CreatedAt) {
			first = r
			found = true
		}
	}
	return first, found
}

// firstResponseHours collects qualifying first-response latencies in hours.
func firstResponseHours(prs []domain.PullRequestRecord) []float64 {
	samples := make([]float64, 0, len(prs))
	for _, pr := range prs {
		r, ok := FirstResponse(pr)
		if !ok {
			continue
		}
		if h := r.CreatedAt.Sub(pr.CreatedAt).Hours(); withinLatencyBounds(h) {
			samples = append(samples, h)
		}
	}
	return samples
}

// mergeHours collects qualifying creation-to-merge latencies in hours.
func mergeHours(merged []domain.PullRequestRecord) []float64 {
	samples := make([]float64, 0, len(merged))
	for _, pr := range merged {
		if pr.MergedAt == nil {
			continue
		}
		if h := pr.MergedAt.Sub(pr.CreatedAt).Hours(); withinLatencyBounds(h) {
			samples = append(samples, h)
		}
	}
	return samples
}

// externalCount counts pull requests authored by someone other than the repository owner.
// Pull requests without an author are not external.
func externalCount(prs []domain.PullRequestRecord, ownerLogin string) int {
	n := 0
	for _, pr := range prs {
		if pr.AuthorLogin == "" {
			continue
		}
		if !strings.EqualFold(pr.AuthorLogin, ownerLogin) {
			n++
		}
	}
	return n
}

// ComposeContributionOutcomes derives the outcome rates and latencies from one upstream snapshot.
// The closed population is the merged sample plus the closed sample minus anything merged.
func ComposeContributionOutcomes(s domain.OutcomesSnapshot) domain.ContributionOutcomesMetrics {
	closed := ClosedWithoutMerge(s.Closed)
	all := make([]domain.PullRequestRecord, 0, len(s.Merged)+len(closed))
	all = append(all, s.Merged...)
	all = append(all, closed...)
	total := len(all)

	return domain.ContributionOutcomesMetrics{
		PRAcceptanceRate:         percent(len(s.Merged), total),
		TimeToFirstResponse:      roundedMean(firstResponseHours(all)),
		TimeToMerge:              roundedMean(mergeHours(s.Merged)),
		ExternalContributorShare: percent(externalCount(all, s.OwnerLogin), total),
		ClosedWithoutMergeRate:   percent(len(closed), total),
		TotalPRs: domain.PRTotals{
			Merged: nonNegative(s.MergedTotal),
			Closed: nonNegative(s.ClosedTotal),
			Open:   nonNegative(s.OpenTotal),
		},
	}
}

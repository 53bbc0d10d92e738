package usecase

import (
	"sort"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
)

const hoursPerDay = 24

// contributorCount is the number of sampled commits attributed to one contributor.
type contributorCount struct {
	Key     string
	Commits int
}

// DaysSince returns the whole days elapsed between pushedAt and now.
// A zero or future pushedAt (clock skew) yields 0.
func DaysSince(pushedAt, now time.Time) int {
	if pushedAt.IsZero() || pushedAt.After(now) {
		return 0
	}
	return int(now.Sub(pushedAt) / (hoursPerDay * time.Hour))
}

// CommitVelocityOf places the windowed commit totals into the result shape.
// A repository without default branch history has no velocity.
func CommitVelocityOf(s domain.AlivenessSnapshot) domain.CommitVelocity {
	if !s.HasHistory {
		return domain.CommitVelocity{}
	}
	return domain.CommitVelocity{
		Week:    nonNegative(s.CommitsWeek),
		Month:   nonNegative(s.CommitsMonth),
		Quarter: nonNegative(s.CommitsQuarter),
	}
}

// rankContributors groups commits by contributor key and orders the groups by commit count, descending.
// Ties keep the order in which contributors were first seen in the sample.
func rankContributors(commits []domain.CommitRecord) []contributorCount {
	index := make(map[string]int)
	ranked := make([]contributorCount, 0)
	for _, c := range commits {
		key := c.Contributor().Key()
		i, ok := index[key]
		if !ok {
			i = len(ranked)
			index[key] = i
			ranked = append(ranked, contributorCount{Key: key})
		}
		ranked[i].Commits++
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Commits > ranked[j].Commits
	})
	return ranked
}

// BusFactorOf computes the commit share of the top one and top three contributors in the sample.
func BusFactorOf(commits []domain.CommitRecord) domain.BusFactor {
	if len(commits) == 0 {
		return domain.BusFactor{}
	}
	ranked := rankContributors(commits)
	top3 := 0
	for _, c := range ranked[:min(3, len(ranked))] {
		top3 += c.Commits
	}
	return domain.BusFactor{
		Top1Percent: percent(ranked[0].Commits, len(commits)),
		Top3Percent: percent(top3, len(commits)),
	}
}

// ReleaseCadence returns the mean gap in days between consecutive releases,
// or nil when fewer than two releases exist.
func ReleaseCadence(releases []domain.ReleaseRecord) *int {
	if len(releases) < 2 {
		return nil
	}
	dates := make([]time.Time, len(releases))
	for i, r := range releases {
		dates[i] = r.Effective()
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	for i := 0; i < len(dates)-1; i++ {
		gaps = append(gaps, dates[i].Sub(dates[i+1]).Hours()/hoursPerDay)
	}
	return roundedMean(gaps)
}

// IssueChurnOf places the open-ended "since" issue totals into the result shape.
func IssueChurnOf(opened30, closed30, opened90, closed90 int) domain.IssueChurn {
	return domain.IssueChurn{
		Opened30: nonNegative(opened30),
		Closed30: nonNegative(closed30),
		Opened90: nonNegative(opened90),
		Closed90: nonNegative(closed90),
	}
}

// ComposeAliveness assembles AlivenessMetrics from one upstream snapshot.
func ComposeAliveness(s domain.AlivenessSnapshot, now time.Time) domain.AlivenessMetrics {
	busFactor := domain.BusFactor{}
	if s.HasHistory {
		busFactor = BusFactorOf(s.Commits)
	}
	return domain.AlivenessMetrics{
		DaysSinceLastCommit: DaysSince(s.PushedAt, now),
		CommitVelocity:      CommitVelocityOf(s),
		BusFactor:           busFactor,
		ReleaseCadence:      ReleaseCadence(s.Releases),
		IssueChurn:          IssueChurnOf(s.OpenedIssues30, s.ClosedIssues30, s.OpenedIssues90, s.ClosedIssues90),
	}
}

package usecase

import (
	"testing"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func commitsBy(keys ...string) []domain.CommitRecord {
	out := make([]domain.CommitRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.CommitRecord{AuthorLogin: k, CommittedAt: baseTime})
	}
	return out
}

func TestDaysSince(t *testing.T) {
	testCases := []struct {
		name     string
		pushedAt time.Time
		expected int
	}{
		{name: "same instant", pushedAt: baseTime, expected: 0},
		{name: "partial day floors", pushedAt: baseTime.Add(-47 * time.Hour), expected: 1},
		{name: "exact days", pushedAt: baseTime.Add(-10 * 24 * time.Hour), expected: 10},
		{name: "future push from clock skew", pushedAt: baseTime.Add(3 * time.Hour), expected: 0},
		{name: "unknown push time", pushedAt: time.Time{}, expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DaysSince(tc.pushedAt, baseTime))
		})
	}
}

func TestBusFactorOf(t *testing.T) {
	testCases := []struct {
		name     string
		commits  []domain.CommitRecord
		expected domain.BusFactor
	}{
		{
			name:     "empty sample",
			commits:  nil,
			expected: domain.BusFactor{},
		},
		{
			name:     "two of three by one author",
			commits:  commitsBy("A", "A", "B"),
			expected: domain.BusFactor{Top1Percent: 67, Top3Percent: 100},
		},
		{
			name:     "single contributor",
			commits:  commitsBy("A", "A", "A"),
			expected: domain.BusFactor{Top1Percent: 100, Top3Percent: 100},
		},
		{
			name:     "top three out of five",
			commits:  commitsBy("A", "B", "A", "C", "D", "E", "A", "B", "C", "A"),
			expected: domain.BusFactor{Top1Percent: 40, Top3Percent: 80},
		},
		{
			name: "authors without login or name share one key",
			commits: []domain.CommitRecord{
				{AuthorLogin: "alice"},
				{},
				{},
				{AuthorName: "Bob"},
			},
			expected: domain.BusFactor{Top1Percent: 50, Top3Percent: 100},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, BusFactorOf(tc.commits))
		})
	}
}

func TestBusFactorOf_Top3NeverBelowTop1(t *testing.T) {
	samples := [][]domain.CommitRecord{
		commitsBy("A"),
		commitsBy("A", "B"),
		commitsBy("A", "B", "C", "D"),
		commitsBy("A", "A", "B", "C", "C", "C", "D", "E"),
	}
	for _, commits := range samples {
		bf := BusFactorOf(commits)
		assert.GreaterOrEqual(t, bf.Top3Percent, bf.Top1Percent)
		assert.LessOrEqual(t, bf.Top3Percent, 100)
	}
	single := BusFactorOf(commitsBy("A", "A"))
	assert.Equal(t, single.Top1Percent, single.Top3Percent)
}

func TestRankContributors_TiesKeepDiscoveryOrder(t *testing.T) {
	ranked := rankContributors(commitsBy("C", "B", "A", "B", "C", "A", "D"))

	require.Len(t, ranked, 4)
	assert.Equal(t, []contributorCount{
		{Key: "C", Commits: 2},
		{Key: "B", Commits: 2},
		{Key: "A", Commits: 2},
		{Key: "D", Commits: 1},
	}, ranked)
}

func TestReleaseCadence(t *testing.T) {
	day := 24 * time.Hour
	at := func(d int) time.Time { return baseTime.Add(-time.Duration(d) * day) }
	published := func(d int) *time.Time { v := at(d); return &v }

	testCases := []struct {
		name     string
		releases []domain.ReleaseRecord
		expected *int
	}{
		{name: "no releases", releases: nil, expected: nil},
		{name: "one release", releases: []domain.ReleaseRecord{{CreatedAt: at(3)}}, expected: nil},
		{
			name:     "two releases ten days apart",
			releases: []domain.ReleaseRecord{{CreatedAt: at(0)}, {CreatedAt: at(10)}},
			expected: intPtr(10),
		},
		{
			name: "publish time preferred over creation time",
			releases: []domain.ReleaseRecord{
				{PublishedAt: published(0), CreatedAt: at(30)},
				{PublishedAt: published(20), CreatedAt: at(21)},
			},
			expected: intPtr(20),
		},
		{
			name: "unordered input and fractional mean",
			releases: []domain.ReleaseRecord{
				{CreatedAt: at(7)},
				{CreatedAt: at(0)},
				{CreatedAt: at(2)},
				{CreatedAt: at(9)},
			},
			// gaps 2, 5, 2 -> mean 3
			expected: intPtr(3),
		},
		{
			name: "rounds half up",
			releases: []domain.ReleaseRecord{
				{CreatedAt: at(0)},
				{CreatedAt: baseTime.Add(-36 * time.Hour)},
			},
			expected: intPtr(2),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ReleaseCadence(tc.releases))
		})
	}
}

func TestIssueChurnOf(t *testing.T) {
	assert.Equal(t,
		domain.IssueChurn{Opened30: 4, Closed30: 3, Opened90: 9, Closed90: 8},
		IssueChurnOf(4, 3, 9, 8))
	assert.Equal(t, domain.IssueChurn{}, IssueChurnOf(-1, -2, -3, -4))
}

func TestComposeAliveness(t *testing.T) {
	testCases := []struct {
		name     string
		snapshot domain.AlivenessSnapshot
		expected domain.AlivenessMetrics
	}{
		{
			name: "active repository",
			snapshot: domain.AlivenessSnapshot{
				PushedAt:       baseTime.Add(-50 * time.Hour),
				HasHistory:     true,
				CommitsWeek:    1,
				CommitsMonth:   2,
				CommitsQuarter: 3,
				Commits:        commitsBy("A", "A", "B"),
				Releases: []domain.ReleaseRecord{
					{CreatedAt: baseTime},
					{CreatedAt: baseTime.Add(-10 * 24 * time.Hour)},
				},
				OpenedIssues30: 4,
				OpenedIssues90: 9,
				ClosedIssues30: 3,
				ClosedIssues90: 8,
			},
			expected: domain.AlivenessMetrics{
				DaysSinceLastCommit: 2,
				CommitVelocity:      domain.CommitVelocity{Week: 1, Month: 2, Quarter: 3},
				BusFactor:           domain.BusFactor{Top1Percent: 67, Top3Percent: 100},
				ReleaseCadence:      intPtr(10),
				IssueChurn:          domain.IssueChurn{Opened30: 4, Closed30: 3, Opened90: 9, Closed90: 8},
			},
		},
		{
			name: "empty repository without default branch",
			snapshot: domain.AlivenessSnapshot{
				PushedAt:       baseTime.Add(-24 * time.Hour),
				CommitsQuarter: 5,
				Commits:        commitsBy("A"),
			},
			expected: domain.AlivenessMetrics{
				DaysSinceLastCommit: 1,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComposeAliveness(tc.snapshot, baseTime))
		})
	}
}

func intPtr(v int) *int { return &v }

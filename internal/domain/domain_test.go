package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindows(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	w := NewWindows(now)

	assert.Equal(t, now, w.Now)
	assert.Equal(t, time.Date(2024, 6, 23, 12, 0, 0, 0, time.UTC), w.Week)
	assert.Equal(t, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC), w.Month)
	assert.Equal(t, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC), w.Quarter)
}

func TestParseRepository(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected RepositoryIdentity
		wantErr  bool
	}{
		{name: "owner and name", input: "golang/go", expected: RepositoryIdentity{Owner: "golang", Name: "go"}},
		{name: "surrounding whitespace", input: "  golang/go ", expected: RepositoryIdentity{Owner: "golang", Name: "go"}},
		{name: "missing slash", input: "golang", wantErr: true},
		{name: "missing name", input: "golang/", wantErr: true},
		{name: "missing owner", input: "/go", wantErr: true},
		{name: "too many parts", input: "golang/go/extra", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, err := ParseRepository(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRepository)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, repo)
		})
	}
}

func TestRepositoryIdentity_Key(t *testing.T) {
	a := RepositoryIdentity{Owner: "Golang", Name: "Go"}
	b := RepositoryIdentity{Owner: "golang", Name: "go"}

	assert.Equal(t, "golang/go", a.Key())
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "Golang/Go", a.String())
}

func TestResolveContributor(t *testing.T) {
	testCases := []struct {
		name     string
		login    string
		display  string
		wantKind ContributorKind
		wantKey  string
	}{
		{name: "login wins over name", login: "octocat", display: "The Octocat", wantKind: ContributorLogin, wantKey: "octocat"},
		{name: "name when no account is linked", display: "Jane Doe", wantKind: ContributorName, wantKey: "Jane Doe"},
		{name: "unknown without either", wantKind: ContributorUnknown, wantKey: UnknownContributor},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := ResolveContributor(tc.login, tc.display)
			assert.Equal(t, tc.wantKind, c.Kind)
			assert.Equal(t, tc.wantKey, c.Key())
		})
	}
}

func TestReleaseRecord_Effective(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	published := created.Add(48 * time.Hour)

	assert.Equal(t, published, ReleaseRecord{PublishedAt: &published, CreatedAt: created}.Effective())
	assert.Equal(t, created, ReleaseRecord{CreatedAt: created}.Effective())
}

func TestPullRequestRecord_State(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	merged := PullRequestRecord{MergedAt: &at, ClosedAt: &at}
	closed := PullRequestRecord{ClosedAt: &at}
	open := PullRequestRecord{}

	assert.True(t, merged.IsMerged())
	assert.False(t, merged.IsClosedWithoutMerge())
	assert.True(t, closed.IsClosedWithoutMerge())
	assert.False(t, open.IsMerged())
	assert.False(t, open.IsClosedWithoutMerge())
}

// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// Sample bounds of the combined insights query.
const (
	insightsPRSample       = 50
	insightsResponseSample = 1
)

// Sample bounds of the standalone contribution outcomes query.
const (
	outcomesPRSample       = 100
	outcomesResponseSample = 5
)

const (
	releaseSample = 20
	commitSample  = 100
	searchPerPage = 12
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
// Each Fetch method issues exactly one upstream query.
type Fetcher interface {
	FetchInsights(ctx context.Context, repo domain.RepositoryIdentity, windows domain.Windows) (*domain.InsightsSnapshot, error)
	FetchAliveness(ctx context.Context, repo domain.RepositoryIdentity, windows domain.Windows) (*domain.AlivenessSnapshot, error)
	FetchContributionOutcomes(ctx context.Context, repo domain.RepositoryIdentity) (*domain.OutcomesSnapshot, error)
	SearchRepositories(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *slog.Logger
	now           func() time.Time
}

var _ Fetcher = (*GitHubGateway)(nil)

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token yields an unauthenticated client, which GitHub's GraphQL API rejects.
func NewGitHubGateway(token string, logger *slog.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	httpClient := &http.Client{Transport: transport}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
		now:           time.Now,
	}, nil
}

// FetchInsights runs the combined aliveness and contribution outcomes query in one round trip.
func (g *GitHubGateway) FetchInsights(ctx context.Context, repo domain.RepositoryIdentity, windows domain.Windows) (*domain.InsightsSnapshot, error) {
	g.logger.Debug("fetching insights", "repository", repo.String())
	var q insightsQuery
	variables := alivenessVariables(repo, windows)
	variables["prSample"] = githubv4.Int(insightsPRSample)
	variables["responseSample"] = githubv4.Int(insightsResponseSample)
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, queryError("insights", err)
	}
	r := q.Repository
	snapshot := &domain.InsightsSnapshot{
		Aliveness: alivenessSnapshot(r.PushedAt, r.Releases, r.DefaultBranchRef,
			r.OpenedIssues30, r.OpenedIssues90, r.ClosedIssues30, r.ClosedIssues90),
		Outcomes: outcomesSnapshot(r.Owner, r.MergedPRs, r.ClosedPRs, r.OpenPRs),
	}
	g.logger.Debug("completed fetching insights",
		"repository", repo.String(),
		"commits", len(snapshot.Aliveness.Commits),
		"merged", len(snapshot.Outcomes.Merged),
		"closed", len(snapshot.Outcomes.Closed))
	return snapshot, nil
}

// FetchAliveness runs the aliveness-only query.
func (g *GitHubGateway) FetchAliveness(ctx context.Context, repo domain.RepositoryIdentity, windows domain.Windows) (*domain.AlivenessSnapshot, error) {
	g.logger.Debug("fetching aliveness", "repository", repo.String())
	var q alivenessQuery
	if err := g.graphqlClient.Query(ctx, &q, alivenessVariables(repo, windows)); err != nil {
		return nil, queryError("aliveness", err)
	}
	r := q.Repository
	snapshot := alivenessSnapshot(r.PushedAt, r.Releases, r.DefaultBranchRef,
		r.OpenedIssues30, r.OpenedIssues90, r.ClosedIssues30, r.ClosedIssues90)
	return &snapshot, nil
}

// FetchContributionOutcomes runs the outcomes-only query, which samples more pull requests
// and more responses per pull request than the combined query.
func (g *GitHubGateway) FetchContributionOutcomes(ctx context.Context, repo domain.RepositoryIdentity) (*domain.OutcomesSnapshot, error) {
	g.logger.Debug("fetching contribution outcomes", "repository", repo.String())
	var q outcomesQuery
	variables := map[string]interface{}{
		"owner":          githubv4.String(repo.Owner),
		"name":           githubv4.String(repo.Name),
		"prSample":       githubv4.Int(outcomesPRSample),
		"responseSample": githubv4.Int(outcomesResponseSample),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, queryError("contribution outcomes", err)
	}
	r := q.Repository
	snapshot := outcomesSnapshot(r.Owner, r.MergedPRs, r.ClosedPRs, r.OpenPRs)
	return &snapshot, nil
}

// SearchRepositories searches public repositories with the REST API.
func (g *GitHubGateway) SearchRepositories(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	query := BuildSearchQuery(q.Search, q.Language)
	sortBy := q.Sort
	switch sortBy {
	case "stars", "forks", "updated":
	default:
		sortBy = "stars"
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	g.logger.Debug("searching repositories", "query", query, "sort", sortBy, "page", page)

	opts := &github.SearchOptions{
		Sort:        sortBy,
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: searchPerPage, Page: page},
	}
	result, _, err := g.restClient.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories with REST API: %w", err)
	}

	projects := make([]domain.Project, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		projects = append(projects, toProject(repo, g.now()))
	}
	return &domain.SearchResult{Projects: projects, Total: result.GetTotal()}, nil
}

// BuildSearchQuery builds the repository search string. Without a search term it lists popular repositories.
func BuildSearchQuery(search, language string) string {
	query := "stars:>10000"
	if search != "" {
		query = search + " in:name,description"
	}
	if language != "" {
		query += " language:" + language
	}
	if search == "" {
		query += " stars:>1000"
	}
	return query
}

// toProject maps a search hit. A repository that was never pushed reports now as its last commit date.
func toProject(repo *github.Repository, now time.Time) domain.Project {
	description := repo.GetDescription()
	if description == "" {
		description = "No description"
	}
	language := repo.GetLanguage()
	if language == "" {
		language = "Unknown"
	}
	lastCommit := now
	if pushedAt := repo.GetPushedAt(); !pushedAt.IsZero() {
		lastCommit = pushedAt.Time
	}
	owner := repo.GetOwner().GetLogin()
	if owner == "" {
		owner = "Unknown"
	}
	return domain.Project{
		ID:             fmt.Sprintf("%d", repo.GetID()),
		Name:           repo.GetName(),
		Description:    description,
		Stars:          repo.GetStargazersCount(),
		Language:       language,
		Owner:          owner,
		OwnerAvatarURL: repo.GetOwner().GetAvatarURL(),
		LastCommitDate: lastCommit,
		URL:            repo.GetHTMLURL(),
		Forks:          repo.GetForksCount(),
		OpenIssues:     repo.GetOpenIssuesCount(),
	}
}

// queryError wraps a GraphQL failure, translating GitHub's NOT_FOUND into ErrRepositoryNotFound.
func queryError(what string, err error) error {
	if strings.Contains(err.Error(), "Could not resolve to a Repository") {
		return fmt.Errorf("failed to execute GraphQL query for %s: %w: %v", what, domain.ErrRepositoryNotFound, err)
	}
	return fmt.Errorf("failed to execute GraphQL query for %s: %w", what, err)
}

package gateway

import (
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/shurcooL/githubv4"
)

// alivenessVariables binds the window anchors and sample bounds shared by the aliveness and insights queries.
// Commit history filters take a GitTimestamp, issue filters a DateTime.
func alivenessVariables(repo domain.RepositoryIdentity, windows domain.Windows) map[string]interface{} {
	return map[string]interface{}{
		"owner":          githubv4.String(repo.Owner),
		"name":           githubv4.String(repo.Name),
		"since90d":       githubv4.GitTimestamp{Time: windows.Quarter},
		"since30d":       githubv4.GitTimestamp{Time: windows.Month},
		"since7d":        githubv4.GitTimestamp{Time: windows.Week},
		"issuesSince30d": githubv4.DateTime{Time: windows.Month},
		"issuesSince90d": githubv4.DateTime{Time: windows.Quarter},
		"releaseSample":  githubv4.Int(releaseSample),
		"commitSample":   githubv4.Int(commitSample),
	}
}

func alivenessSnapshot(
	pushedAt *githubv4.DateTime,
	releases releaseConnection,
	ref *defaultBranchRef,
	opened30, opened90, closed30, closed90 totalCount,
) domain.AlivenessSnapshot {
	s := domain.AlivenessSnapshot{
		PushedAt:       timeOf(pushedAt),
		OpenedIssues30: int(opened30.TotalCount),
		OpenedIssues90: int(opened90.TotalCount),
		ClosedIssues30: int(closed30.TotalCount),
		ClosedIssues90: int(closed90.TotalCount),
	}

	s.Releases = make([]domain.ReleaseRecord, 0, len(releases.Nodes))
	for _, r := range releases.Nodes {
		s.Releases = append(s.Releases, domain.ReleaseRecord{
			PublishedAt: timePtr(r.PublishedAt),
			CreatedAt:   r.CreatedAt.Time,
		})
	}

	// An empty repository has no default branch, or a default branch that is not a commit.
	if ref == nil || ref.Target.Typename != "Commit" {
		return s
	}
	commit := ref.Target.Commit
	s.HasHistory = true
	s.CommitsWeek = int(commit.Last7.TotalCount)
	s.CommitsMonth = int(commit.Last30.TotalCount)
	s.CommitsQuarter = int(commit.History.TotalCount)
	s.Commits = make([]domain.CommitRecord, 0, len(commit.History.Nodes))
	for _, c := range commit.History.Nodes {
		record := domain.CommitRecord{CommittedAt: c.CommittedDate.Time}
		if c.Author != nil {
			if c.Author.User != nil {
				record.AuthorLogin = string(c.Author.User.Login)
			}
			if c.Author.Name != nil {
				record.AuthorName = string(*c.Author.Name)
			}
		}
		s.Commits = append(s.Commits, record)
	}
	return s
}

func outcomesSnapshot(owner actor, merged, closed pullRequestConnection, open totalCount) domain.OutcomesSnapshot {
	return domain.OutcomesSnapshot{
		OwnerLogin:  string(owner.Login),
		Merged:      pullRequests(merged.Nodes),
		Closed:      pullRequests(closed.Nodes),
		MergedTotal: int(merged.TotalCount),
		ClosedTotal: int(closed.TotalCount),
		OpenTotal:   int(open.TotalCount),
	}
}

func pullRequests(nodes []pullRequestNode) []domain.PullRequestRecord {
	out := make([]domain.PullRequestRecord, 0, len(nodes))
	for _, n := range nodes {
		pr := domain.PullRequestRecord{
			CreatedAt:   n.CreatedAt.Time,
			MergedAt:    timePtr(n.MergedAt),
			ClosedAt:    timePtr(n.ClosedAt),
			AuthorLogin: loginOf(n.Author),
		}
		pr.FirstResponses = make([]domain.Response, 0, len(n.Reviews.Nodes)+len(n.Comments.Nodes))
		for _, r := range n.Reviews.Nodes {
			pr.FirstResponses = append(pr.FirstResponses, domain.Response{CreatedAt: r.CreatedAt.Time, AuthorLogin: loginOf(r.Author)})
		}
		for _, c := range n.Comments.Nodes {
			pr.FirstResponses = append(pr.FirstResponses, domain.Response{CreatedAt: c.CreatedAt.Time, AuthorLogin: loginOf(c.Author)})
		}
		out = append(out, pr)
	}
	return out
}

func loginOf(a *actor) string {
	if a == nil {
		return ""
	}
	return string(a.Login)
}

func timeOf(t *githubv4.DateTime) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}

func timePtr(t *githubv4.DateTime) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

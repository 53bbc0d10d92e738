package gateway

import (
	"github.com/shurcooL/githubv4"
)

type actor struct {
	Login githubv4.String
}

type responseNode struct {
	CreatedAt githubv4.DateTime
	Author    *actor
}

type pullRequestNode struct {
	CreatedAt githubv4.DateTime
	MergedAt  *githubv4.DateTime
	ClosedAt  *githubv4.DateTime
	Author    *actor
	Reviews   struct {
		Nodes []responseNode
	} `graphql:"reviews(first: $responseSample)"`
	Comments struct {
		Nodes []responseNode
	} `graphql:"comments(first: $responseSample)"`
}

type pullRequestConnection struct {
	TotalCount githubv4.Int
	Nodes      []pullRequestNode
}

type totalCount struct {
	TotalCount githubv4.Int
}

type releaseConnection struct {
	Nodes []struct {
		PublishedAt *githubv4.DateTime
		CreatedAt   githubv4.DateTime
	}
}

type commitNode struct {
	Author *struct {
		User *actor
		Name *githubv4.String
	}
	CommittedDate githubv4.GitTimestamp
}

type defaultBranchRef struct {
	Target struct {
		Typename string `graphql:"__typename"`
		Commit   struct {
			History struct {
				TotalCount githubv4.Int
				Nodes      []commitNode
			} `graphql:"history(first: $commitSample, since: $since90d)"`
			Last30 totalCount `graphql:"last30: history(first: 1, since: $since30d)"`
			Last7  totalCount `graphql:"last7: history(first: 1, since: $since7d)"`
		} `graphql:"... on Commit"`
	}
}

// alivenessQuery fetches push time, releases, commit history and issue totals.
type alivenessQuery struct {
	Repository struct {
		PushedAt         *githubv4.DateTime
		Releases         releaseConnection `graphql:"releases(first: $releaseSample, orderBy: {field: CREATED_AT, direction: DESC})"`
		DefaultBranchRef *defaultBranchRef
		OpenedIssues30   totalCount `graphql:"openedIssues30: issues(filterBy: {since: $issuesSince30d})"`
		OpenedIssues90   totalCount `graphql:"openedIssues90: issues(filterBy: {since: $issuesSince90d})"`
		ClosedIssues30   totalCount `graphql:"closedIssues30: issues(states: CLOSED, filterBy: {since: $issuesSince30d})"`
		ClosedIssues90   totalCount `graphql:"closedIssues90: issues(states: CLOSED, filterBy: {since: $issuesSince90d})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// insightsQuery is alivenessQuery and a reduced outcomes sample in a single round trip.
type insightsQuery struct {
	Repository struct {
		PushedAt         *githubv4.DateTime
		Releases         releaseConnection `graphql:"releases(first: $releaseSample, orderBy: {field: CREATED_AT, direction: DESC})"`
		DefaultBranchRef *defaultBranchRef
		OpenedIssues30   totalCount `graphql:"openedIssues30: issues(filterBy: {since: $issuesSince30d})"`
		OpenedIssues90   totalCount `graphql:"openedIssues90: issues(filterBy: {since: $issuesSince90d})"`
		ClosedIssues30   totalCount `graphql:"closedIssues30: issues(states: CLOSED, filterBy: {since: $issuesSince30d})"`
		ClosedIssues90   totalCount `graphql:"closedIssues90: issues(states: CLOSED, filterBy: {since: $issuesSince90d})"`
		Owner            actor
		MergedPRs        pullRequestConnection `graphql:"mergedPRs: pullRequests(first: $prSample, states: MERGED, orderBy: {field: UPDATED_AT, direction: DESC})"`
		ClosedPRs        pullRequestConnection `graphql:"closedPRs: pullRequests(first: $prSample, states: CLOSED, orderBy: {field: UPDATED_AT, direction: DESC})"`
		OpenPRs          totalCount            `graphql:"openPRs: pullRequests(first: 1, states: OPEN)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// outcomesQuery fetches the larger pull request sample used by the standalone outcomes endpoint.
type outcomesQuery struct {
	Repository struct {
		Owner     actor
		MergedPRs pullRequestConnection `graphql:"mergedPRs: pullRequests(first: $prSample, states: MERGED, orderBy: {field: UPDATED_AT, direction: DESC})"`
		ClosedPRs pullRequestConnection `graphql:"closedPRs: pullRequests(first: $prSample, states: CLOSED, orderBy: {field: UPDATED_AT, direction: DESC})"`
		OpenPRs   totalCount            `graphql:"openPRs: pullRequests(first: 1, states: OPEN)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

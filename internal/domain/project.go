package domain

import "time"

// SearchQuery selects repositories from the hosting service search.
type SearchQuery struct {
	Search   string
	Language string
	Sort     string
	Page     int
}

// Project is a repository search hit.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Stars          int       `json:"stars"`
	Language       string    `json:"language"`
	Owner          string    `json:"owner"`
	OwnerAvatarURL string    `json:"ownerAvatarUrl"`
	LastCommitDate time.Time `json:"lastCommitDate"`
	URL            string    `json:"url,omitempty"`
	Forks          int       `json:"forks"`
	OpenIssues     int       `json:"openIssues"`
}

// SearchResult is one page of search hits together with the total hit count.
type SearchResult struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}

package domain

// ContributorKind tags how a commit author was identified.
type ContributorKind int

const (
	ContributorUnknown ContributorKind = iota
	ContributorLogin
	ContributorName
)

// UnknownContributor is the shared key for commits without any author identity.
// Every such commit is attributed to the same contributor.
const UnknownContributor = "unknown"

// Contributor is the resolved identity of a commit author.
type Contributor struct {
	Kind  ContributorKind
	Value string
}

// ResolveContributor prefers the account login, then the git display name.
func ResolveContributor(login, name string) Contributor {
	switch {
	case login != "":
		return Contributor{Kind: ContributorLogin, Value: login}
	case name != "":
		return Contributor{Kind: ContributorName, Value: name}
	default:
		return Contributor{Kind: ContributorUnknown}
	}
}

// Key groups commits by contributor.
func (c Contributor) Key() string {
	if c.Kind == ContributorUnknown {
		return UnknownContributor
	}
	return c.Value
}

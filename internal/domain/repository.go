// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRepository is returned when an owner/name pair cannot address a repository.
	ErrInvalidRepository = errors.New("invalid repository identity")
	// ErrRepositoryNotFound is returned when the upstream has no such repository.
	ErrRepositoryNotFound = errors.New("repository not found")
)

// RepositoryIdentity addresses a single repository on the hosting service.
type RepositoryIdentity struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// ParseRepository parses an "owner/name" string.
func ParseRepository(s string) (RepositoryIdentity, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return RepositoryIdentity{}, fmt.Errorf("%w: %q is not in owner/name form", ErrInvalidRepository, s)
	}
	repo := RepositoryIdentity{Owner: owner, Name: name}
	if err := repo.Validate(); err != nil {
		return RepositoryIdentity{}, err
	}
	return repo, nil
}

// Validate reports whether both parts are present and free of path separators.
func (r RepositoryIdentity) Validate() error {
	if r.Owner == "" || r.Name == "" {
		return fmt.Errorf("%w: owner and name are required", ErrInvalidRepository)
	}
	if strings.ContainsAny(r.Owner, "/ ") || strings.ContainsAny(r.Name, "/ ") {
		return fmt.Errorf("%w: %q", ErrInvalidRepository, r.String())
	}
	return nil
}

// Key is the cache key. GitHub resolves owner and name case-insensitively.
func (r RepositoryIdentity) Key() string {
	return strings.ToLower(r.Owner + "/" + r.Name)
}

func (r RepositoryIdentity) String() string {
	return r.Owner + "/" + r.Name
}

package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository indicates the path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Revision identifies the commit checked out in a work tree.
type Revision struct {
	Commit string
	// Branch is empty for a detached HEAD.
	Branch string
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) > 8 {
		return r.Commit[:8]
	}
	return r.Commit
}

func (r Revision) String() string {
	if r.Branch == "" {
		return r.Short()
	}
	return r.Branch + "@" + r.Short()
}

// Describe returns the revision of the repository containing path. Parent
// directories are searched for the repository root.
func Describe(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Revision{}, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// freshly initialised repository without commits
		return Revision{}, fmt.Errorf("%w: %s has no commits", ErrNotRepository, path)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}

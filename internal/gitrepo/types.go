// Package gitrepo holds the repository identity/status types shared by the
// scanner, status cache, monitor, collectors, and recommender.
package gitrepo

import (
	"path/filepath"
	"time"
)

// RepoStatus is the per-repo fact used by both the UI and the recommender
//. is_detached is derived from branch rather than stored
// independently elsewhere in the pipeline, but both are kept on the struct
// since callers read both without recomputing.
type RepoStatus struct {
	Branch            string
	IsDetached        bool
	UncommittedCount  int
	UnpushedCount     int
	BehindCount       int
	StashCount        int
	HasRemote         bool
}

// NeedsAttention reports whether the repo has local changes, unpushed
// commits, or commits it is behind its upstream.
func (s RepoStatus) NeedsAttention() bool {
	return s.UncommittedCount > 0 || s.UnpushedCount > 0 || s.BehindCount > 0
}

// Urgency is the 2-bit UI sort key over (uncommitted>0, unpushed>0): Dirty(3)
// > Uncommitted(2) > Unpushed(1) > Clean(0).
func (s RepoStatus) Urgency() int {
	switch {
	case s.UncommittedCount > 0 && s.UnpushedCount > 0:
		return 3
	case s.UncommittedCount > 0:
		return 2
	case s.UnpushedCount > 0:
		return 1
	default:
		return 0
	}
}

// Repo is a discovered repository with its current status. It is
// replaced wholesale on each scan, never mutated in place.
type Repo struct {
	Path        string
	Name        string
	Status      RepoStatus
	LastChecked *time.Time
}

// New returns a Repo at path with a zero-value status (pre-probe).
func New(path string) Repo {
	return Repo{
		Path: path,
		Name: filepath.Base(path),
	}
}

// NeedsAttention reports whether the repo's recommendation would be
// actionable, purely from its status: local changes, unpushed or behind
// commits, a detached HEAD, stashes, or no remote.
func (r Repo) NeedsAttention() bool {
	s := r.Status
	return s.NeedsAttention() || s.IsDetached || s.StashCount > 0 || !s.HasRemote
}

// Urgency forwards to Status.Urgency for monitor sort ordering.
func (r Repo) Urgency() int {
	return r.Status.Urgency()
}

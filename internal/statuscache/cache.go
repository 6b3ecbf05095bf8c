// Package statuscache memoizes RepoStatus keyed on local filesystem
// signals plus a wall-clock TTL.
package statuscache

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/pkg/constants"
)

// Signals is the tuple of modification timestamps used to detect whether a
// repo's on-disk git state changed since the entry was cached.
type Signals struct {
	IndexMtime      time.Time
	HeadMtime       time.Time
	FetchHeadMtime  time.Time
	RemoteRefsMtime time.Time
}

// Equal reports whether two signal tuples are identical.
func (s Signals) Equal(o Signals) bool {
	return s.IndexMtime.Equal(o.IndexMtime) &&
		s.HeadMtime.Equal(o.HeadMtime) &&
		s.FetchHeadMtime.Equal(o.FetchHeadMtime) &&
		s.RemoteRefsMtime.Equal(o.RemoteRefsMtime)
}

// Entry is a single cached probe result.
type Entry struct {
	Signals   Signals
	CheckedAt time.Time
	Status    gitrepo.RepoStatus
}

// Cache memoizes repo status by repo path. It is owned exclusively by the
// scan orchestrator; no internal locking is provided, matching
// the single-writer discipline the monitor enforces.
type Cache map[string]Entry

// New returns an empty cache.
func New() Cache {
	return make(Cache)
}

// TTL returns clamp(2*refreshInterval, 6s, 30s). The clamp
// guarantees remote-derived fields refresh even when local files are
// quiescent.
func TTL(refreshInterval time.Duration) time.Duration {
	min := time.Duration(constants.MinCacheTTL) * time.Second
	max := time.Duration(constants.MaxCacheTTL) * time.Second
	doubled := 2 * refreshInterval
	switch {
	case doubled < min:
		return min
	case doubled > max:
		return max
	default:
		return doubled
	}
}

// Hit returns the cached status for path iff the entry exists, has not
// expired, and the freshly read signals still match the stored ones. Any
// other case is a miss.
func (c Cache) Hit(path string, ttl time.Duration, now time.Time) (gitrepo.RepoStatus, bool) {
	entry, ok := c[path]
	if !ok {
		return gitrepo.RepoStatus{}, false
	}
	if entry.CheckedAt.Add(ttl).Before(now) {
		return gitrepo.RepoStatus{}, false
	}
	fresh := ReadSignals(path)
	if !fresh.Equal(entry.Signals) {
		return gitrepo.RepoStatus{}, false
	}
	return entry.Status, true
}

// Store overwrites the cache entry for path with freshly probed state.
func (c Cache) Store(path string, status gitrepo.RepoStatus, now time.Time) {
	c[path] = Entry{
		Signals:   ReadSignals(path),
		CheckedAt: now,
		Status:    status,
	}
}

// Invalidate drops the cache entry for path, forcing a fresh probe on the
// next scan; used after an action's completion event.
func (c Cache) Invalidate(path string) {
	delete(c, path)
}

// GitDir resolves a repo's git directory, handling the worktree/submodule
// form where .git is a text file beginning "gitdir: <path>".
func GitDir(repoPath string) string {
	gitPath := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return gitPath
	}
	if info.IsDir() {
		return gitPath
	}

	raw, err := os.ReadFile(gitPath)
	if err != nil {
		return gitPath
	}
	line := strings.TrimSpace(string(raw))
	const prefix = "gitdir: "
	if !strings.HasPrefix(line, prefix) {
		return gitPath
	}
	dir := strings.TrimPrefix(line, prefix)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoPath, dir)
	}
	return filepath.Clean(dir)
}

// ReadSignals reads the current CacheSignals for repoPath. Any
// individual signal that cannot be read contributes its zero time.Time,
// which simply makes that component always "changed" relative to a cache
// that successfully recorded it.
func ReadSignals(repoPath string) Signals {
	gitDir := GitDir(repoPath)
	return Signals{
		IndexMtime:      mtime(filepath.Join(gitDir, "index")),
		HeadMtime:       mtime(filepath.Join(gitDir, "HEAD")),
		FetchHeadMtime:  mtime(filepath.Join(gitDir, "FETCH_HEAD")),
		RemoteRefsMtime: newestRemoteRefMtime(gitDir),
	}
}

func mtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// newestRemoteRefMtime returns the mtime of the newest file under
// refs/remotes/, or of packed-refs if that is newer or refs/remotes is
// empty/absent.
func newestRemoteRefMtime(gitDir string) time.Time {
	newest := mtime(filepath.Join(gitDir, "packed-refs"))

	remotesDir := filepath.Join(gitDir, "refs", "remotes")
	_ = filepath.Walk(remotesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})

	return newest
}

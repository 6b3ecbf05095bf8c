// Package monitor orchestrates one scan pass: discover repos, serve cache
// hits, probe misses under bounded concurrency, and return a sorted,
// attention-first repo list.
package monitor

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/statuscache"
	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
	"github.com/sourcegraph/conc/pool"
)

var monitorLog = logger.New("monitor")

// Options configures a scan pass.
type Options struct {
	WatchDirectories []string
	IgnoredRepos     []string
	MaxScanDepth     int
	RefreshInterval  time.Duration
}

// ScanAll discovers repos under opts.WatchDirectories, serves unexpired
// cache hits from cache, probes the rest with at most
// constants.MaxInFlightProbes concurrent probe tasks (each running several
// git queries), updates cache in place, and returns repos sorted by
// (urgency desc, name asc).
func ScanAll(ctx context.Context, opts Options, cache statuscache.Cache) []gitrepo.Repo {
	paths := gitrepo.FindRepos(opts.WatchDirectories, opts.MaxScanDepth)
	paths = filterIgnored(paths, opts.IgnoredRepos)

	ttl := statuscache.TTL(opts.RefreshInterval)
	now := time.Now()

	var misses []string
	repos := make([]gitrepo.Repo, 0, len(paths))

	for _, p := range paths {
		repo := gitrepo.New(p)
		if status, ok := cache.Hit(p, ttl, now); ok {
			repo.Status = status
			checked := now
			repo.LastChecked = &checked
			repos = append(repos, repo)
			continue
		}
		misses = append(misses, p)
	}

	if len(misses) > 0 {
		probed := probeConcurrently(ctx, misses)
		for _, repo := range probed {
			cache.Store(repo.Path, repo.Status, now)
			checked := now
			repo.LastChecked = &checked
			repos = append(repos, repo)
		}
	}

	sort.SliceStable(repos, func(i, j int) bool {
		if repos[i].Urgency() != repos[j].Urgency() {
			return repos[i].Urgency() > repos[j].Urgency()
		}
		return repos[i].Name < repos[j].Name
	})

	monitorLog.Printf("scanned %d repos (%d cache hits, %d probed)", len(repos), len(repos)-len(misses), len(misses))
	return repos
}

func probeConcurrently(ctx context.Context, paths []string) []gitrepo.Repo {
	p := pool.NewWithResults[gitrepo.Repo]().
		WithContext(ctx).
		WithMaxGoroutines(constants.MaxInFlightProbes)

	for _, path := range paths {
		path := path
		p.Go(func(ctx context.Context) (gitrepo.Repo, error) {
			repo := gitrepo.New(path)
			repo.Status = gitrepo.CheckRepoStatus(path)
			return repo, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		monitorLog.Printf("probe pool returned error: %v", err)
	}
	return results
}

func filterIgnored(paths []string, ignored []string) []string {
	if len(ignored) == 0 {
		return paths
	}
	skip := make(map[string]struct{}, len(ignored))
	for _, name := range ignored {
		skip[name] = struct{}{}
	}
	out := paths[:0:0]
	for _, p := range paths {
		if _, found := skip[filepath.Base(p)]; found {
			continue
		}
		out = append(out, p)
	}
	return out
}

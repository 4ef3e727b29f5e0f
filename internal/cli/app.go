package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cafeplanner/internal/planner"
)

// app wires config, HTTP client, local cache, planner state and syncer for
// one planctl invocation.
type app struct {
	cfg     Config
	cfgDir  string
	client  *planner.Client
	planner *planner.Planner
	syncer  *planner.Syncer
}

func newApp() (*app, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := planner.NewClient(cfg.ServerURL, filepath.Join(dir, tokenFileName))
	if err != nil {
		return nil, err
	}

	cache := planner.NewCacheAt(dir, cfg.Account)
	p := planner.NewPlanner(cache)

	return &app{
		cfg:     cfg,
		cfgDir:  dir,
		client:  client,
		planner: p,
		syncer:  planner.NewSyncer(p, client, planner.DefaultSyncDelay),
	}, nil
}

// bootstrap loads the plan snapshot: server first when the session works,
// local cache otherwise, so plans survive offline runs.
func (a *app) bootstrap(ctx context.Context) error {
	remote, err := a.client.FetchPlans(ctx)
	if err != nil {
		a.planner.SetAuthenticated(false)
		a.planner.LoadLocal()
		if planner.IsUnauthorized(err) {
			return nil
		}
		fmt.Println("server unreachable, using local cache")
		return nil
	}

	a.planner.SetAuthenticated(true)
	a.planner.LoadServer(remote)
	return nil
}

// finish pushes unsaved mutations synchronously and reports the outcome.
func (a *app) finish(ctx context.Context) error {
	if a.planner.State() != planner.StateSaving {
		return nil
	}
	if err := a.syncer.Flush(ctx); err != nil {
		return fmt.Errorf("saved locally, sync failed: %w", err)
	}
	return nil
}

// matchPlan resolves a plan by full id, unique id prefix, or exact title.
func (a *app) matchPlan(ref string) (planner.Plan, error) {
	plans := a.planner.Plans()

	var matched []planner.Plan
	for _, p := range plans {
		if p.ID == ref || p.Title == ref {
			return p, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			matched = append(matched, p)
		}
	}
	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return planner.Plan{}, fmt.Errorf("no plan matches %q", ref)
	default:
		return planner.Plan{}, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matched))
	}
}

func (a *app) matchItem(plan planner.Plan, ref string) (planner.Item, error) {
	var matched []planner.Item
	for _, item := range plan.Items {
		if item.ID == ref || item.Text == ref {
			return item, nil
		}
		if strings.HasPrefix(item.ID, ref) {
			matched = append(matched, item)
		}
	}
	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return planner.Item{}, fmt.Errorf("no item matches %q", ref)
	default:
		return planner.Item{}, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matched))
	}
}

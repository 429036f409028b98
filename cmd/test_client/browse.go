package main

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/alumni-jobs/internal/browse"
	"github.com/honeycarbs/alumni-jobs/internal/config"
	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/governor"
	"github.com/honeycarbs/alumni-jobs/internal/membership"
	"github.com/honeycarbs/alumni-jobs/pkg/client"
	"github.com/honeycarbs/alumni-jobs/pkg/kvstore"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

func runBrowse(ctx context.Context, o *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	api, err := client.New(client.Config{
		BaseURL: o.baseURL,
		Actor:   domain.Actor{UserID: o.candidate, Name: "Cam Candidate", Role: "alumni", TenantID: o.tenant},
	})
	if err != nil {
		return err
	}

	gov := governor.New(governor.WithCooldown(cfg.GovernorCooldown), governor.WithLogger(logger))
	session, err := browse.New(api,
		browse.WithGovernor(gov),
		browse.WithDebounce(cfg.SearchDebounce),
		browse.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Refresh(ctx); err != nil {
		return fmt.Errorf("initial listing: %w", err)
	}
	printView("all jobs", session.View())

	if err := session.SetFacet(ctx, domain.FacetRemoteMode, domain.RemoteModeRemote); err != nil {
		return err
	}
	printView("remote only", session.View())

	session.SetSearchText(ctx, "engineer")
	printView("typing 'engineer' (local re-filter)", session.View())
	time.Sleep(cfg.SearchDebounce + 200*time.Millisecond)
	printView("after debounce", session.View())

	kv, err := kvstore.Open(cfg.MembershipDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	port, err := membership.NewKVPort(kv, o.tenant+"/"+o.candidate)
	if err != nil {
		return err
	}
	rc, err := membership.New(port,
		membership.WithRemote(api),
		membership.WithHydrateLimit(cfg.AppliedHydrateLimit),
		membership.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if err := rc.HydrateApplied(ctx); err != nil {
		logger.Warn("applied jobs not refreshed", "err", err)
	}
	fmt.Printf("\napplied to %d job(s), %d saved locally\n", len(rc.Applied()), len(rc.Saved()))

	if jobs := session.View().Jobs; len(jobs) > 0 {
		res, err := rc.ToggleSaved(ctx, jobs[0].ID)
		if err != nil {
			return err
		}
		fmt.Printf("toggled %s: saved=%t local_only=%t\n", res.JobID, res.Saved, res.LocalOnly)
	}
	return nil
}

func printView(label string, v browse.View) {
	fmt.Printf("\n%s: page %d of %d (%d total)", label, v.Pagination.Page, v.Pagination.TotalPages, v.Pagination.Total)
	if v.Stale {
		fmt.Print(" [stale]")
	}
	fmt.Println()
	for _, j := range v.Jobs {
		fmt.Printf("- %s at %s (%s)\n", j.Position, j.Company, j.Location)
	}
	if v.Err != nil {
		fmt.Printf("error: %v\n", v.Err)
	}
}

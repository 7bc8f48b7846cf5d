package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/newspilot/newspilot/activity"
	"github.com/newspilot/newspilot/config"
)

func handleActivity(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("activity", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Number of events to show")
	tenantID := fs.String("tenant", "", "Show aggregate stats for one tenant")
	fs.Parse(args)

	recorder, err := activity.NewStore(cfg.Storage.ActivityDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open activity store: %v\n", err)
		os.Exit(1)
	}
	defer recorder.Close()

	if *tenantID != "" {
		stats, err := recorder.StatsFor(*tenantID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load stats: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Tenant %s\n", *tenantID)
		fmt.Printf("  Logins:         %d\n", stats.Logins)
		fmt.Printf("  Discoveries:    %d\n", stats.Discoveries)
		fmt.Printf("  Articles found: %d\n", stats.ArticlesFound)
		fmt.Printf("  Publications:   %d\n", stats.Publications)
		return
	}

	events, err := recorder.Recent(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load events: %v\n", err)
		os.Exit(1)
	}
	if len(events) == 0 {
		fmt.Println("No activity recorded.")
		return
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %-12s %-20s %s", e.CreatedAt.Format("2006-01-02 15:04"), e.Kind, e.TenantID, e.Email)
		if e.Kind == activity.KindDiscovery {
			line += fmt.Sprintf("  (%d articles, %dms)", e.ArticleCount, e.DurationMS)
		}
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Println(line)
	}
}

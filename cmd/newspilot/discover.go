package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/newspilot/newspilot"
	"github.com/newspilot/newspilot/config"
)

func handleDiscover(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	tenantID := fs.String("tenant", "", "Tenant id (required)")
	email := fs.String("email", "", "Acting user email (required)")
	period := fs.String("period", "Last 7 days", "Recency window: Last 7/14/30 days")
	asJSON := fs.Bool("json", false, "Output JSON instead of a table")
	fs.Parse(args)

	if *tenantID == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "Error: -tenant and -email are required")
		fs.Usage()
		os.Exit(1)
	}

	service, recorder := openService(cfg)
	defer recorder.Close()

	sess := newspilot.NewSession(*email, *tenantID)
	progress := func(status string) {
		fmt.Fprintln(os.Stderr, status)
	}

	articles, err := service.Discover(context.Background(), sess, *period, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: discovery failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		data, err := json.MarshalIndent(articles, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to marshal articles: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	printArticles(articles)
}

func printArticles(articles []newspilot.Article) {
	if len(articles) == 0 {
		fmt.Println("No articles found.")
		return
	}

	fmt.Printf("Found %d articles\n\n", len(articles))
	for _, a := range articles {
		title := a.Title
		if len(title) > 70 {
			title = title[:67] + "..."
		}
		fmt.Printf("%s\n", title)
		fmt.Printf("   %s | %s | via %s | %s\n", a.Source, a.PublishedDate, a.FoundVia, a.Category)
		fmt.Printf("   URL: %s\n", a.URL)
		fmt.Printf("   ID: %s\n", a.ArticleID)
		fmt.Println()
	}
}

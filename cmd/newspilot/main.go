package main

import (
	"fmt"
	"os"

	"github.com/newspilot/newspilot"
	"github.com/newspilot/newspilot/activity"
	"github.com/newspilot/newspilot/config"
	"github.com/newspilot/newspilot/logger"
	"github.com/newspilot/newspilot/store"
)

func main() {
	logger.Init()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		handleServe(cfg)
	case "discover":
		handleDiscover(cfg, os.Args[2:])
	case "tenants":
		if len(os.Args) < 3 {
			printTenantsUsage()
			os.Exit(1)
		}
		handleTenantsCommand(cfg, os.Args[2], os.Args[3:])
	case "activity":
		handleActivity(cfg, os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// openService wires the file store, recorder and discoverer from config.
func openService(cfg *config.Config) (*newspilot.Service, *activity.Store) {
	fileStore, err := store.NewFileStore(cfg.Storage.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open tenant store: %v\n", err)
		os.Exit(1)
	}

	recorder, err := activity.NewStore(cfg.Storage.ActivityDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open activity store: %v\n", err)
		os.Exit(1)
	}

	discoverer := newspilot.NewDiscoverer()
	discoverer.MaxResults = cfg.Discovery.MaxResults
	discoverer.Search.Language = cfg.Discovery.Language
	discoverer.Search.Country = cfg.Discovery.Country

	return newspilot.NewService(fileStore, discoverer, recorder), recorder
}

func handleServe(cfg *config.Config) {
	service, recorder := openService(cfg)
	defer recorder.Close()

	server := newspilot.NewAPIServer(service)
	router := server.SetupRouter()

	fmt.Printf("Listening on %s\n", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: server stopped: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("newspilot - Multi-tenant newsletter production tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newspilot <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve               Start the HTTP API server")
	fmt.Println("  discover            Run a discovery pass for a tenant")
	fmt.Println("  tenants <action>    Manage tenants (list, create, add-user)")
	fmt.Println("  activity            Show recent activity")
	fmt.Println("  help                Show this help")
}

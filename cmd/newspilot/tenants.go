package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/newspilot/newspilot"
	"github.com/newspilot/newspilot/config"
	"github.com/newspilot/newspilot/store"
)

func handleTenantsCommand(cfg *config.Config, action string, args []string) {
	fileStore, err := store.NewFileStore(cfg.Storage.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open tenant store: %v\n", err)
		os.Exit(1)
	}
	manager := newspilot.NewCustomerManager(fileStore)

	switch action {
	case "list":
		handleTenantsList(manager, args)
	case "create":
		handleTenantsCreate(manager, args)
	case "add-user":
		handleTenantsAddUser(manager, args)
	case "help", "--help", "-h":
		printTenantsUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown tenants command: %s\n\n", action)
		printTenantsUsage()
		os.Exit(1)
	}
}

func handleTenantsList(manager *newspilot.CustomerManager, args []string) {
	fs := flag.NewFlagSet("tenants list", flag.ExitOnError)
	query := fs.String("search", "", "Filter by id, company name or contact email")
	fs.Parse(args)

	customers, err := manager.Search(*query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list tenants: %v\n", err)
		os.Exit(1)
	}

	if len(customers) == 0 {
		fmt.Println("No tenants found.")
		return
	}
	for _, c := range customers {
		fmt.Printf("%-20s %-30s %-10s %s\n", c.TenantID, c.CompanyName, c.Status, c.ContactEmail)
	}
}

func handleTenantsCreate(manager *newspilot.CustomerManager, args []string) {
	fs := flag.NewFlagSet("tenants create", flag.ExitOnError)
	tenantID := fs.String("id", "", "Tenant id (required)")
	company := fs.String("company", "", "Company name (required)")
	shortName := fs.String("short-name", "", "Short name used in newsletter filenames")
	tier := fs.String("tier", "standard", "Account tier")
	contact := fs.String("contact", "", "Contact email")
	userEmail := fs.String("user", "", "First user email (optional)")
	userPassword := fs.String("password", "", "First user password")
	fs.Parse(args)

	if *tenantID == "" || *company == "" {
		fmt.Fprintln(os.Stderr, "Error: -id and -company are required")
		fs.Usage()
		os.Exit(1)
	}

	req := newspilot.CreateCustomerRequest{
		TenantID:     *tenantID,
		CompanyName:  *company,
		ShortName:    *shortName,
		Tier:         *tier,
		ContactEmail: *contact,
		CreatedBy:    "cli",
	}
	if *userEmail != "" {
		req.FirstUser = &newspilot.UserRecord{
			Email:    *userEmail,
			Password: *userPassword,
			Tier:     *tier,
		}
	}

	if err := manager.Create(req); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create tenant: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Tenant %s created.\n", *tenantID)
}

func handleTenantsAddUser(manager *newspilot.CustomerManager, args []string) {
	fs := flag.NewFlagSet("tenants add-user", flag.ExitOnError)
	tenantID := fs.String("tenant", "", "Tenant id (required)")
	email := fs.String("email", "", "User email (required)")
	password := fs.String("password", "", "User password (required)")
	tier := fs.String("tier", "basic", "User tier: premium, standard or basic")
	fs.Parse(args)

	if *tenantID == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: -tenant, -email and -password are required")
		fs.Usage()
		os.Exit(1)
	}

	err := manager.AddUser(*tenantID, newspilot.UserRecord{
		Email:    *email,
		Password: *password,
		Tier:     *tier,
		AddedBy:  "cli",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to add user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("User %s added to %s with tier %s.\n", *email, *tenantID, *tier)
}

func printTenantsUsage() {
	fmt.Println("Usage:")
	fmt.Println("  newspilot tenants list [-search query]")
	fmt.Println("  newspilot tenants create -id <id> -company <name> [flags]")
	fmt.Println("  newspilot tenants add-user -tenant <id> -email <email> -password <pw> [-tier tier]")
}

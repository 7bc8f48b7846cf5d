package newspilot

import "time"

// Store is the tenant datastore boundary. All tenant state (configuration,
// user access, published newsletters) lives behind it; the core never touches
// files or repositories directly. Writes are last-write-wins with no locking.
type Store interface {
	// ListTenants returns all known tenant ids.
	ListTenants() ([]string, error)

	// LoadConfig decodes the named config (keywords, feeds, branding) into
	// out. A tenant with no config of that type yet returns ErrNotFound.
	LoadConfig(tenantID, configType string, out any) error

	// SaveConfig persists the named config for a tenant.
	SaveConfig(tenantID, configType string, data any) error

	LoadUserAccess(tenantID string) (*UserAccess, error)
	SaveUserAccess(tenantID string, access *UserAccess) error

	LoadInfo(tenantID string) (*CustomerInfo, error)
	SaveInfo(tenantID string, info *CustomerInfo) error

	// CreateTenant scaffolds a new tenant. Fails with ErrTenantExists if the
	// tenant is already present.
	CreateTenant(tenantID string) error

	// SaveDocument persists one published newsletter.
	SaveDocument(tenantID, filename string, html []byte) error
	ListDocuments(tenantID string) ([]DocumentInfo, error)
	LoadDocument(tenantID, filename string) ([]byte, error)
}

// DocumentInfo describes one published newsletter file.
type DocumentInfo struct {
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
}

// Recorder receives audit events from the service layer. A nil Recorder
// disables recording.
type Recorder interface {
	RecordLogin(tenantID, email string) error
	RecordDiscovery(tenantID, email string, articleCount int, elapsed time.Duration) error
	RecordPublication(tenantID, email, filename string) error
}

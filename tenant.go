package newspilot

import (
	"fmt"
	"regexp"
	"strings"
)

// Config type names understood by the tenant datastore.
const (
	ConfigKeywords = "keywords"
	ConfigFeeds    = "feeds"
	ConfigBranding = "branding"
)

// KeywordsConfig is the persisted keyword set for one tenant.
type KeywordsConfig struct {
	Keywords    []string `json:"keywords"`
	LastUpdated string   `json:"last_updated,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Feed is one configured RSS source. Disabled feeds are excluded from
// discovery but retained in configuration.
type Feed struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// FeedsConfig is the persisted feed set for one tenant.
type FeedsConfig struct {
	Feeds       []Feed `json:"feeds"`
	LastUpdated string `json:"last_updated,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// EnabledURLs returns the URLs of all enabled feeds, in configured order.
func (c FeedsConfig) EnabledURLs() []string {
	urls := make([]string, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		if f.Enabled {
			urls = append(urls, f.URL)
		}
	}
	return urls
}

// Branding is the tenant's newsletter presentation record.
type Branding struct {
	ApplicationName         string `json:"application_name"`
	NewsletterTitleTemplate string `json:"newsletter_title_template"`
	FooterText              string `json:"footer_text"`
	FooterURL               string `json:"footer_url"`
	FooterURLDisplay        string `json:"footer_url_display"`
	LogoPath                string `json:"logo_path,omitempty"`
}

// UserRecord is one entry of a tenant's user-access list. Email is the
// natural key, unique within the tenant but not globally: the same address
// may hold independent records under multiple tenants.
type UserRecord struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Tier        string   `json:"tier"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
	ValidUntil  string   `json:"valid_until,omitempty"`
	AddedDate   string   `json:"added_date,omitempty"`
	AddedBy     string   `json:"added_by,omitempty"`
}

// UserAccess is the persisted user list for one tenant.
type UserAccess struct {
	Users []UserRecord `json:"users"`
}

// Find returns the record matching email case-insensitively, or nil.
func (a *UserAccess) Find(email string) *UserRecord {
	for i := range a.Users {
		if strings.EqualFold(a.Users[i].Email, email) {
			return &a.Users[i]
		}
	}
	return nil
}

// CustomerInfo is the tenant's own account record. Tenants are never
// hard-deleted in normal operation; deactivation flips Status to Inactive.
type CustomerInfo struct {
	CompanyName  string `json:"company_name"`
	ShortName    string `json:"short_name,omitempty"`
	Status       string `json:"status"`
	Tier         string `json:"tier,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
}

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	tenantIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// ValidateEmail checks basic email address shape.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email address is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateTenantID checks the tenant identifier format: lowercase
// alphanumeric and underscores, 2-50 characters, no leading or trailing
// underscore.
func ValidateTenantID(tenantID string) error {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return fmt.Errorf("tenant id is required")
	}
	if len(tenantID) < 2 || len(tenantID) > 50 {
		return fmt.Errorf("tenant id must be 2-50 characters")
	}
	if !tenantIDPattern.MatchString(tenantID) {
		return fmt.Errorf("tenant id must be lowercase alphanumeric and underscores only")
	}
	if strings.HasPrefix(tenantID, "_") || strings.HasSuffix(tenantID, "_") {
		return fmt.Errorf("tenant id cannot start or end with underscore")
	}
	return nil
}

// ValidateKeywords rejects duplicate (case-insensitive), empty and oversized
// keywords. An empty set is allowed.
func ValidateKeywords(keywords []string) error {
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("empty keywords are not allowed")
		}
		if len(kw) > 100 {
			return fmt.Errorf("keyword %q is too long (max 100 characters)", kw)
		}
		lower := strings.ToLower(kw)
		if seen[lower] {
			return fmt.Errorf("duplicate keyword: %s", kw)
		}
		seen[lower] = true
	}
	return nil
}

// ValidateFeeds checks that every feed has a name and an http(s) URL, and
// that URLs are unique within the set (case-insensitive). An empty set is
// allowed.
func ValidateFeeds(feeds []Feed) error {
	seen := make(map[string]bool, len(feeds))
	for _, f := range feeds {
		if f.Name == "" || f.URL == "" {
			return fmt.Errorf("all feeds must have both a name and URL")
		}
		if !strings.HasPrefix(f.URL, "http://") && !strings.HasPrefix(f.URL, "https://") {
			return fmt.Errorf("invalid URL for feed %q: must start with http:// or https://", f.Name)
		}
		lower := strings.ToLower(f.URL)
		if seen[lower] {
			return fmt.Errorf("duplicate feed URL: %s", f.URL)
		}
		seen[lower] = true
	}
	return nil
}

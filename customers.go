package newspilot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CustomerManager covers the admin-side tenant lifecycle: onboarding,
// listing, user access management and soft deactivation.
type CustomerManager struct {
	store Store
}

// NewCustomerManager creates a manager over the given tenant datastore.
func NewCustomerManager(store Store) *CustomerManager {
	return &CustomerManager{store: store}
}

// CustomerSummary is one row of the admin customer list.
type CustomerSummary struct {
	TenantID     string `json:"tenant_id"`
	CompanyName  string `json:"company_name"`
	Status       string `json:"status"`
	Tier         string `json:"tier,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// CreateCustomerRequest carries everything the onboarding flow collects.
// FirstUser is optional; when present it is added with its tier's
// capability set.
type CreateCustomerRequest struct {
	TenantID    string
	CompanyName string
	ShortName   string
	Tier        string
	ContactName string
	ContactEmail string
	Branding    Branding
	FirstUser   *UserRecord
	CreatedBy   string
}

// Create onboards a new tenant atomically: scaffold, info record, empty
// keyword and feed sets, branding, and the optional first user.
func (m *CustomerManager) Create(req CreateCustomerRequest) error {
	if err := ValidateTenantID(req.TenantID); err != nil {
		return err
	}
	if req.ContactEmail != "" {
		if err := ValidateEmail(req.ContactEmail); err != nil {
			return err
		}
	}

	if err := m.store.CreateTenant(req.TenantID); err != nil {
		return err
	}

	now := time.Now()
	info := &CustomerInfo{
		CompanyName:  req.CompanyName,
		ShortName:    req.ShortName,
		Status:       "Active",
		Tier:         req.Tier,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		CreatedDate:  now.Format("2006-01-02"),
	}
	if err := m.store.SaveInfo(req.TenantID, info); err != nil {
		return fmt.Errorf("failed to save customer info: %w", err)
	}

	stamp := now.Format(time.RFC3339)
	if err := m.store.SaveConfig(req.TenantID, ConfigKeywords, KeywordsConfig{
		Keywords: []string{}, LastUpdated: "system", UpdatedAt: stamp,
	}); err != nil {
		return fmt.Errorf("failed to save keywords config: %w", err)
	}
	if err := m.store.SaveConfig(req.TenantID, ConfigFeeds, FeedsConfig{
		Feeds: []Feed{}, LastUpdated: "system", UpdatedAt: stamp,
	}); err != nil {
		return fmt.Errorf("failed to save feeds config: %w", err)
	}

	branding := req.Branding
	if branding.NewsletterTitleTemplate == "" {
		branding.NewsletterTitleTemplate = defaultTitleTemplate
	}
	if branding.ApplicationName == "" {
		branding.ApplicationName = req.CompanyName
	}
	if err := m.store.SaveConfig(req.TenantID, ConfigBranding, branding); err != nil {
		return fmt.Errorf("failed to save branding config: %w", err)
	}

	access := &UserAccess{Users: []UserRecord{}}
	if err := m.store.SaveUserAccess(req.TenantID, access); err != nil {
		return fmt.Errorf("failed to save user access: %w", err)
	}

	if req.FirstUser != nil {
		first := *req.FirstUser
		if first.AddedBy == "" {
			first.AddedBy = req.CreatedBy
		}
		if err := m.AddUser(req.TenantID, first); err != nil {
			return err
		}
	}
	return nil
}

// List returns all customers with their basic info. A tenant folder without
// an info record still shows up, with its id as the company name.
func (m *CustomerManager) List() ([]CustomerSummary, error) {
	tenantIDs, err := m.store.ListTenants()
	if err != nil {
		return nil, err
	}

	customers := make([]CustomerSummary, 0, len(tenantIDs))
	for _, tenantID := range tenantIDs {
		info, err := m.store.LoadInfo(tenantID)
		if err != nil {
			customers = append(customers, CustomerSummary{
				TenantID:    tenantID,
				CompanyName: titleCase(tenantID),
				Status:      "Unknown",
			})
			continue
		}
		customers = append(customers, CustomerSummary{
			TenantID:     tenantID,
			CompanyName:  info.CompanyName,
			Status:       info.Status,
			Tier:         info.Tier,
			ContactEmail: info.ContactEmail,
		})
	}
	return customers, nil
}

// Search matches customers by tenant id, company name or contact email,
// case-insensitively. An empty query returns everyone.
func (m *CustomerManager) Search(query string) ([]CustomerSummary, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}

	matching := make([]CustomerSummary, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.TenantID), query) ||
			strings.Contains(strings.ToLower(c.CompanyName), query) ||
			strings.Contains(strings.ToLower(c.ContactEmail), query) {
			matching = append(matching, c)
		}
	}
	return matching, nil
}

// Deactivate is the documented deactivation path: a soft Inactive status,
// never a hard delete.
func (m *CustomerManager) Deactivate(tenantID string) error {
	info, err := m.store.LoadInfo(tenantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrTenantNotFound
		}
		return err
	}
	info.Status = "Inactive"
	return m.store.SaveInfo(tenantID, info)
}

// AddUser appends a user to a tenant's access list with the capability set
// derived from their tier. The email must be unique within the tenant.
func (m *CustomerManager) AddUser(tenantID string, user UserRecord) error {
	if err := ValidateEmail(user.Email); err != nil {
		return err
	}

	access, err := m.store.LoadUserAccess(tenantID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		access = &UserAccess{}
	}
	if access.Find(user.Email) != nil {
		return fmt.Errorf("user %s already exists for tenant %s", user.Email, tenantID)
	}

	if user.Tier == "" {
		user.Tier = "basic"
	}
	if user.Role == "" {
		user.Role = "viewer"
	}
	if user.Status == "" {
		user.Status = "Active"
	}
	if user.AddedDate == "" {
		user.AddedDate = time.Now().Format("2006-01-02")
	}
	user.Permissions = TierPermissions(user.Tier)

	access.Users = append(access.Users, user)
	return m.store.SaveUserAccess(tenantID, access)
}

// UpdateUserTier changes a user's tier and rewrites their permission set
// from the tier table.
func (m *CustomerManager) UpdateUserTier(tenantID, email, tier string) error {
	access, err := m.store.LoadUserAccess(tenantID)
	if err != nil {
		return err
	}
	user := access.Find(email)
	if user == nil {
		return ErrUserNotFound
	}
	user.Tier = tier
	user.Permissions = TierPermissions(tier)
	return m.store.SaveUserAccess(tenantID, access)
}

// SetUserStatus flips a user's Active/Inactive status.
func (m *CustomerManager) SetUserStatus(tenantID, email, status string) error {
	access, err := m.store.LoadUserAccess(tenantID)
	if err != nil {
		return err
	}
	user := access.Find(email)
	if user == nil {
		return ErrUserNotFound
	}
	user.Status = status
	return m.store.SaveUserAccess(tenantID, access)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ChangePassword verifies the old password and stores the new one. Passwords
// are stored as-is for compatibility with existing user-access files.
func (m *CustomerManager) ChangePassword(tenantID, email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("new password must be at least 6 characters")
	}

	access, err := m.store.LoadUserAccess(tenantID)
	if err != nil {
		return err
	}
	user := access.Find(email)
	if user == nil {
		return ErrUserNotFound
	}
	if user.Password != oldPassword {
		return ErrInvalidCredentials
	}

	user.Password = newPassword
	return m.store.SaveUserAccess(tenantID, access)
}

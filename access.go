package newspilot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// tierPermissions is the authoritative tier to capability-set mapping.
var tierPermissions = map[string][]string{
	"premium":  {"view", "edit", "generate", "manage_config", "edit_config"},
	"standard": {"view", "generate"},
	"basic":    {"view"},
}

// TierPermissions returns the capability set for a tier. Unrecognized tiers
// fall back to view-only access.
func TierPermissions(tier string) []string {
	perms, ok := tierPermissions[strings.ToLower(strings.TrimSpace(tier))]
	if !ok {
		perms = []string{"view"}
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Calendar date layouts accepted for the valid_until field.
var expiryLayouts = []string{"02/01/2006", "2006-01-02", "01/02/2006"}

// TenantAccess describes one tenant a user may act on, with the tier and
// capability set that apply there.
type TenantAccess struct {
	TenantID    string   `json:"tenant_id"`
	Name        string   `json:"name"`
	Tier        string   `json:"tier"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
	ValidUntil  string   `json:"valid_until,omitempty"`
	AddedDate   string   `json:"added_date,omitempty"`
	AddedBy     string   `json:"added_by,omitempty"`

	// Stored credential, kept out of serialized output. Only Authenticate
	// reads it.
	password string
}

// AccessResolver answers who may act on which tenants with what
// capabilities. It does no caching: every call re-resolves from the
// datastore, so admin changes take effect on the next check without any
// invalidation protocol.
type AccessResolver struct {
	store Store
}

// NewAccessResolver creates a resolver over the given tenant datastore.
func NewAccessResolver(store Store) *AccessResolver {
	return &AccessResolver{store: store}
}

// ResolveUserTenants scans every tenant's user-access list for a
// case-insensitive email match. A user may appear under multiple tenants
// with independent tiers. Results are sorted by tenant display name.
func (r *AccessResolver) ResolveUserTenants(email string) ([]TenantAccess, error) {
	if email == "" {
		return []TenantAccess{}, nil
	}

	tenantIDs, err := r.store.ListTenants()
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	memberships := make([]TenantAccess, 0, len(tenantIDs))
	for _, tenantID := range tenantIDs {
		access, err := r.store.LoadUserAccess(tenantID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logrus.WithFields(logrus.Fields{
					"tenant": tenantID,
					"error":  err,
				}).Warn("skipping tenant with unreadable user access")
			}
			continue
		}

		user := access.Find(email)
		if user == nil {
			continue
		}

		memberships = append(memberships, TenantAccess{
			TenantID:    tenantID,
			Name:        r.displayName(tenantID),
			Tier:        valueOr(user.Tier, "basic"),
			Role:        valueOr(user.Role, "viewer"),
			Permissions: permissionsOrView(user.Permissions),
			Status:      valueOr(user.Status, "Active"),
			ValidUntil:  user.ValidUntil,
			AddedDate:   user.AddedDate,
			AddedBy:     user.AddedBy,
			password:    user.Password,
		})
	}

	sort.SliceStable(memberships, func(i, j int) bool {
		return memberships[i].Name < memberships[j].Name
	})
	return memberships, nil
}

// Authenticate verifies a user's credentials against every tenant membership.
// Failures carry a specific reason: ErrInvalidCredentials when no membership
// matches email and password, ErrAccountInactive when the matched record is
// not Active, ErrAccountExpired when valid_until is a past calendar date. An
// unparsable expiry date means no expiry, not an error.
func (r *AccessResolver) Authenticate(email, password string) (*TenantAccess, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	memberships, err := r.ResolveUserTenants(email)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, ErrInvalidCredentials
	}

	var matched *TenantAccess
	for i := range memberships {
		if memberships[i].password == password {
			matched = &memberships[i]
			break
		}
	}
	if matched == nil {
		return nil, ErrInvalidCredentials
	}

	if !strings.EqualFold(strings.TrimSpace(matched.Status), "active") {
		return nil, ErrAccountInactive
	}

	if expiry, ok := parseExpiry(matched.ValidUntil); ok {
		today := time.Now().Truncate(24 * time.Hour)
		if expiry.Before(today) {
			return nil, ErrAccountExpired
		}
	}

	return matched, nil
}

// HasPermission reports whether the user holds a capability on a tenant.
// "view" is granted by having any access at all; every other capability
// requires exact membership in the resolved permission list.
func (r *AccessResolver) HasPermission(email, tenantID, capability string) (bool, error) {
	if email == "" || tenantID == "" {
		return false, nil
	}

	access, err := r.store.LoadUserAccess(tenantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	user := access.Find(email)
	if user == nil {
		return false, nil
	}

	perms := permissionsOrView(user.Permissions)
	if capability == "view" {
		return len(perms) > 0, nil
	}
	for _, p := range perms {
		if p == capability {
			return true, nil
		}
	}
	return false, nil
}

// displayName resolves a tenant's branding display name, defaulting to
// "Newsletter" when branding is missing.
func (r *AccessResolver) displayName(tenantID string) string {
	var branding Branding
	if err := r.store.LoadConfig(tenantID, ConfigBranding, &branding); err != nil {
		return "Newsletter"
	}
	if branding.ApplicationName == "" {
		return "Newsletter"
	}
	return branding.ApplicationName
}

func parseExpiry(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func permissionsOrView(perms []string) []string {
	if len(perms) == 0 {
		return []string{"view"}
	}
	return perms
}

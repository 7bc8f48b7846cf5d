package newspilot

import (
	"encoding/json"
	"time"
)

// memStore is an in-memory Store used across the package tests.
type memStore struct {
	tenants map[string]*memTenant
}

type memTenant struct {
	configs   map[string]json.RawMessage
	access    *UserAccess
	info      *CustomerInfo
	documents map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{tenants: make(map[string]*memTenant)}
}

func (m *memStore) tenant(tenantID string) *memTenant {
	t, ok := m.tenants[tenantID]
	if !ok {
		t = &memTenant{
			configs:   make(map[string]json.RawMessage),
			documents: make(map[string][]byte),
		}
		m.tenants[tenantID] = t
	}
	return t
}

func (m *memStore) ListTenants() ([]string, error) {
	ids := make([]string, 0, len(m.tenants))
	for id := range m.tenants {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) LoadConfig(tenantID, configType string, out any) error {
	t, ok := m.tenants[tenantID]
	if !ok {
		return ErrNotFound
	}
	raw, ok := t.configs[configType]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *memStore) SaveConfig(tenantID, configType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.tenant(tenantID).configs[configType] = raw
	return nil
}

func (m *memStore) LoadUserAccess(tenantID string) (*UserAccess, error) {
	t, ok := m.tenants[tenantID]
	if !ok || t.access == nil {
		return nil, ErrNotFound
	}
	return t.access, nil
}

func (m *memStore) SaveUserAccess(tenantID string, access *UserAccess) error {
	m.tenant(tenantID).access = access
	return nil
}

func (m *memStore) LoadInfo(tenantID string) (*CustomerInfo, error) {
	t, ok := m.tenants[tenantID]
	if !ok || t.info == nil {
		return nil, ErrNotFound
	}
	return t.info, nil
}

func (m *memStore) SaveInfo(tenantID string, info *CustomerInfo) error {
	m.tenant(tenantID).info = info
	return nil
}

func (m *memStore) CreateTenant(tenantID string) error {
	if _, ok := m.tenants[tenantID]; ok {
		return ErrTenantExists
	}
	m.tenant(tenantID)
	return nil
}

func (m *memStore) SaveDocument(tenantID, filename string, html []byte) error {
	m.tenant(tenantID).documents[filename] = html
	return nil
}

func (m *memStore) ListDocuments(tenantID string) ([]DocumentInfo, error) {
	t, ok := m.tenants[tenantID]
	if !ok {
		return []DocumentInfo{}, nil
	}
	docs := make([]DocumentInfo, 0, len(t.documents))
	for name, data := range t.documents {
		docs = append(docs, DocumentInfo{
			Name:         name,
			LastModified: time.Now(),
			Size:         int64(len(data)),
		})
	}
	return docs, nil
}

func (m *memStore) LoadDocument(tenantID, filename string) ([]byte, error) {
	t, ok := m.tenants[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := t.documents[filename]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

// seedUser adds a user with the given tier's permission set to a tenant.
func (m *memStore) seedUser(tenantID, email, password, tier string) {
	t := m.tenant(tenantID)
	if t.access == nil {
		t.access = &UserAccess{}
	}
	t.access.Users = append(t.access.Users, UserRecord{
		Email:       email,
		Password:    password,
		Tier:        tier,
		Role:        "viewer",
		Permissions: TierPermissions(tier),
		Status:      "Active",
	})
}

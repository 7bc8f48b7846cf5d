// Package store provides the file-backed tenant datastore. The layout
// mirrors the repository used as the database in production:
//
//	customers/<tenant>/customer_info.json
//	customers/<tenant>/config/{keywords,feeds,branding}.json
//	customers/<tenant>/user_access.json
//	customers/<tenant>/data/newsletters/<name>.html
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/newspilot/newspilot"
)

// FileStore implements newspilot.Store over a directory tree of JSON and
// HTML files. Writes are last-write-wins; there is no locking.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at dir, creating the customers
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	root := filepath.Join(dir, "customers")
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// ListTenants returns every tenant folder name, sorted.
func (s *FileStore) ListTenants() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	tenants := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			tenants = append(tenants, entry.Name())
		}
	}
	sort.Strings(tenants)
	return tenants, nil
}

// LoadConfig decodes customers/<tenant>/config/<type>.json into out.
func (s *FileStore) LoadConfig(tenantID, configType string, out any) error {
	return s.readJSON(s.configPath(tenantID, configType), out)
}

// SaveConfig persists customers/<tenant>/config/<type>.json.
func (s *FileStore) SaveConfig(tenantID, configType string, data any) error {
	return s.writeJSON(s.configPath(tenantID, configType), data)
}

// LoadUserAccess reads a tenant's user list. A tenant without the file yet
// gets newspilot.ErrNotFound.
func (s *FileStore) LoadUserAccess(tenantID string) (*newspilot.UserAccess, error) {
	var access newspilot.UserAccess
	if err := s.readJSON(s.tenantPath(tenantID, "user_access.json"), &access); err != nil {
		return nil, err
	}
	return &access, nil
}

// SaveUserAccess persists a tenant's user list.
func (s *FileStore) SaveUserAccess(tenantID string, access *newspilot.UserAccess) error {
	return s.writeJSON(s.tenantPath(tenantID, "user_access.json"), access)
}

// LoadInfo reads a tenant's account record.
func (s *FileStore) LoadInfo(tenantID string) (*newspilot.CustomerInfo, error) {
	var info newspilot.CustomerInfo
	if err := s.readJSON(s.tenantPath(tenantID, "customer_info.json"), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveInfo persists a tenant's account record.
func (s *FileStore) SaveInfo(tenantID string, info *newspilot.CustomerInfo) error {
	return s.writeJSON(s.tenantPath(tenantID, "customer_info.json"), info)
}

// CreateTenant scaffolds the tenant folder tree.
func (s *FileStore) CreateTenant(tenantID string) error {
	tenantDir := filepath.Join(s.root, tenantID)
	if _, err := os.Stat(tenantDir); err == nil {
		return newspilot.ErrTenantExists
	}

	for _, sub := range []string{"config", filepath.Join("data", "newsletters")} {
		if err := os.MkdirAll(filepath.Join(tenantDir, sub), 0755); err != nil {
			return fmt.Errorf("failed to create tenant folder: %w", err)
		}
	}
	return nil
}

// SaveDocument writes one published newsletter under data/newsletters.
func (s *FileStore) SaveDocument(tenantID, filename string, html []byte) error {
	dir := s.tenantPath(tenantID, "data", "newsletters")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create newsletters directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), html, 0644); err != nil {
		return fmt.Errorf("failed to write newsletter: %w", err)
	}
	return nil
}

// ListDocuments returns the tenant's published newsletters, newest first.
func (s *FileStore) ListDocuments(tenantID string) ([]newspilot.DocumentInfo, error) {
	dir := s.tenantPath(tenantID, "data", "newsletters")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []newspilot.DocumentInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read newsletters directory: %w", err)
	}

	docs := make([]newspilot.DocumentInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, newspilot.DocumentInfo{
			Name:         entry.Name(),
			LastModified: fi.ModTime(),
			Size:         fi.Size(),
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].LastModified.After(docs[j].LastModified)
	})
	return docs, nil
}

// LoadDocument reads one published newsletter.
func (s *FileStore) LoadDocument(tenantID, filename string) ([]byte, error) {
	data, err := os.ReadFile(s.tenantPath(tenantID, "data", "newsletters", filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newspilot.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read newsletter: %w", err)
	}
	return data, nil
}

func (s *FileStore) tenantPath(tenantID string, parts ...string) string {
	return filepath.Join(append([]string{s.root, tenantID}, parts...)...)
}

func (s *FileStore) configPath(tenantID, configType string) string {
	return s.tenantPath(tenantID, "config", configType+".json")
}

func (s *FileStore) readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newspilot.ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileStore) writeJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

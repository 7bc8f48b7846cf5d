package newspilot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Service ties the discovery pipeline, the access resolver and the tenant
// datastore into the operations the presentation layer calls. Every gated
// operation re-checks permissions on entry.
type Service struct {
	store      Store
	resolver   *AccessResolver
	discoverer *Discoverer
	recorder   Recorder
}

// NewService wires a service over the given datastore. recorder may be nil.
func NewService(store Store, discoverer *Discoverer, recorder Recorder) *Service {
	if discoverer == nil {
		discoverer = NewDiscoverer()
	}
	return &Service{
		store:      store,
		resolver:   NewAccessResolver(store),
		discoverer: discoverer,
		recorder:   recorder,
	}
}

// Resolver exposes the access resolver for direct permission checks.
func (s *Service) Resolver() *AccessResolver {
	return s.resolver
}

// Store exposes the tenant datastore boundary.
func (s *Service) Store() Store {
	return s.store
}

// Login authenticates a user and returns the tenants they may act on.
func (s *Service) Login(email, password string) ([]TenantAccess, error) {
	matched, err := s.resolver.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	memberships, err := s.resolver.ResolveUserTenants(email)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		if err := s.recorder.RecordLogin(matched.TenantID, email); err != nil {
			logrus.WithField("error", err).Warn("failed to record login")
		}
	}
	return memberships, nil
}

// Keywords returns the tenant's configured keyword set. A tenant with no
// keywords config yet simply has none.
func (s *Service) Keywords(tenantID string) ([]string, error) {
	var cfg KeywordsConfig
	if err := s.store.LoadConfig(tenantID, ConfigKeywords, &cfg); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	return cfg.Keywords, nil
}

// Feeds returns the tenant's configured feed set, including disabled feeds.
func (s *Service) Feeds(tenantID string) ([]Feed, error) {
	var cfg FeedsConfig
	if err := s.store.LoadConfig(tenantID, ConfigFeeds, &cfg); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Feed{}, nil
		}
		return nil, err
	}
	return cfg.Feeds, nil
}

// Branding returns the tenant's branding record, or a zero record if none
// is configured yet.
func (s *Service) Branding(tenantID string) (Branding, error) {
	var branding Branding
	if err := s.store.LoadConfig(tenantID, ConfigBranding, &branding); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Branding{}, nil
		}
		return Branding{}, err
	}
	return branding, nil
}

// SaveKeywords validates and persists a tenant's keyword set. Requires the
// edit_config capability.
func (s *Service) SaveKeywords(sess *Session, keywords []string) error {
	if err := s.requirePermission(sess, "edit_config"); err != nil {
		return err
	}
	if err := ValidateKeywords(keywords); err != nil {
		return err
	}
	return s.store.SaveConfig(sess.TenantID, ConfigKeywords, KeywordsConfig{
		Keywords:    keywords,
		LastUpdated: sess.Email,
		UpdatedAt:   time.Now().Format(time.RFC3339),
	})
}

// SaveFeeds validates and persists a tenant's feed set. Requires the
// edit_config capability.
func (s *Service) SaveFeeds(sess *Session, feeds []Feed) error {
	if err := s.requirePermission(sess, "edit_config"); err != nil {
		return err
	}
	if err := ValidateFeeds(feeds); err != nil {
		return err
	}
	return s.store.SaveConfig(sess.TenantID, ConfigFeeds, FeedsConfig{
		Feeds:       feeds,
		LastUpdated: sess.Email,
		UpdatedAt:   time.Now().Format(time.RFC3339),
	})
}

// Discover runs one discovery pass for the session's tenant using its
// configured keywords and enabled feeds, installs the result as the
// session's article pool and returns it. A tenant with nothing configured
// gets an empty result, not an error. Requires the view capability.
func (s *Service) Discover(ctx context.Context, sess *Session, period string, progress ProgressFunc) ([]Article, error) {
	if err := s.requirePermission(sess, "view"); err != nil {
		return nil, err
	}

	keywords, err := s.Keywords(sess.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load keywords: %w", err)
	}

	var feedURLs []string
	var feedsCfg FeedsConfig
	if err := s.store.LoadConfig(sess.TenantID, ConfigFeeds, &feedsCfg); err == nil {
		feedURLs = feedsCfg.EnabledURLs()
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load feeds: %w", err)
	}

	started := time.Now()
	articles := s.discoverer.Discover(ctx, keywords, feedURLs, period, progress)
	sess.SetArticles(articles)

	if s.recorder != nil {
		if err := s.recorder.RecordDiscovery(sess.TenantID, sess.Email, len(articles), time.Since(started)); err != nil {
			logrus.WithField("error", err).Warn("failed to record discovery run")
		}
	}
	return articles, nil
}

// Publish assembles the session's selection into a newsletter, persists it,
// and clears the selection. Requires the generate capability.
func (s *Service) Publish(sess *Session) (*Newsletter, error) {
	if err := s.requirePermission(sess, "generate"); err != nil {
		return nil, err
	}

	branding, err := s.Branding(sess.TenantID)
	if err != nil {
		return nil, err
	}

	shortName := ""
	if info, err := s.store.LoadInfo(sess.TenantID); err == nil {
		shortName = info.ShortName
	}

	newsletter, err := AssemblePublication(sess, branding, shortName, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveDocument(sess.TenantID, newsletter.Filename, []byte(newsletter.HTML)); err != nil {
		return nil, fmt.Errorf("failed to save newsletter: %w", err)
	}

	// Selection is only cleared once the document is durably saved.
	sess.ClearSelection()

	if s.recorder != nil {
		if err := s.recorder.RecordPublication(sess.TenantID, sess.Email, newsletter.Filename); err != nil {
			logrus.WithField("error", err).Warn("failed to record publication")
		}
	}

	logrus.WithFields(logrus.Fields{
		"tenant":   sess.TenantID,
		"filename": newsletter.Filename,
		"articles": len(newsletter.Articles),
	}).Info("newsletter published")
	return newsletter, nil
}

// Newsletters lists the tenant's published documents. Requires the view
// capability.
func (s *Service) Newsletters(sess *Session) ([]DocumentInfo, error) {
	if err := s.requirePermission(sess, "view"); err != nil {
		return nil, err
	}
	return s.store.ListDocuments(sess.TenantID)
}

func (s *Service) requirePermission(sess *Session, capability string) error {
	ok, err := s.resolver.HasPermission(sess.Email, sess.TenantID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s requires %s", ErrPermissionDenied, sess.Email, capability)
	}
	return nil
}

package newspilot

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Session token header expected on authenticated routes.
const sessionHeader = "X-Session-Token"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newspilot_http_requests_total",
		Help: "HTTP requests by path and status.",
	}, []string{"path", "status"})

	discoveriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newspilot_discovery_runs_total",
		Help: "Completed discovery runs.",
	})

	publicationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newspilot_publications_total",
		Help: "Published newsletters.",
	})
)

// APIServer exposes the core operations over HTTP for the UI collaborator.
// Each authenticated caller gets a server-side Session keyed by an opaque
// token; session state never leaks across callers.
type APIServer struct {
	service *Service
	manager *CustomerManager

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewAPIServer creates an API server over the given service.
func NewAPIServer(service *Service) *APIServer {
	return &APIServer{
		service:  service,
		manager:  NewCustomerManager(service.Store()),
		sessions: make(map[string]*Session),
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "OK")
	})

	api := router.Group("/api/v1")
	api.POST("/auth/login", s.HandleLogin)

	authed := api.Group("")
	authed.Use(s.requireSession())
	authed.GET("/tenants", s.HandleListTenants)
	authed.POST("/session/tenant", s.HandleSwitchTenant)
	authed.POST("/discover", s.HandleDiscover)
	authed.GET("/articles", s.HandleListArticles)
	authed.GET("/selection", s.HandleGetSelection)
	authed.POST("/selection/toggle", s.HandleToggleSelection)
	authed.POST("/selection/select-all", s.HandleSelectAll)
	authed.POST("/selection/clear", s.HandleClearSelection)
	authed.POST("/publish", s.HandlePublish)
	authed.GET("/newsletters", s.HandleListNewsletters)
	authed.GET("/config/keywords", s.HandleGetKeywords)
	authed.PUT("/config/keywords", s.HandlePutKeywords)
	authed.GET("/config/feeds", s.HandleGetFeeds)
	authed.PUT("/config/feeds", s.HandlePutFeeds)
	authed.GET("/config/branding", s.HandleGetBranding)

	return router
}

// requestLogger logs each request with its duration and counts it.
func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		requestsTotal.WithLabelValues(ctx.FullPath(), http.StatusText(status)).Inc()
		logrus.WithFields(logrus.Fields{
			"method":   ctx.Request.Method,
			"path":     ctx.Request.URL.Path,
			"status":   status,
			"duration": time.Since(start).String(),
		}).Info("request completed")
	}
}

func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// writeError maps core errors onto HTTP statuses with a specific,
// user-visible reason.
func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, errorResponse("invalid_credentials", err.Error()))
	case errors.Is(err, ErrAccountInactive):
		ctx.JSON(http.StatusForbidden, errorResponse("account_inactive", err.Error()))
	case errors.Is(err, ErrAccountExpired):
		ctx.JSON(http.StatusForbidden, errorResponse("account_expired", err.Error()))
	case errors.Is(err, ErrPermissionDenied):
		ctx.JSON(http.StatusForbidden, errorResponse("permission_denied", err.Error()))
	case errors.Is(err, ErrNothingSelected):
		ctx.JSON(http.StatusBadRequest, errorResponse("nothing_selected", err.Error()))
	case errors.Is(err, ErrTenantExists):
		ctx.JSON(http.StatusConflict, errorResponse("tenant_exists", err.Error()))
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrUserNotFound):
		ctx.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", err.Error()))
	}
}

// requireSession resolves the session token header into the caller's
// Session.
func (s *APIServer) requireSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader(sessionHeader)
		s.mu.Lock()
		sess, ok := s.sessions[token]
		s.mu.Unlock()
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("session_invalid", "Missing or expired session token"))
			return
		}
		ctx.Set("session", sess)
		ctx.Next()
	}
}

func (s *APIServer) session(ctx *gin.Context) *Session {
	return ctx.MustGet("session").(*Session)
}

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the caller's tenant
// memberships.
type LoginResponse struct {
	Token   string         `json:"token"`
	Tenants []TenantAccess `json:"tenants"`
}

// HandleLogin authenticates and opens a session on the user's first tenant.
func (s *APIServer) HandleLogin(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", "email and password are required"))
		return
	}

	tenants, err := s.service.Login(req.Email, req.Password)
	if err != nil {
		writeError(ctx, err)
		return
	}

	tenantID := ""
	if len(tenants) > 0 {
		tenantID = tenants[0].TenantID
	}
	sess := NewSession(req.Email, tenantID)

	s.mu.Lock()
	s.sessions[sess.ID.String()] = sess
	s.mu.Unlock()

	ctx.JSON(http.StatusOK, LoginResponse{Token: sess.ID.String(), Tenants: tenants})
}

// HandleListTenants returns the caller's tenant memberships.
func (s *APIServer) HandleListTenants(ctx *gin.Context) {
	tenants, err := s.service.Resolver().ResolveUserTenants(s.session(ctx).Email)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"tenants": tenants})
}

// HandleSwitchTenant changes the session's current tenant. Switching resets
// the article pool and selection.
func (s *APIServer) HandleSwitchTenant(ctx *gin.Context) {
	var req struct {
		TenantID string `json:"tenant_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", "tenant_id is required"))
		return
	}

	sess := s.session(ctx)
	ok, err := s.service.Resolver().HasPermission(sess.Email, req.TenantID, "view")
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !ok {
		ctx.JSON(http.StatusForbidden, errorResponse("permission_denied", "no access to this tenant"))
		return
	}

	sess.TenantID = req.TenantID
	sess.SetArticles(nil)
	ctx.JSON(http.StatusOK, gin.H{"tenant_id": req.TenantID})
}

// HandleDiscover runs one discovery pass for the session's tenant.
func (s *APIServer) HandleDiscover(ctx *gin.Context) {
	var req struct {
		Period string `json:"period"`
	}
	_ = ctx.ShouldBindJSON(&req)

	articles, err := s.service.Discover(ctx.Request.Context(), s.session(ctx), req.Period, nil)
	if err != nil {
		writeError(ctx, err)
		return
	}

	discoveriesTotal.Inc()
	ctx.JSON(http.StatusOK, gin.H{"articles": articles, "total": len(articles)})
}

// HandleListArticles returns the session's article pool, optionally
// filtered by source, provenance and category.
func (s *APIServer) HandleListArticles(ctx *gin.Context) {
	sess := s.session(ctx)
	articles := FilterArticles(
		sess.Articles(),
		ctx.Query("source"),
		ctx.Query("found_via"),
		ctx.Query("category"),
	)
	ctx.JSON(http.StatusOK, gin.H{"articles": articles, "total": len(articles)})
}

// HandleGetSelection returns the selected article ids.
func (s *APIServer) HandleGetSelection(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"selected": s.session(ctx).Selected()})
}

// HandleToggleSelection adds or removes one article from the selection.
func (s *APIServer) HandleToggleSelection(ctx *gin.Context) {
	var req struct {
		ArticleID string `json:"article_id" binding:"required"`
		Included  *bool  `json:"included" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", "article_id and included are required"))
		return
	}

	sess := s.session(ctx)
	sess.Toggle(req.ArticleID, *req.Included)
	ctx.JSON(http.StatusOK, gin.H{"selected": sess.Selected()})
}

// HandleSelectAll adds every listed id to the selection (additive union).
func (s *APIServer) HandleSelectAll(ctx *gin.Context) {
	var req struct {
		ArticleIDs []string `json:"article_ids" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", "article_ids is required"))
		return
	}

	sess := s.session(ctx)
	sess.SelectAllVisible(req.ArticleIDs)
	ctx.JSON(http.StatusOK, gin.H{"selected": sess.Selected()})
}

// HandleClearSelection empties the selection set.
func (s *APIServer) HandleClearSelection(ctx *gin.Context) {
	sess := s.session(ctx)
	sess.ClearSelection()
	ctx.JSON(http.StatusOK, gin.H{"selected": sess.Selected()})
}

// HandlePublish assembles and saves the newsletter from the current
// selection.
func (s *APIServer) HandlePublish(ctx *gin.Context) {
	newsletter, err := s.service.Publish(s.session(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	publicationsTotal.Inc()
	ctx.JSON(http.StatusOK, gin.H{
		"filename": newsletter.Filename,
		"title":    newsletter.Title,
		"articles": len(newsletter.Articles),
	})
}

// HandleListNewsletters lists the tenant's published documents.
func (s *APIServer) HandleListNewsletters(ctx *gin.Context) {
	docs, err := s.service.Newsletters(s.session(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"newsletters": docs})
}

// HandleGetKeywords returns the tenant's keyword set.
func (s *APIServer) HandleGetKeywords(ctx *gin.Context) {
	keywords, err := s.service.Keywords(s.session(ctx).TenantID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

// HandlePutKeywords replaces the tenant's keyword set.
func (s *APIServer) HandlePutKeywords(ctx *gin.Context) {
	var req struct {
		Keywords []string `json:"keywords"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", "keywords is required"))
		return
	}

	if err := s.service.SaveKeywords(s.session(ctx), req.Keywords); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"keywords": req.Keywords})
}

// HandleGetFeeds returns the tenant's feed set.
func (s *APIServer) HandleGetFeeds(ctx *gin.Context) {
	feeds, err := s.service.Feeds(s.session(ctx).TenantID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"feeds": feeds})
}

// HandlePutFeeds replaces the tenant's feed set.
func (s *APIServer) HandlePutFeeds(ctx *gin.Context) {
	var req struct {
		Feeds []Feed `json:"feeds"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", "feeds is required"))
		return
	}

	if err := s.service.SaveFeeds(s.session(ctx), req.Feeds); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"feeds": req.Feeds})
}

// HandleGetBranding returns the tenant's branding record.
func (s *APIServer) HandleGetBranding(ctx *gin.Context) {
	branding, err := s.service.Branding(s.session(ctx).TenantID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, branding)
}

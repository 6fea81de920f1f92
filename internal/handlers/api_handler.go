package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/daterange"
	"trainer_dashboard/internal/logger"
	"trainer_dashboard/internal/middleware"
	"trainer_dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

type access int

const (
	accessPublic access = iota
	accessUser
	accessAdmin
)

// actionFunc handles one decoded action. A nil payload with a nil error means
// the response was already written.
type actionFunc func(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error)

type action struct {
	access access
	handle actionFunc
}

// actionTable is the closed set of actions one endpoint accepts.
type actionTable map[string]action

type envelope struct {
	Action string `json:"action"`
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Auth          services.AuthService
	Tasks         services.TaskService
	Users         services.UserService
	Aggregates    services.AggregationService
	TaskTypes     services.TaskTypeService
	Announcements services.AnnouncementService
	Queries       services.QueryService
	Audit         services.AuditService
	Export        services.ExportService
}

type APIHandler struct {
	svc      Services
	store    Pinger
	logger   logger.Interface
	location *time.Location
	now      func() time.Time
}

func NewAPIHandler(svc Services, store Pinger, log logger.Interface, location *time.Location) *APIHandler {
	return &APIHandler{
		svc:      svc,
		store:    store,
		logger:   log,
		location: location,
		now:      time.Now,
	}
}

// Register mounts every endpoint on r.
func (h *APIHandler) Register(r *gin.Engine, verifier middleware.TokenVerifier) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.Use(middleware.ClientContext())

	api.POST("/auth", middleware.OptionalAuthenticate(verifier), h.dispatch("auth", h.authActions()))

	protected := api.Group("")
	protected.Use(middleware.Authenticate(verifier))
	{
		protected.POST("/tasks", h.dispatch("tasks", h.taskActions()))
		protected.POST("/users", h.dispatch("users", h.userActions()))
		protected.POST("/admin", h.dispatch("admin", h.adminActions()))
		protected.POST("/reports", h.dispatch("reports", h.reportActions()))
		protected.POST("/task-types", h.dispatch("task-types", h.taskTypeActions()))
		protected.POST("/announcements", h.dispatch("announcements", h.announcementActions()))
		protected.POST("/export", h.dispatch("export", h.exportActions()))
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *APIHandler) dispatch(area string, table actionTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			h.respondError(c, area, apperr.Validation("Invalid request format"))
			return
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			h.respondError(c, area, apperr.Validation("Invalid request format"))
			return
		}

		act, ok := table[env.Action]
		if !ok {
			h.respondError(c, area, apperr.Validation("Invalid action"))
			return
		}

		user, authenticated := middleware.CurrentUser(c)
		switch act.access {
		case accessUser:
			if !authenticated {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized: Invalid or missing token"})
				return
			}
		case accessAdmin:
			if !authenticated {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized: Invalid or missing token"})
				return
			}
			if !user.IsAdmin() {
				h.respondError(c, area, apperr.Authorization("Unauthorized: Admin access required"))
				return
			}
		}

		payload, err := act.handle(c, user, body)
		if err != nil {
			h.respondError(c, area, err)
			return
		}
		if payload == nil {
			return
		}
		payload["success"] = true
		c.JSON(http.StatusOK, payload)
	}
}

// decode reads the action-specific fields of the request body into req.
func decode(body []byte, req interface{}) error {
	if err := json.Unmarshal(body, req); err != nil {
		return apperr.Validation("Invalid request format")
	}
	return nil
}

func (h *APIHandler) respondError(c *gin.Context, area string, err error) {
	kind := apperr.KindOf(err)
	message := apperr.Message(err)
	if kind == apperr.KindStore {
		h.logger.Error(area+" API error (request "+middleware.GetRequestID(c)+")", err)
		message = "Internal server error"
	}
	c.JSON(statusFor(kind), gin.H{"success": false, "error": message})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// callerNow is the current time in the caller's zone: the request's UTC
// offset when sent, the configured zone otherwise.
func (h *APIHandler) callerNow(offsetMinutes *int) time.Time {
	return daterange.In(h.now(), offsetMinutes, h.location)
}

// targetUser resolves whose data a request reads. Non-admins may only read themselves.
func targetUser(user *auth.Claims, requested *uint) (uint, error) {
	if requested == nil || *requested == 0 {
		return user.UserID, nil
	}
	if *requested != user.UserID && !user.IsAdmin() {
		return 0, apperr.Authorization("Unauthorized")
	}
	return *requested, nil
}

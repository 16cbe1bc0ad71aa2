package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"completions-tracker/internal/database"
	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"
	"completions-tracker/internal/spreadsheet"
	"completions-tracker/internal/tracking"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// serviceError answers with the status matching a tracking sentinel.
// notFound is the message for a missing row; anything unexpected is logged
// and reported with internal.
func serviceError(c *gin.Context, err error, notFound, internal string) {
	switch {
	case errors.Is(err, tracking.ErrNotFound):
		fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, tracking.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "detail": err.Error()})
	default:
		logger.Error(internal, "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, internal)
	}
}

func dbError(c *gin.Context, err error, msg string) {
	logger.Error(msg, "path", c.FullPath(), "error", err)
	fail(c, http.StatusInternalServerError, msg)
}

func service() *tracking.Service {
	return tracking.New(database.DB)
}

// store binds the shared connection to the request so a dropped client
// cancels its queries.
func store(c *gin.Context) *gorm.DB {
	return database.DB.WithContext(c.Request.Context())
}

// audit appends to the action trail. A failed write is logged and does not
// fail the request that already succeeded.
func audit(c *gin.Context, entity string, entityID uint, action models.LogAction, details string) {
	if err := database.CreateAuditLog(store(c), currentUserID(c), entity, entityID, action, details); err != nil {
		logger.Warn("failed to write action log", "entity", entity, "entity_id", entityID, "action", action, "error", err)
	}
}

func currentUserID(c *gin.Context) uint {
	uid, _ := sessions.Default(c).Get("user_id").(uint)
	return uid
}

// idParam reads a positive numeric path parameter and answers 400 when it
// is not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric filter. Absent means 0.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Filtro "+name+" inválido")
		return 0, false
	}
	return uint(id), true
}

func parseDate(c *gin.Context, raw, field string) (*time.Time, bool) {
	t, err := spreadsheet.ParseDate(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, "Fecha inválida en "+field)
		return nil, false
	}
	return t, true
}

func validPercent(n int) bool {
	return n >= 0 && n <= 100
}

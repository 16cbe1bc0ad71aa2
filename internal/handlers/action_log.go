package handlers

import (
	"net/http"
	"strings"

	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

// ListActionLogs returns the latest 200 audit entries, newest first.
// Optional filters: tag_id, entity, entity_id.
func ListActionLogs(c *gin.Context) {
	tagID, ok := queryID(c, "tag_id")
	if !ok {
		return
	}
	entityID, ok := queryID(c, "entity_id")
	if !ok {
		return
	}

	q := store(c).Preload("User").Order("created_at desc, id desc").Limit(200)
	if tagID != 0 {
		q = q.Where("tag_id = ?", tagID)
	}
	if entity := strings.TrimSpace(c.Query("entity")); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if entityID != 0 {
		q = q.Where("entity_id = ?", entityID)
	}

	var logs []models.ActionLog
	if err := q.Find(&logs).Error; err != nil {
		dbError(c, err, "Error al cargar el historial")
		return
	}
	c.JSON(http.StatusOK, logs)
}

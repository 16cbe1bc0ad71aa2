package handlers

import (
	"net/http"
	"strings"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

type subsystemInput struct {
	SystemID       uint   `json:"system_id"`
	Name           string `json:"name"`
	CompletionRate int    `json:"completion_rate"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

func (in subsystemInput) apply(c *gin.Context, s *models.Subsystem) bool {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fail(c, http.StatusBadRequest, "El nombre del subsistema es obligatorio")
		return false
	}
	if !validPercent(in.CompletionRate) {
		fail(c, http.StatusBadRequest, "La tasa de completitud debe estar entre 0 y 100")
		return false
	}

	var system models.System
	if err := store(c).Select("id").First(&system, in.SystemID).Error; err != nil {
		fail(c, http.StatusBadRequest, "Sistema no encontrado")
		return false
	}

	start, ok := parseDate(c, in.StartDate, "start_date")
	if !ok {
		return false
	}
	end, ok := parseDate(c, in.EndDate, "end_date")
	if !ok {
		return false
	}

	s.SystemID = system.ID
	s.Name = name
	s.CompletionRate = in.CompletionRate
	s.StartDate = start
	s.EndDate = end
	return true
}

func ListSubsystems(c *gin.Context) {
	systemID, ok := queryID(c, "system_id")
	if !ok {
		return
	}

	q := store(c).Order("name asc")
	if systemID != 0 {
		q = q.Where("system_id = ?", systemID)
	}

	var subsystems []models.Subsystem
	if err := q.Find(&subsystems).Error; err != nil {
		dbError(c, err, "Error al cargar subsistemas")
		return
	}
	c.JSON(http.StatusOK, subsystems)
}

func GetSubsystem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var sub models.Subsystem
	if err := store(c).Preload("ITRs").First(&sub, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Subsistema no encontrado")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func CreateSubsystem(c *gin.Context) {
	var in subsystemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	var sub models.Subsystem
	if !in.apply(c, &sub) {
		return
	}
	if err := store(c).Create(&sub).Error; err != nil {
		dbError(c, err, "Error al guardar el subsistema")
		return
	}
	audit(c, models.EntitySubsystem, sub.ID, models.ActionCreated, "Creado subsistema: "+sub.Name)
	c.JSON(http.StatusCreated, sub)
}

func UpdateSubsystem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var sub models.Subsystem
	if err := store(c).First(&sub, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Subsistema no encontrado")
		return
	}

	in := subsystemInput{SystemID: sub.SystemID}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if !in.apply(c, &sub) {
		return
	}
	if err := store(c).Save(&sub).Error; err != nil {
		dbError(c, err, "Error al guardar el subsistema")
		return
	}
	audit(c, models.EntitySubsystem, sub.ID, models.ActionUpdated, "Actualizado subsistema: "+sub.Name)
	c.JSON(http.StatusOK, sub)
}

func DeleteSubsystem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := store(c).Delete(&models.Subsystem{}, id)
	if res.Error != nil {
		dbError(c, res.Error, "Error al eliminar el subsistema")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Subsistema no encontrado")
		return
	}

	audit(c, models.EntitySubsystem, id, models.ActionDeleted, "")
	logger.Info("subsystem deleted", "subsystem_id", id, "user_id", currentUserID(c))
	c.Status(http.StatusNoContent)
}

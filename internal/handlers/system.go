package handlers

import (
	"net/http"
	"strings"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

type systemInput struct {
	ProjectID      uint   `json:"project_id"`
	Name           string `json:"name"`
	CompletionRate int    `json:"completion_rate"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

func (in systemInput) apply(c *gin.Context, s *models.System) bool {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fail(c, http.StatusBadRequest, "El nombre del sistema es obligatorio")
		return false
	}
	if !validPercent(in.CompletionRate) {
		fail(c, http.StatusBadRequest, "La tasa de completitud debe estar entre 0 y 100")
		return false
	}

	var project models.Project
	if err := store(c).Select("id").First(&project, in.ProjectID).Error; err != nil {
		fail(c, http.StatusBadRequest, "Proyecto no encontrado")
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

	s.ProjectID = project.ID
	s.Name = name
	s.CompletionRate = in.CompletionRate
	s.StartDate = start
	s.EndDate = end
	return true
}

func ListSystems(c *gin.Context) {
	projectID, ok := queryID(c, "project_id")
	if !ok {
		return
	}

	q := store(c).Order("name asc")
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}

	var systems []models.System
	if err := q.Find(&systems).Error; err != nil {
		dbError(c, err, "Error al cargar sistemas")
		return
	}
	c.JSON(http.StatusOK, systems)
}

func GetSystem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var system models.System
	if err := store(c).Preload("Subsystems").First(&system, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Sistema no encontrado")
		return
	}
	c.JSON(http.StatusOK, system)
}

func CreateSystem(c *gin.Context) {
	var in systemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	var system models.System
	if !in.apply(c, &system) {
		return
	}
	if err := store(c).Create(&system).Error; err != nil {
		dbError(c, err, "Error al guardar el sistema")
		return
	}
	audit(c, models.EntitySystem, system.ID, models.ActionCreated, "Creado sistema: "+system.Name)
	c.JSON(http.StatusCreated, system)
}

func UpdateSystem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var system models.System
	if err := store(c).First(&system, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Sistema no encontrado")
		return
	}

	in := systemInput{ProjectID: system.ProjectID}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if !in.apply(c, &system) {
		return
	}
	if err := store(c).Save(&system).Error; err != nil {
		dbError(c, err, "Error al guardar el sistema")
		return
	}
	audit(c, models.EntitySystem, system.ID, models.ActionUpdated, "Actualizado sistema: "+system.Name)
	c.JSON(http.StatusOK, system)
}

func DeleteSystem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := store(c).Delete(&models.System{}, id)
	if res.Error != nil {
		dbError(c, res.Error, "Error al eliminar el sistema")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Sistema no encontrado")
		return
	}

	audit(c, models.EntitySystem, id, models.ActionDeleted, "")
	logger.Info("system deleted", "system_id", id, "user_id", currentUserID(c))
	c.Status(http.StatusNoContent)
}

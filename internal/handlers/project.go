package handlers

import (
	"net/http"
	"strings"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

//
// PROJECTS
//

type projectInput struct {
	Name      string        `json:"name"`
	Location  string        `json:"location"`
	Status    models.Status `json:"status"`
	Progress  int           `json:"progress"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
}

// apply validates the input onto p, answering 400 itself on failure.
func (in projectInput) apply(c *gin.Context, p *models.Project) bool {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fail(c, http.StatusBadRequest, "El nombre del proyecto es obligatorio")
		return false
	}
	status := in.Status
	if status == "" {
		status = models.StatusInProgress
	}
	if !models.ValidStatus(status) {
		fail(c, http.StatusBadRequest, "Estado inválido")
		return false
	}
	if !validPercent(in.Progress) {
		fail(c, http.StatusBadRequest, "El avance debe estar entre 0 y 100")
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

	p.Name = name
	p.Location = strings.TrimSpace(in.Location)
	p.Status = status
	p.Progress = in.Progress
	p.StartDate = start
	p.EndDate = end
	return true
}

func ListProjects(c *gin.Context) {
	q := store(c).Order("name asc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		dbError(c, err, "Error al cargar proyectos")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func GetProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := store(c).Preload("Systems").First(&project, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Proyecto no encontrado")
		return
	}
	c.JSON(http.StatusOK, project)
}

func CreateProject(c *gin.Context) {
	var in projectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	var project models.Project
	if !in.apply(c, &project) {
		return
	}
	if err := store(c).Create(&project).Error; err != nil {
		dbError(c, err, "Error al guardar el proyecto")
		return
	}

	audit(c, models.EntityProject, project.ID, models.ActionCreated, "Creado proyecto: "+project.Name)
	logger.Info("project created", "project_id", project.ID, "user_id", currentUserID(c))
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var project models.Project
	if err := store(c).First(&project, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Proyecto no encontrado")
		return
	}

	var in projectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if !in.apply(c, &project) {
		return
	}
	if err := store(c).Save(&project).Error; err != nil {
		dbError(c, err, "Error al guardar el proyecto")
		return
	}

	audit(c, models.EntityProject, project.ID, models.ActionUpdated, "Proyecto actualizado: "+project.Name)
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes the project; systems, subsystems and ITRs go with
// it through the foreign keys.
func DeleteProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := store(c).Delete(&models.Project{}, id)
	if res.Error != nil {
		dbError(c, res.Error, "Error al eliminar el proyecto")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Proyecto no encontrado")
		return
	}

	audit(c, models.EntityProject, id, models.ActionDeleted, "")
	logger.Info("project deleted", "project_id", id, "user_id", currentUserID(c))
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

type itrInput struct {
	SubsystemID uint          `json:"subsystem_id"`
	Name        string        `json:"name"`
	Status      models.Status `json:"status"`
	Progress    int           `json:"progress"`
	AssignedTo  string        `json:"assigned_to"`
	Quantity    *int          `json:"quantity"`
	StartDate   string        `json:"start_date"`
	DueDate     string        `json:"due_date"`
}

func (in itrInput) apply(c *gin.Context, it *models.ITR) bool {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fail(c, http.StatusBadRequest, "El nombre del ITR es obligatorio")
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
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 0 {
		fail(c, http.StatusBadRequest, "La cantidad no puede ser negativa")
		return false
	}

	var sub models.Subsystem
	if err := store(c).Select("id").First(&sub, in.SubsystemID).Error; err != nil {
		fail(c, http.StatusBadRequest, "Subsistema no encontrado")
		return false
	}

	start, ok := parseDate(c, in.StartDate, "start_date")
	if !ok {
		return false
	}
	due, ok := parseDate(c, in.DueDate, "due_date")
	if !ok {
		return false
	}

	it.SubsystemID = sub.ID
	it.Name = name
	it.Status = status
	it.Progress = in.Progress
	it.AssignedTo = strings.TrimSpace(in.AssignedTo)
	it.Quantity = quantity
	it.StartDate = start
	it.DueDate = due
	return true
}

func ListITRs(c *gin.Context) {
	subsystemID, ok := queryID(c, "subsystem_id")
	if !ok {
		return
	}

	q := store(c).Order("name asc, id asc")
	if subsystemID != 0 {
		q = q.Where("subsystem_id = ?", subsystemID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var itrs []models.ITR
	if err := q.Find(&itrs).Error; err != nil {
		dbError(c, err, "Error al cargar ITRs")
		return
	}
	c.JSON(http.StatusOK, itrs)
}

func GetITR(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var itr models.ITR
	if err := store(c).First(&itr, id).Error; err != nil {
		fail(c, http.StatusNotFound, "ITR no encontrado")
		return
	}
	c.JSON(http.StatusOK, itr)
}

func CreateITR(c *gin.Context) {
	var in itrInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	var itr models.ITR
	if !in.apply(c, &itr) {
		return
	}
	if err := store(c).Create(&itr).Error; err != nil {
		dbError(c, err, "Error al guardar el ITR")
		return
	}
	audit(c, models.EntityITR, itr.ID, models.ActionCreated, "Creado ITR: "+itr.Name)
	c.JSON(http.StatusCreated, itr)
}

func UpdateITR(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var itr models.ITR
	if err := store(c).First(&itr, id).Error; err != nil {
		fail(c, http.StatusNotFound, "ITR no encontrado")
		return
	}

	quantity := itr.Quantity
	in := itrInput{SubsystemID: itr.SubsystemID, Quantity: &quantity}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if !in.apply(c, &itr) {
		return
	}
	if err := store(c).Save(&itr).Error; err != nil {
		dbError(c, err, "Error al guardar el ITR")
		return
	}
	audit(c, models.EntityITR, itr.ID, models.ActionUpdated, "Actualizado ITR: "+itr.Name)
	c.JSON(http.StatusOK, itr)
}

// DeleteITR drops the ITR; packs pointing at it keep their rows with the
// association cleared.
func DeleteITR(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := store(c).Delete(&models.ITR{}, id)
	if res.Error != nil {
		dbError(c, res.Error, "Error al eliminar el ITR")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "ITR no encontrado")
		return
	}

	audit(c, models.EntityITR, id, models.ActionDeleted, "")
	logger.Info("ITR deleted", "itr_id", id, "user_id", currentUserID(c))
	c.Status(http.StatusNoContent)
}

type cloneForm struct {
	SubsystemIDs []uint `json:"subsystem_ids"`
}

func CloneITR(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var form cloneForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	res, err := service().CloneITR(c.Request.Context(), id, form.SubsystemIDs)
	if err != nil {
		serviceError(c, err, "ITR no encontrado", "Error al clonar el ITR")
		return
	}
	for _, clone := range res.Created {
		audit(c, models.EntityITR, clone.ID, models.ActionCloned, fmt.Sprintf("Clonado desde ITR %d", id))
	}
	c.JSON(http.StatusCreated, res)
}

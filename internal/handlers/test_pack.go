package handlers

import (
	"net/http"

	"completions-tracker/internal/models"
	"completions-tracker/internal/tracking"

	"github.com/gin-gonic/gin"
)

type testPackForm struct {
	Sistema     string               `json:"sistema"`
	Subsistema  string               `json:"subsistema"`
	Nombre      string               `json:"nombre"`
	ITRAsociado *uint                `json:"itr_asociado"`
	Estado      models.TestPackState `json:"estado"`
}

func (f testPackForm) input() tracking.TestPackInput {
	return tracking.TestPackInput{
		Sistema:    f.Sistema,
		Subsistema: f.Subsistema,
		Nombre:     f.Nombre,
		ITRID:      f.ITRAsociado,
		Estado:     f.Estado,
	}
}

// ListTestPacks answers every pack with its tags and derived progress.
func ListTestPacks(c *gin.Context) {
	itrID, ok := queryID(c, "itr_id")
	if !ok {
		return
	}

	packs, err := service().ListTestPacks(c.Request.Context(), tracking.TestPackFilter{
		ITRID:   itrID,
		Sistema: c.Query("sistema"),
		Estado:  models.TestPackState(c.Query("estado")),
	})
	if err != nil {
		serviceError(c, err, "", "Error al cargar test packs")
		return
	}
	c.JSON(http.StatusOK, packs)
}

func GetTestPack(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	pack, err := service().GetTestPack(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err, "Test pack no encontrado", "Error al cargar el test pack")
		return
	}
	c.JSON(http.StatusOK, pack)
}

func CreateTestPack(c *gin.Context) {
	var form testPackForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	pack, err := service().CreateTestPack(c.Request.Context(), form.input())
	if err != nil {
		serviceError(c, err, "ITR asociado no encontrado", "Error al guardar el test pack")
		return
	}
	audit(c, models.EntityTestPack, pack.ID, models.ActionCreated, "Creado test pack: "+pack.Nombre)
	c.JSON(http.StatusCreated, pack)
}

func UpdateTestPack(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var form testPackForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	pack, err := service().UpdateTestPack(c.Request.Context(), id, form.input())
	if err != nil {
		serviceError(c, err, "Test pack o ITR no encontrado", "Error al guardar el test pack")
		return
	}
	audit(c, models.EntityTestPack, pack.ID, models.ActionUpdated, "Test pack actualizado: "+pack.Nombre)
	c.JSON(http.StatusOK, pack)
}

// DeleteTestPack removes the pack and its tags in one transaction.
func DeleteTestPack(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := service().DeleteTestPack(c.Request.Context(), id); err != nil {
		serviceError(c, err, "Test pack no encontrado", "Error al eliminar el test pack")
		return
	}
	audit(c, models.EntityTestPack, id, models.ActionDeleted, "")
	c.Status(http.StatusNoContent)
}

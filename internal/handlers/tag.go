package handlers

import (
	"net/http"

	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func ListTags(c *gin.Context) {
	packID, ok := queryID(c, "test_pack_id")
	if !ok {
		return
	}

	q := store(c).Order("id asc")
	if packID != 0 {
		q = q.Where("test_pack_id = ?", packID)
	}
	if estado := c.Query("estado"); estado != "" {
		q = q.Where("estado = ?", estado)
	}

	var tags []models.Tag
	if err := q.Find(&tags).Error; err != nil {
		dbError(c, err, "Error al cargar tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

type tagForm struct {
	TestPackID uint   `json:"test_pack_id"`
	TagName    string `json:"tag_name"`
}

func CreateTag(c *gin.Context) {
	var form tagForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	tag, err := service().CreateTag(c.Request.Context(), currentUserID(c), form.TestPackID, form.TagName)
	if err != nil {
		serviceError(c, err, "Test pack no encontrado", "Error al crear el tag")
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func RenameTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var form tagForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	tag, err := service().RenameTag(c.Request.Context(), currentUserID(c), id, form.TagName)
	if err != nil {
		serviceError(c, err, "Tag no encontrado", "Error al actualizar el tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

type tagStateForm struct {
	Estado models.TagState `json:"estado"`
}

// SetTagState releases or reverts a tag and reports what the cascade
// promoted along the way.
func SetTagState(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var form tagStateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}

	upd, err := service().SetTagState(c.Request.Context(), currentUserID(c), id, form.Estado)
	if err != nil {
		serviceError(c, err, "Tag no encontrado", "Error al actualizar el estado del tag")
		return
	}
	c.JSON(http.StatusOK, upd)
}

func DeleteTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	cascade, err := service().DeleteTag(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		serviceError(c, err, "Tag no encontrado", "Error al eliminar el tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cascade": cascade})
}

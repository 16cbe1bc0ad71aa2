package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func TestPackStats(c *gin.Context) {
	stats, err := service().TestPackStats(c.Request.Context())
	if err != nil {
		serviceError(c, err, "", "Error al calcular estadísticas")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func Overview(c *gin.Context) {
	ov, err := service().Overview(c.Request.Context())
	if err != nil {
		serviceError(c, err, "", "Error al calcular el resumen")
		return
	}
	c.JSON(http.StatusOK, ov)
}

func ProjectProgress(c *gin.Context) {
	rows, err := service().ProjectProgress(c.Request.Context())
	if err != nil {
		serviceError(c, err, "", "Error al calcular el avance de proyectos")
		return
	}
	c.JSON(http.StatusOK, rows)
}

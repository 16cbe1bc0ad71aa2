package handlers

import (
	"bytes"
	"time"

	"completions-tracker/internal/report"

	"github.com/gin-gonic/gin"
)

func ProjectsReport(c *gin.Context) {
	rows, err := service().ProjectProgress(c.Request.Context())
	if err != nil {
		serviceError(c, err, "", "Error al generar el reporte")
		return
	}

	var buf bytes.Buffer
	if err := report.ProjectStatusPDF(&buf, rows, time.Now()); err != nil {
		dbError(c, err, "Error al generar el reporte")
		return
	}
	sendFile(c, "application/pdf", "reporte-proyectos.pdf", buf.Bytes())
}

package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"completions-tracker/internal/spreadsheet"
	"completions-tracker/internal/tracking"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func sendFile(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}

func ExportTestPacks(c *gin.Context) {
	packs, err := service().ListTestPacks(c.Request.Context(), tracking.TestPackFilter{})
	if err != nil {
		serviceError(c, err, "", "Error al exportar test packs")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteTestPacks(&buf, packs); err != nil {
		dbError(c, err, "Error al generar el archivo")
		return
	}
	sendFile(c, xlsxContentType, "test-packs.xlsx", buf.Bytes())
}

func ExportITRs(c *gin.Context) {
	subsystemID, ok := queryID(c, "subsystem_id")
	if !ok {
		return
	}

	itrs, names, err := service().ITRSheet(c.Request.Context(), subsystemID)
	if err != nil {
		serviceError(c, err, "", "Error al exportar ITRs")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteITRs(&buf, itrs, names); err != nil {
		dbError(c, err, "Error al generar el archivo")
		return
	}
	sendFile(c, xlsxContentType, "itrs.xlsx", buf.Bytes())
}

// Template serves an empty import workbook for the entity.
func Template(c *gin.Context) {
	entity := c.Param("entity")
	if _, ok := spreadsheet.Columns(entity); !ok {
		fail(c, http.StatusNotFound, "Entidad desconocida")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf, entity); err != nil {
		dbError(c, err, "Error al generar la plantilla")
		return
	}
	sendFile(c, xlsxContentType, "plantilla-"+entity+".xlsx", buf.Bytes())
}

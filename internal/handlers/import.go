package handlers

import (
	"net/http"
	"strconv"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/spreadsheet"
	"completions-tracker/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// maxImportSize caps uploaded spreadsheets.
const maxImportSize = 10 << 20

// Import returns the upload handler for one entity. The whole file is
// parsed before anything is written; a parse error rejects it.
func Import(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			fail(c, http.StatusBadRequest, "Debe adjuntar un archivo")
			return
		}
		if fh.Size > maxImportSize {
			fail(c, http.StatusRequestEntityTooLarge, "El archivo supera el tamaño máximo de 10 MB")
			return
		}

		f, err := fh.Open()
		if err != nil {
			dbError(c, err, "No se pudo leer el archivo")
			return
		}
		defer f.Close()

		rows, err := spreadsheet.Parse(fh.Filename, f)
		if err != nil {
			if errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
				fail(c, http.StatusBadRequest, "Formato no soportado, use .xlsx o .csv")
				return
			}
			logger.Warn("import parse failed", "entity", entity, "file", fh.Filename, "error", err)
			fail(c, http.StatusBadRequest, "No se pudo leer el archivo")
			return
		}

		ctx := c.Request.Context()
		svc := service()
		var res *tracking.ImportResult

		switch entity {
		case spreadsheet.EntityTags:
			packID, ok := formID(c, "test_pack_id")
			if !ok || packID == 0 {
				fail(c, http.StatusBadRequest, "Debe indicar test_pack_id")
				return
			}
			res, err = svc.ImportTags(ctx, currentUserID(c), packID, rows)
		case spreadsheet.EntityTestPacks:
			res, err = svc.ImportTestPacks(ctx, rows)
		case spreadsheet.EntityITRs:
			subID, ok := formID(c, "subsystem_id")
			if !ok {
				fail(c, http.StatusBadRequest, "subsystem_id inválido")
				return
			}
			res, err = svc.ImportITRs(ctx, subID, rows)
		default:
			fail(c, http.StatusNotFound, "Entidad desconocida")
			return
		}

		if err != nil {
			if errors.Is(err, tracking.ErrNotFound) {
				fail(c, http.StatusNotFound, "Test pack no encontrado")
				return
			}
			// rows written before the failure stay; report them
			logger.Error("import stopped", "entity", entity, "batch_id", res.BatchID, "created", res.Created, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "La importación se detuvo por un error", "result": res})
			return
		}

		logger.Info("import finished", "entity", entity, "batch_id", res.BatchID,
			"created", res.Created, "skipped", res.Skipped, "row_errors", len(res.Errors))
		c.JSON(http.StatusOK, res)
	}
}

// formID reads an optional numeric form field. Absent means 0.
func formID(c *gin.Context, name string) (uint, bool) {
	raw := c.PostForm(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

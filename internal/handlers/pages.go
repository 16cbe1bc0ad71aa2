package handlers

import (
	"net/http"

	"completions-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func allowedPages(u models.User) []string {
	pages := []string{}
	for _, p := range models.AllPages {
		if u.CanAccess(p) {
			pages = append(pages, p)
		}
	}
	return pages
}

func Health(c *gin.Context) {
	sqlDB, err := store(c).DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.String(http.StatusServiceUnavailable, "db unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}

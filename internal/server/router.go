package server

import (
	"net/http"

	"completions-tracker/internal/config"
	"completions-tracker/internal/handlers"
	"completions-tracker/internal/middleware"
	"completions-tracker/internal/models"
	"completions-tracker/internal/spreadsheet"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 7 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("tracker_session", store))

	r.Use(middleware.InjectUser())
	r.Use(middleware.RequestLogger())

	r.GET("/health", handlers.Health)

	api := r.Group("/api")

	// AUTH
	api.POST("/register", handlers.Register)
	api.POST("/login", handlers.Login)
	api.POST("/logout", handlers.Logout)

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth())
	auth.GET("/me", handlers.Me)

	admin := middleware.RequireRole(models.RoleAdmin)
	perm := middleware.RequirePermission

	// PROJECTS
	projects := auth.Group("/projects", perm(models.PageProjects))
	projects.GET("", handlers.ListProjects)
	projects.GET("/:id", handlers.GetProject)
	projects.POST("", handlers.CreateProject)
	projects.PUT("/:id", handlers.UpdateProject)
	projects.DELETE("/:id", admin, handlers.DeleteProject)

	// SYSTEMS
	systems := auth.Group("/systems", perm(models.PageSystems))
	systems.GET("", handlers.ListSystems)
	systems.GET("/:id", handlers.GetSystem)
	systems.POST("", handlers.CreateSystem)
	systems.PUT("/:id", handlers.UpdateSystem)
	systems.DELETE("/:id", admin, handlers.DeleteSystem)

	// SUBSYSTEMS
	subsystems := auth.Group("/subsystems", perm(models.PageSubsystems))
	subsystems.GET("", handlers.ListSubsystems)
	subsystems.GET("/:id", handlers.GetSubsystem)
	subsystems.POST("", handlers.CreateSubsystem)
	subsystems.PUT("/:id", handlers.UpdateSubsystem)
	subsystems.DELETE("/:id", admin, handlers.DeleteSubsystem)

	// ITRS
	itrs := auth.Group("/itrs", perm(models.PageITRs))
	itrs.GET("", handlers.ListITRs)
	itrs.GET("/:id", handlers.GetITR)
	itrs.POST("", handlers.CreateITR)
	itrs.PUT("/:id", handlers.UpdateITR)
	itrs.DELETE("/:id", handlers.DeleteITR)
	itrs.POST("/:id/clone", handlers.CloneITR)

	// TEST PACKS / TAGS
	packs := auth.Group("/test-packs", perm(models.PageTestPacks))
	packs.GET("", handlers.ListTestPacks)
	packs.GET("/:id", handlers.GetTestPack)
	packs.POST("", handlers.CreateTestPack)
	packs.PUT("/:id", handlers.UpdateTestPack)
	packs.DELETE("/:id", handlers.DeleteTestPack)

	tags := auth.Group("/tags", perm(models.PageTestPacks))
	tags.GET("", handlers.ListTags)
	tags.POST("", handlers.CreateTag)
	tags.PUT("/:id", handlers.RenameTag)
	tags.PUT("/:id/state", handlers.SetTagState)
	tags.DELETE("/:id", handlers.DeleteTag)

	auth.GET("/action-logs", perm(models.PageTestPacks), handlers.ListActionLogs)

	// IMPORT / EXPORT
	auth.POST("/import/"+spreadsheet.EntityTags, perm(models.PageTestPacks), handlers.Import(spreadsheet.EntityTags))
	auth.POST("/import/"+spreadsheet.EntityTestPacks, perm(models.PageTestPacks), handlers.Import(spreadsheet.EntityTestPacks))
	auth.POST("/import/"+spreadsheet.EntityITRs, perm(models.PageITRs), handlers.Import(spreadsheet.EntityITRs))
	auth.GET("/export/test-packs.xlsx", perm(models.PageTestPacks), handlers.ExportTestPacks)
	auth.GET("/export/itrs.xlsx", perm(models.PageITRs), handlers.ExportITRs)
	auth.GET("/templates/:entity", handlers.Template)

	// DASHBOARD / REPORTS
	auth.GET("/stats/test-packs", perm(models.PageDashboard), handlers.TestPackStats)
	auth.GET("/stats/overview", perm(models.PageDashboard), handlers.Overview)
	auth.GET("/stats/projects", perm(models.PageDashboard), handlers.ProjectProgress)
	auth.GET("/reports/projects.pdf", perm(models.PageReports), handlers.ProjectsReport)

	// USERS
	users := auth.Group("/users", admin)
	users.GET("", handlers.ListUsers)
	users.PUT("/:id", handlers.UpdateUser)

	return r
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/middleware"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth          *services.AuthService
	Organizations *services.OrganizationService
	Projects      *services.ProjectService
	People        *services.PersonService
	Assignments   *services.AssignmentService
	Dashboard     *services.DashboardService
	Export        *services.ExportService
	Leave         LeaveSyncer
}

// RegisterRoutes mounts the API under api. Session middleware must already be
// installed on the engine.
func RegisterRoutes(api *gin.RouterGroup, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	orgHandler := NewOrganizationHandler(svc.Organizations)
	projectHandler := NewProjectHandler(svc.Projects, svc.Assignments)
	personHandler := NewPersonHandler(svc.People)
	assignmentHandler := NewAssignmentHandler(svc.Assignments)
	dashboardHandler := NewDashboardHandler(svc.Dashboard)
	exportHandler := NewExportHandler(svc.Export)
	calendarHandler := NewCalendarHandler(svc.Leave)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify", authHandler.Verify)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
	}

	// Platform administration
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequirePlatformAdmin(svc.Auth))
	{
		admin.GET("/organizations", orgHandler.ListOrganizations)
		admin.POST("/organizations", orgHandler.CreateOrganization)
		admin.GET("/admins", orgHandler.ListPlatformAdmins)
	}

	// Leave calendar is shared across organizations
	calendar := api.Group("/calendar")
	calendar.Use(middleware.RequireAuth())
	{
		calendar.GET("", calendarHandler.GetCalendar)
		calendar.POST("/sync", calendarHandler.SyncLeave)
	}

	// Organization scoped routes
	org := api.Group("/organizations/:" + middleware.OrganizationParam)
	org.Use(middleware.RequireAuth(), middleware.RequireOrganizationAccess(svc.Organizations))
	{
		org.GET("", orgHandler.GetOrganization)
		org.PUT("", orgHandler.UpdateOrganization)

		users := org.Group("/users")
		users.Use(middleware.RequireUserManager())
		{
			users.GET("", orgHandler.ListMembers)
			users.POST("", orgHandler.InviteUser)
			users.PATCH("/:userId/status", orgHandler.UpdateUserStatus)
		}

		org.GET("/dashboard", dashboardHandler.GetDashboard)
		org.GET("/export/allocations.csv", exportHandler.ExportAllocations)

		org.GET("/projects", projectHandler.ListProjects)
		org.POST("/projects", projectHandler.CreateProject)
		org.GET("/projects/:projectId", projectHandler.GetProject)
		org.PUT("/projects/:projectId", projectHandler.UpdateProject)
		org.DELETE("/projects/:projectId", projectHandler.DeleteProject)

		org.GET("/assignments", assignmentHandler.ListAssignments)
		org.POST("/projects/:projectId/assignments", assignmentHandler.CreateAssignment)
		org.PUT("/projects/:projectId/assignments/:assignmentId", assignmentHandler.UpdateAssignment)
		org.DELETE("/projects/:projectId/assignments/:assignmentId", assignmentHandler.DeleteAssignment)

		org.GET("/people", personHandler.ListPeople)
		org.POST("/people", personHandler.CreatePerson)
		org.GET("/people/:personId", personHandler.GetPerson)
		org.PUT("/people/:personId", personHandler.UpdatePerson)
		org.DELETE("/people/:personId", personHandler.DeletePerson)
		org.GET("/people/:personId/allocation", assignmentHandler.PersonAllocation)
	}
}

package app

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/model"
	"edu_portal/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

var staffRoles = []model.UserRole{model.Teacher, model.Principal}

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// 以下路由都绑定浏览器会话
	api.Use(middleware.SessionMiddleware(a.Sessions, a.API, a.Config.Session))

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	// 2. 需要凭证的路由
	authGroup := api.Group("")
	authGroup.Use(middleware.RequireCredential())
	{
		// 学生/通用 接口
		a.registerLearnerRoutes(authGroup, c)

		// 教师、校长接口
		a.registerStaffRoutes(authGroup, c)

		// 首页
		a.registerDashboardRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	auth := api.Group("/auth")
	{
		auth.POST("/signup", c.auth.Signup)
		auth.POST("/login", c.auth.Login)
		auth.POST("/student-login", c.auth.StudentLogin)
		auth.POST("/logout", c.auth.Logout)
		auth.POST("/student-logout", c.auth.StudentLogout)
		auth.GET("/session", c.auth.Session)
		auth.GET("/profile", middleware.RequireCredential(), c.auth.Profile)
	}
}

func (a *App) registerLearnerRoutes(g *gin.RouterGroup, c *controllers) {
	paths := g.Group("/learning-paths")
	{
		paths.GET("/:id", c.learningPath.Get)
		paths.POST("/:id/adapt", c.learningPath.Adapt)
		paths.GET("/student/:studentId", c.learningPath.ForStudent)
	}

	lessons := g.Group("/lessons")
	{
		lessons.POST("/generate", c.lesson.Generate)
		lessons.GET("/:id", c.lesson.Get)
	}

	chat := g.Group("/chat")
	{
		chat.POST("/sessions", c.chat.StartSession)
		chat.POST("/sessions/:id/messages", c.chat.SendMessage)
	}

	g.GET("/analytics/students/:id", c.analytics.Student)
	g.GET("/analytics/students/:id/progress", c.analytics.StudentProgress)
}

func (a *App) registerStaffRoutes(g *gin.RouterGroup, c *controllers) {
	staff := g.Group("")
	staff.Use(middleware.RoleMiddleware(staffRoles...))
	{
		configs := staff.Group("/assessments/configs")
		configs.GET("", c.assessment.ListConfigs)
		configs.POST("", c.assessment.CreateConfig)
		configs.GET("/:id", c.assessment.GetConfig)
		configs.PUT("/:id", c.assessment.UpdateConfig)
		configs.DELETE("/:id", c.assessment.DeleteConfig)
		configs.POST("/:id/generate", c.assessment.GenerateQuestions)
		configs.GET("/:id/questions", c.assessment.ListQuestions)
		configs.POST("/:id/questions", c.assessment.AddQuestion)

		staff.POST("/learning-paths/generate", c.learningPath.Generate)

		staff.GET("/documents", c.document.List)
		staff.POST("/documents/upload", c.document.Upload)

		staff.GET("/students", c.student.List)
		staff.POST("/students/upload", c.student.UploadRoster)

		staff.GET("/analytics/teacher", c.analytics.Teacher)
		staff.GET("/analytics/class", c.analytics.Class)
	}

	g.GET("/analytics/school", middleware.RoleMiddleware(model.Principal), c.analytics.School)
}

func (a *App) registerDashboardRoutes(g *gin.RouterGroup, c *controllers) {
	dashboard := g.Group("/dashboard")
	{
		dashboard.GET("/teacher", middleware.RoleMiddleware(staffRoles...), c.dashboard.Teacher)
		dashboard.GET("/principal", middleware.RoleMiddleware(model.Principal), c.dashboard.Principal)
		dashboard.GET("/parent", middleware.RoleMiddleware(model.Parent), c.dashboard.Parent)
		dashboard.GET("/student", c.dashboard.Student)
	}
}

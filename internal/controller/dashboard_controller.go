package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/model"
	"edu_portal/internal/service"
	"edu_portal/internal/session"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Storage *service.StorageService
}

func NewDashboardController(storage *service.StorageService) *DashboardController {
	return &DashboardController{Storage: storage}
}

func (c *DashboardController) service(ctx *gin.Context) *service.DashboardService {
	return service.NewDashboardService(middleware.Client(ctx), c.Storage)
}

func (c *DashboardController) reply(ctx *gin.Context, d *model.Dashboard, err error) {
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

func (c *DashboardController) Teacher(ctx *gin.Context) {
	d, err := c.service(ctx).Teacher(ctx.Request.Context())
	c.reply(ctx, d, err)
}

func (c *DashboardController) Principal(ctx *gin.Context) {
	d, err := c.service(ctx).Principal(ctx.Request.Context())
	c.reply(ctx, d, err)
}

// Student 学生查看自己的首页；职员可通过 student_id 查看指定学生
func (c *DashboardController) Student(ctx *gin.Context) {
	studentID := ctx.Query("student_id")
	if studentID == "" || middleware.CurrentRole(ctx) == model.Student {
		id, err := service.CurrentUserID(ctx.Request.Context(), middleware.Client(ctx).Session(), session.RoleStudent)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		studentID = id
	}
	d, err := c.service(ctx).Student(ctx.Request.Context(), studentID)
	c.reply(ctx, d, err)
}

// Parent student_id 为孩子的学生 id
func (c *DashboardController) Parent(ctx *gin.Context) {
	d, err := c.service(ctx).Parent(ctx.Request.Context(), ctx.Query("student_id"))
	c.reply(ctx, d, err)
}

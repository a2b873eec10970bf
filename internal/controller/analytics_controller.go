package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/model"
	"edu_portal/internal/service"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct{}

func NewAnalyticsController() *AnalyticsController {
	return &AnalyticsController{}
}

func (c *AnalyticsController) service(ctx *gin.Context) *service.AnalyticsService {
	return service.NewAnalyticsService(middleware.Client(ctx))
}

func (c *AnalyticsController) reply(ctx *gin.Context, a *model.AnalyticsSnapshot, err error) {
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

func (c *AnalyticsController) Student(ctx *gin.Context) {
	a, err := c.service(ctx).Student(ctx.Request.Context(), ctx.Param("id"))
	c.reply(ctx, a, err)
}

func (c *AnalyticsController) StudentProgress(ctx *gin.Context) {
	a, err := c.service(ctx).StudentProgress(ctx.Request.Context(), ctx.Param("id"))
	c.reply(ctx, a, err)
}

func (c *AnalyticsController) Teacher(ctx *gin.Context) {
	a, err := c.service(ctx).Teacher(ctx.Request.Context())
	c.reply(ctx, a, err)
}

func (c *AnalyticsController) Class(ctx *gin.Context) {
	a, err := c.service(ctx).Class(ctx.Request.Context(), ctx.Query("class_id"))
	c.reply(ctx, a, err)
}

func (c *AnalyticsController) School(ctx *gin.Context) {
	a, err := c.service(ctx).School(ctx.Request.Context())
	c.reply(ctx, a, err)
}

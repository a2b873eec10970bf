package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/service"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct{}

func NewLessonController() *LessonController {
	return &LessonController{}
}

// Generate 根据学习路径中的步骤生成课程
func (c *LessonController) Generate(ctx *gin.Context) {
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := service.NewLessonService(middleware.Client(ctx)).GenerateFromStep(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

func (c *LessonController) Get(ctx *gin.Context) {
	lesson, err := service.NewLessonService(middleware.Client(ctx)).Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

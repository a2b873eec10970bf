package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/service"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct{}

func NewLearningPathController() *LearningPathController {
	return &LearningPathController{}
}

func (c *LearningPathController) service(ctx *gin.Context) *service.LearningPathService {
	return service.NewLearningPathService(middleware.Client(ctx))
}

func (c *LearningPathController) Generate(ctx *gin.Context) {
	var req service.GeneratePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	path, err := c.service(ctx).Generate(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, path)
}

func (c *LearningPathController) Get(ctx *gin.Context) {
	path, err := c.service(ctx).Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

func (c *LearningPathController) Adapt(ctx *gin.Context) {
	var req service.AdaptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	path, err := c.service(ctx).Adapt(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

func (c *LearningPathController) ForStudent(ctx *gin.Context) {
	paths, err := c.service(ctx).ForStudent(ctx.Request.Context(), ctx.Param("studentId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: paths, Total: len(paths)})
}

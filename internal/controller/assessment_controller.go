package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/model"
	"edu_portal/internal/service"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct{}

func NewAssessmentController() *AssessmentController {
	return &AssessmentController{}
}

func (c *AssessmentController) service(ctx *gin.Context) *service.AssessmentService {
	return service.NewAssessmentService(middleware.Client(ctx))
}

// ListConfigs 可按 subject、grade_level 过滤
func (c *AssessmentController) ListConfigs(ctx *gin.Context) {
	grade, ok := queryInt(ctx, "grade_level")
	if !ok {
		return
	}
	configs, err := c.service(ctx).ListConfigs(ctx.Request.Context(), service.ConfigFilter{
		Subject:    ctx.Query("subject"),
		GradeLevel: grade,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: configs, Total: len(configs)})
}

func (c *AssessmentController) GetConfig(ctx *gin.Context) {
	cfg, err := c.service(ctx).GetConfig(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cfg)
}

func (c *AssessmentController) CreateConfig(ctx *gin.Context) {
	var in model.ConfigInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	cfg, err := c.service(ctx).CreateConfig(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, cfg)
}

func (c *AssessmentController) UpdateConfig(ctx *gin.Context) {
	var in model.ConfigInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	cfg, err := c.service(ctx).UpdateConfig(ctx.Request.Context(), ctx.Param("id"), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cfg)
}

func (c *AssessmentController) DeleteConfig(ctx *gin.Context) {
	if err := c.service(ctx).DeleteConfig(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GenerateQuestions 请求体可为空
func (c *AssessmentController) GenerateQuestions(ctx *gin.Context) {
	var req service.GenerateRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	qs, err := c.service(ctx).GenerateQuestions(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: qs, Total: len(qs)})
}

func (c *AssessmentController) ListQuestions(ctx *gin.Context) {
	qs, err := c.service(ctx).ListQuestions(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: qs, Total: len(qs)})
}

// AddQuestion 返回新题目以及追加后的配置
func (c *AssessmentController) AddQuestion(ctx *gin.Context) {
	var in model.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	svc := c.service(ctx)
	cfg, err := svc.GetConfig(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if cfg.ID == "" {
		cfg.ID = ctx.Param("id")
	}
	q, err := svc.AddQuestion(ctx.Request.Context(), cfg, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"question": q, "config": cfg})
}

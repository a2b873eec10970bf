package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/service"
	"edu_portal/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	Storage *service.StorageService
}

func NewDocumentController(storage *service.StorageService) *DocumentController {
	return &DocumentController{Storage: storage}
}

// Upload multipart 表单：file、subject、grade_level
func (c *DocumentController) Upload(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fh.Size > service.MaxDocumentSize {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
		return
	}
	grade, err := strconv.Atoi(ctx.PostForm("grade_level"))
	if err != nil {
		util.BadRequest(ctx, "grade_level must be an integer")
		return
	}

	f, err := fh.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	doc, err := service.NewDocumentService(middleware.Client(ctx), c.Storage).Upload(ctx.Request.Context(), service.UploadDocumentRequest{
		Filename:   fh.Filename,
		Reader:     f,
		Subject:    ctx.PostForm("subject"),
		GradeLevel: grade,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, doc)
}

func (c *DocumentController) List(ctx *gin.Context) {
	grade, ok := queryInt(ctx, "grade_level")
	if !ok {
		return
	}
	docs, err := service.NewDocumentService(middleware.Client(ctx), c.Storage).List(ctx.Request.Context(), service.DocumentFilter{
		Subject:    ctx.Query("subject"),
		GradeLevel: grade,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: docs, Total: len(docs)})
}

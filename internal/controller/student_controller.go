package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/service"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct{}

func NewStudentController() *StudentController {
	return &StudentController{}
}

func (c *StudentController) List(ctx *gin.Context) {
	grade, ok := queryInt(ctx, "grade_level")
	if !ok {
		return
	}
	students, err := service.NewStudentService(middleware.Client(ctx)).List(ctx.Request.Context(), service.StudentFilter{
		GradeLevel: grade,
		ClassName:  ctx.Query("class_name"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{List: students, Total: len(students)})
}

// UploadRoster 接受 .csv 或 .xlsx 名单
func (c *StudentController) UploadRoster(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	res, err := service.NewStudentService(middleware.Client(ctx)).UploadRoster(ctx.Request.Context(), fh.Filename, f)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

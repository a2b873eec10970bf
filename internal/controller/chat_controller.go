package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/service"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct{}

func NewChatController() *ChatController {
	return &ChatController{}
}

func (c *ChatController) StartSession(ctx *gin.Context) {
	var req service.StartChatRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	sess, err := service.NewChatService(middleware.Client(ctx)).StartSession(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, sess)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (c *ChatController) SendMessage(ctx *gin.Context) {
	var req sendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	reply, err := service.NewChatService(middleware.Client(ctx)).SendMessage(ctx.Request.Context(), ctx.Param("id"), req.Message)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

package controller

import (
	"edu_portal/internal/middleware"
	"edu_portal/internal/model"
	"edu_portal/internal/service"
	"edu_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// token 只保存在服务端会话中，不返回给浏览器
type loginResponse struct {
	User      model.User `json:"user"`
	SessionID string     `json:"session_id,omitempty"`
}

func (c *AuthController) service(ctx *gin.Context) *service.AuthService {
	return service.NewAuthService(middleware.Client(ctx))
}

// Signup 注册职员账号
func (c *AuthController) Signup(ctx *gin.Context) {
	var req service.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.service(ctx).Signup(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, loginResponse{User: res.User})
}

func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.service(ctx).Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, loginResponse{User: res.User})
}

func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req service.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.service(ctx).StudentLogin(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, loginResponse{User: res.User, SessionID: res.SessionID})
}

// Logout 清除当前浏览器会话的所有凭证
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.service(ctx).Logout(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// StudentLogout 只退出学生，职员凭证保留
func (c *AuthController) StudentLogout(ctx *gin.Context) {
	if err := c.service(ctx).StudentLogout(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *AuthController) Profile(ctx *gin.Context) {
	user, err := c.service(ctx).Profile(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Session 本地会话概况，不访问远端
func (c *AuthController) Session(ctx *gin.Context) {
	info, err := c.service(ctx).Session(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, info)
}

package controller

import (
	"edu_portal/internal/apiclient"
	"edu_portal/internal/util"
	"edu_portal/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 经 ErrorNormalizer 转换后输出；会话失效时附带登录跳转
func respondError(ctx *gin.Context, err error) {
	var redirect string
	msg := apiclient.NewErrorNormalizer(func(route string) { redirect = route }).Message(err)
	if redirect != "" {
		util.ErrorWithData(ctx, http.StatusUnauthorized, msg, gin.H{"redirect": redirect})
		return
	}

	status := apiclient.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Log.Warn("upstream call failed",
			zap.String("path", ctx.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	util.Error(ctx, status, msg)
}

// queryInt 解析可选的整数查询参数，缺省为 0
func queryInt(ctx *gin.Context, key string) (int, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		util.BadRequest(ctx, key+" must be an integer")
		return 0, false
	}
	return n, true
}

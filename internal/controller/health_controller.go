package controller

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	Redis *redis.Client
	API   *apiclient.Client
}

// NewHealthController rdb 为 nil 表示使用内存会话
func NewHealthController(rdb *redis.Client, api *apiclient.Client) *HealthController {
	return &HealthController{Redis: rdb, API: api}
}

// HealthCheck 检查会话存储；远端 API 只报告地址，不主动探测
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{"sessions": "memory"}
	if c.Redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			util.ErrorWithData(ctx, http.StatusServiceUnavailable, "Session store unavailable", gin.H{
				"status":     "degraded",
				"components": gin.H{"sessions": "down"},
			})
			return
		}
		components["sessions"] = "up"
	}

	util.Success(ctx, gin.H{
		"status":       "ok",
		"api_base_url": c.API.BaseURL(),
		"components":   components,
	})
}

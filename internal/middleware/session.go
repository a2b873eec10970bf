package middleware

import (
	"edu_portal/internal/apiclient"
	"edu_portal/internal/config"
	"edu_portal/internal/session"
	"edu_portal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxSessionID = "portal_session_id"
	ctxClient    = "api_client"
)

// SessionMiddleware 以 cookie 中的 uuid 区分浏览器，为每个请求绑定该会话的凭证存储
func SessionMiddleware(provider session.Provider, base *apiclient.Client, cfg config.SessionConfig) gin.HandlerFunc {
	maxAge := int(cfg.TTL.Seconds())
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || !validSessionID(id) {
			id = uuid.NewString()
		}
		// 每次请求都刷新 cookie 有效期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, maxAge, "/", "", cfg.Secure, true)

		store := session.NewStore(provider.Storage(c.Request.Context(), id))
		c.Set(ctxSessionID, id)
		c.Set(ctxClient, base.WithSession(store, apiclient.WithLogger(logger.WithSession(id))))
		c.Next()
	}
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Client 当前请求绑定的 API 客户端
func Client(c *gin.Context) *apiclient.Client {
	v, ok := c.Get(ctxClient)
	if !ok {
		logger.Log.Error("api client missing from context, SessionMiddleware not installed", zap.String("path", c.FullPath()))
		return nil
	}
	return v.(*apiclient.Client)
}

func SessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

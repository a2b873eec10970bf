package middleware

import (
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/session"
	"edu_portal/internal/util"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxRole = "portal_role"

// RequireCredential 当前会话必须持有至少一个凭证，否则返回 401 并附带登录地址
func RequireCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := Client(c).Session()
		role, _, ok, err := store.Active(c.Request.Context())
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}
		if !ok {
			LoginRequired(c)
			c.Abort()
			return
		}
		c.Set(ctxRole, userRole(c, store, role))
		c.Next()
	}
}

// RoleMiddleware 必须在 RequireCredential 之后使用；管理员放行
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := CurrentRole(c)
		if current == "" {
			LoginRequired(c)
			c.Abort()
			return
		}
		if current == model.Admin {
			c.Next()
			return
		}
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		util.Forbidden(c)
		c.Abort()
	}
}

func CurrentRole(c *gin.Context) model.UserRole {
	v, _ := c.Get(ctxRole)
	r, _ := v.(model.UserRole)
	return r
}

// LoginRequired 401 响应，data.redirect 指向登录页
func LoginRequired(c *gin.Context) {
	util.ErrorWithData(c, http.StatusUnauthorized, apiclient.MsgPleaseLogIn, gin.H{"redirect": apiclient.LoginRoute})
}

// userRole 依次取凭证元数据中的 role、token 中的 role，最后按槽位推断
func userRole(c *gin.Context, store *session.Store, slot session.Role) model.UserRole {
	ctx := c.Request.Context()
	if meta, err := store.Metadata(ctx, slot); err == nil {
		if r := model.Record(meta).String("role", "user_type"); r != "" {
			return model.UserRole(strings.ToLower(r))
		}
	}
	if info, ok, err := store.TokenInfo(ctx, slot); err == nil && ok && info.Role != "" {
		return model.UserRole(strings.ToLower(info.Role))
	}
	if slot == session.RoleStudent {
		return model.Student
	}
	return model.Teacher
}

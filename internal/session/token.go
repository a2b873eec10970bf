package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo 从 JWT 中读出的展示信息，签名不做校验（由远端 API 负责）
type TokenInfo struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// ParseTokenInfo 对不透明（非 JWT）的 token 返回 ok=false
func ParseTokenInfo(token string) (TokenInfo, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, false
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if id, ok := claims["user_id"]; ok {
		info.Subject = fmt.Sprint(id)
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}

func (s *Store) TokenInfo(ctx context.Context, role Role) (TokenInfo, bool, error) {
	token, ok, err := s.GetCredential(ctx, role)
	if err != nil || !ok {
		return TokenInfo{}, false, err
	}
	info, ok := ParseTokenInfo(token)
	return info, ok, nil
}

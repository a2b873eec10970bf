package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/session"
	"edu_portal/internal/util"
	"edu_portal/pkg/logger"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
)

type AuthService struct {
	Client *apiclient.Client
}

func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{Client: client}
}

type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	SchoolName string `json:"school_name,omitempty"`
}

func (r *SignupRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < 8 {
		return &util.ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return util.Required("first_name")
	}
	if r.Role == "" {
		r.Role = string(model.Teacher)
	}
	if !model.UserRole(r.Role).Staff() {
		return &util.ValidationError{Field: "role", Message: "must be teacher, principal, parent or admin"}
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return util.Required("password")
	}
	return nil
}

// StudentLoginRequest 学生使用学号/用户名加密码或访问码登录
type StudentLoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password,omitempty"`
	AccessCode string `json:"access_code,omitempty"`
}

func (r *StudentLoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return util.Required("username")
	}
	if r.Password == "" && r.AccessCode == "" {
		return &util.ValidationError{Field: "password", Message: "password or access code is required"}
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return util.Required("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &util.ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return nil
}

// SessionInfo 本地保存的会话概况，不访问远端
type SessionInfo struct {
	Authenticated bool                   `json:"authenticated"`
	Role          session.Role           `json:"role,omitempty"`
	User          map[string]interface{} `json:"user,omitempty"`
	ExpiresAt     *time.Time             `json:"expires_at,omitempty"`
	StudentSessID string                 `json:"student_session_id,omitempty"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, post("/auth/signup", req))
	if err != nil {
		return nil, err
	}
	res := model.AuthResultFromRecord(r)
	// 部分部署注册后不直接下发 token，需要再登录
	if res.Token != "" {
		if err := s.store(ctx, session.RoleTeacher, res); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   req,
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrAuthenticationRequired) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	res := model.AuthResultFromRecord(r)
	if res.Token == "" {
		return nil, util.ErrMissingToken
	}
	role := session.RoleTeacher
	if res.User.Role == model.Student {
		role = session.RoleStudent
	}
	if err := s.store(ctx, role, res); err != nil {
		return nil, err
	}
	logger.Log.Info("user logged in", zap.String("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
	return &res, nil
}

func (s *AuthService) StudentLogin(ctx context.Context, req StudentLoginRequest) (*model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, post("/auth/student-login", req))
	if err != nil {
		if errors.Is(err, apiclient.ErrAuthenticationRequired) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	res := model.AuthResultFromRecord(r)
	if res.Token == "" {
		return nil, util.ErrMissingToken
	}
	if res.User.Role == "" {
		res.User.Role = model.Student
	}
	if err := s.store(ctx, session.RoleStudent, res); err != nil {
		return nil, err
	}
	if res.SessionID != "" {
		if err := s.Client.Session().SetStudentSessionID(ctx, res.SessionID); err != nil {
			return nil, fmt.Errorf("persist student session id: %w", err)
		}
	}
	return &res, nil
}

func (s *AuthService) store(ctx context.Context, role session.Role, res model.AuthResult) error {
	var meta interface{}
	if len(res.UserRecord) > 0 {
		meta = res.UserRecord
	}
	return s.Client.Session().SetCredential(ctx, role, res.Token, meta)
}

func (s *AuthService) Profile(ctx context.Context) (*model.User, error) {
	r, err := fetchRecord(ctx, s.Client, get("/auth/profile", nil))
	if err != nil {
		return nil, err
	}
	if u := r.Object("user", "profile"); u != nil {
		r = u
	}
	user := model.UserFromRecord(r)
	return &user, nil
}

// Logout 通知远端并清除所有本地凭证；远端失败只记录日志
func (s *AuthService) Logout(ctx context.Context) error {
	store := s.Client.Session()
	if _, _, ok, _ := store.Active(ctx); ok {
		if _, err := s.Client.Do(ctx, post("/auth/logout", nil)); err != nil && !apiclient.IsAuthRequired(err) {
			logger.Log.Warn("remote logout failed", zap.Error(err))
		}
	}
	return store.ClearAll(ctx)
}

// StudentLogout 只清除学生凭证与 session id，职员凭证保留
func (s *AuthService) StudentLogout(ctx context.Context) error {
	return s.Client.Session().ClearCredential(ctx, session.RoleStudent)
}

func (s *AuthService) Session(ctx context.Context) (*SessionInfo, error) {
	store := s.Client.Session()
	role, _, ok, err := store.Active(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &SessionInfo{}, nil
	}

	info := &SessionInfo{Authenticated: true, Role: role}
	if info.User, err = store.Metadata(ctx, role); err != nil {
		return nil, err
	}
	if ti, ok, err := store.TokenInfo(ctx, role); err != nil {
		return nil, err
	} else if ok && !ti.ExpiresAt.IsZero() {
		exp := ti.ExpiresAt
		info.ExpiresAt = &exp
	}
	if id, ok, err := store.StudentSessionID(ctx); err == nil && ok {
		info.StudentSessID = id
	}
	return info, nil
}

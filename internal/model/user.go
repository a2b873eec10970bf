package model

import "strings"

type UserRole string

const (
	Student   UserRole = "student"
	Teacher   UserRole = "teacher"
	Principal UserRole = "principal"
	Parent    UserRole = "parent"
	Admin     UserRole = "admin"
)

// Staff 职员账号使用主凭证槽位
func (r UserRole) Staff() bool {
	switch r {
	case Teacher, Principal, Parent, Admin:
		return true
	}
	return false
}

type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	SchoolID  string   `json:"school_id,omitempty"`
}

// DisplayName 优先级：full_name -> first_name + last_name -> name -> username -> email -> fallback
func DisplayName(r Record, fallback string) string {
	if s := r.String("full_name", "fullName"); s != "" {
		return s
	}
	full := strings.TrimSpace(r.String("first_name", "firstName") + " " + r.String("last_name", "lastName"))
	if full != "" {
		return full
	}
	if s := r.String("name", "username", "email"); s != "" {
		return s
	}
	return fallback
}

func UserFromRecord(r Record) User {
	return User{
		ID:        r.String("id", "user_id", "_id"),
		Email:     r.String("email"),
		FirstName: r.String("first_name", "firstName"),
		LastName:  r.String("last_name", "lastName"),
		Name:      DisplayName(r, "User"),
		Role:      UserRole(strings.ToLower(r.String("role", "user_type"))),
		SchoolID:  r.String("school_id", "schoolId"),
	}
}

// AuthResult 登录/注册接口的响应
type AuthResult struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	SessionID string `json:"session_id,omitempty"`
	// UserRecord 原始用户对象，作为凭证的附带信息保存
	UserRecord Record `json:"-"`
}

// AuthResultFromRecord token 优先级：access_token -> token -> data.token；
// 用户对象优先级：user -> student -> profile -> 响应本身
func AuthResultFromRecord(r Record) AuthResult {
	token := r.String("access_token", "token", "accessToken")
	if token == "" {
		if data := r.Object("data"); data != nil {
			token = data.String("access_token", "token")
		}
	}

	user := r.Object("user", "student", "profile")
	if user == nil {
		user = Record{}
		for k, v := range r {
			switch k {
			case "access_token", "token", "accessToken", "token_type", "session_id", "sessionId", "expires_in":
				continue
			}
			user[k] = v
		}
	}

	return AuthResult{
		Token:      token,
		User:       UserFromRecord(user),
		SessionID:  r.String("session_id", "sessionId"),
		UserRecord: user,
	}
}

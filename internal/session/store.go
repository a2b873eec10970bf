package session

import (
	"context"
	"edu_portal/internal/util"
	"encoding/json"
	"fmt"
	"sync"
)

type Role string

const (
	// RoleTeacher 主凭证：教师、校长、家长等职员账号都使用该槽位
	RoleTeacher Role = "teacher"
	// RoleStudent 次凭证：学生登录
	RoleStudent Role = "student"
)

// Roles 按请求时的优先级排列
var Roles = []Role{RoleTeacher, RoleStudent}

const (
	KeyTeacherToken     = "token"
	KeyTeacherUser      = "user"
	KeyStudentToken     = "student_token"
	KeyStudentUser      = "student_user"
	KeyStudentSessionID = "student_session_id"
)

type roleKeys struct {
	token string
	user  string
}

var keysByRole = map[Role]roleKeys{
	RoleTeacher: {token: KeyTeacherToken, user: KeyTeacherUser},
	RoleStudent: {token: KeyStudentToken, user: KeyStudentUser},
}

func (r Role) Valid() bool {
	_, ok := keysByRole[r]
	return ok
}

type credential struct {
	token    string
	metadata json.RawMessage
}

// Store 按角色保存 bearer token 及用户信息，写入时同步落到 Storage
type Store struct {
	storage Storage

	mu        sync.RWMutex
	cache     map[Role]*credential
	loaded    map[Role]bool
	sessionID *string
}

func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		cache:   make(map[Role]*credential),
		loaded:  make(map[Role]bool),
	}
}

func (s *Store) SetCredential(ctx context.Context, role Role, token string, metadata interface{}) error {
	keys, ok := keysByRole[role]
	if !ok {
		return fmt.Errorf("%w: %q", util.ErrUnknownRole, role)
	}

	var raw json.RawMessage
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("encode %s metadata: %w", role, err)
		}
		raw = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(ctx, keys.token, token); err != nil {
		return fmt.Errorf("persist %s token: %w", role, err)
	}
	if raw != nil {
		if err := s.storage.Set(ctx, keys.user, string(raw)); err != nil {
			return fmt.Errorf("persist %s metadata: %w", role, err)
		}
	} else if err := s.storage.Remove(ctx, keys.user); err != nil {
		return fmt.Errorf("persist %s metadata: %w", role, err)
	}

	s.cache[role] = &credential{token: token, metadata: raw}
	s.loaded[role] = true
	return nil
}

// GetCredential 返回角色的 token；从未设置或已清除时 ok 为 false
func (s *Store) GetCredential(ctx context.Context, role Role) (string, bool, error) {
	cred, err := s.load(ctx, role)
	if err != nil || cred == nil {
		return "", false, err
	}
	return cred.token, true, nil
}

// Metadata 解码登录时保存的用户信息
func (s *Store) Metadata(ctx context.Context, role Role) (map[string]interface{}, error) {
	cred, err := s.load(ctx, role)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, util.ErrCredentialNotFound
	}
	if len(cred.metadata) == 0 {
		return map[string]interface{}{}, nil
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(cred.metadata, &out); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", role, err)
	}
	return out, nil
}

func (s *Store) load(ctx context.Context, role Role) (*credential, error) {
	keys, ok := keysByRole[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownRole, role)
	}

	s.mu.RLock()
	if s.loaded[role] {
		cred := s.cache[role]
		s.mu.RUnlock()
		return cred, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[role] {
		return s.cache[role], nil
	}

	token, found, err := s.storage.Get(ctx, keys.token)
	if err != nil {
		return nil, fmt.Errorf("read %s token: %w", role, err)
	}
	if !found {
		s.cache[role] = nil
		s.loaded[role] = true
		return nil, nil
	}

	cred := &credential{token: token}
	if user, found, err := s.storage.Get(ctx, keys.user); err != nil {
		return nil, fmt.Errorf("read %s metadata: %w", role, err)
	} else if found && user != "" {
		cred.metadata = json.RawMessage(user)
	}

	s.cache[role] = cred
	s.loaded[role] = true
	return cred, nil
}

// ClearCredential 删除角色的 token 与用户信息；学生角色同时删除 session id
func (s *Store) ClearCredential(ctx context.Context, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", util.ErrUnknownRole, role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx, role)
}

func (s *Store) clearLocked(ctx context.Context, role Role) error {
	keys := keysByRole[role]

	// 先清缓存，即使存储删除失败也不再使用该凭证
	s.cache[role] = nil
	s.loaded[role] = true

	if err := s.storage.Remove(ctx, keys.token); err != nil {
		return fmt.Errorf("remove %s token: %w", role, err)
	}
	if err := s.storage.Remove(ctx, keys.user); err != nil {
		return fmt.Errorf("remove %s metadata: %w", role, err)
	}
	if role == RoleStudent {
		empty := ""
		s.sessionID = &empty
		if err := s.storage.Remove(ctx, KeyStudentSessionID); err != nil {
			return fmt.Errorf("remove student session id: %w", err)
		}
	}
	return nil
}

// ClearAll 清除所有角色的凭证，返回遇到的第一个存储错误
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for _, role := range Roles {
		if err := s.clearLocked(ctx, role); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Store) SetStudentSessionID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		if err := s.storage.Remove(ctx, KeyStudentSessionID); err != nil {
			return err
		}
	} else if err := s.storage.Set(ctx, KeyStudentSessionID, id); err != nil {
		return err
	}
	s.sessionID = &id
	return nil
}

func (s *Store) StudentSessionID(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	if s.sessionID != nil {
		id := *s.sessionID
		s.mu.RUnlock()
		return id, id != "", nil
	}
	s.mu.RUnlock()

	id, found, err := s.storage.Get(ctx, KeyStudentSessionID)
	if err != nil {
		return "", false, err
	}
	if !found {
		id = ""
	}
	s.mu.Lock()
	s.sessionID = &id
	s.mu.Unlock()
	return id, id != "", nil
}

// Active 按优先级返回第一个存在凭证的角色
func (s *Store) Active(ctx context.Context) (Role, string, bool, error) {
	for _, role := range Roles {
		token, ok, err := s.GetCredential(ctx, role)
		if err != nil {
			return "", "", false, err
		}
		if ok {
			return role, token, true, nil
		}
	}
	return "", "", false, nil
}

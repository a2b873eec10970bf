package session

import (
	"context"
	"edu_portal/internal/util"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	*MemoryStorage
	failSet bool
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		role  Role
		token string
	}{
		{"teacher", RoleTeacher, "tok-teacher"},
		{"student", RoleStudent, "tok-student"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(NewMemoryStorage())

			_, ok, err := store.GetCredential(ctx, tt.role)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.SetCredential(ctx, tt.role, "first", nil))
			require.NoError(t, store.SetCredential(ctx, tt.role, tt.token, nil))
			got, ok, err := store.GetCredential(ctx, tt.role)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.token, got)

			require.NoError(t, store.ClearCredential(ctx, tt.role))
			_, ok, err = store.GetCredential(ctx, tt.role)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_MetadataAndScenario(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage())

	require.NoError(t, store.SetCredential(ctx, RoleTeacher, "tok123", map[string]string{"first_name": "Ana"}))

	token, ok, err := store.GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok123", token)

	meta, err := store.Metadata(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, "Ana", meta["first_name"])

	_, err = store.Metadata(ctx, RoleStudent)
	assert.ErrorIs(t, err, util.ErrCredentialNotFound)
}

func TestStore_ClearAll(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(storage)

	require.NoError(t, store.SetCredential(ctx, RoleTeacher, "t", map[string]int{"id": 1}))
	require.NoError(t, store.SetCredential(ctx, RoleStudent, "s", nil))
	require.NoError(t, store.SetStudentSessionID(ctx, "sess-1"))

	require.NoError(t, store.ClearAll(ctx))

	for _, role := range Roles {
		_, ok, err := store.GetCredential(ctx, role)
		require.NoError(t, err)
		assert.False(t, ok, role)
	}
	_, ok, err := store.StudentSessionID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, storage.data)
}

func TestStore_ClearStudentKeepsTeacher(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage())

	require.NoError(t, store.SetCredential(ctx, RoleTeacher, "t", nil))
	require.NoError(t, store.SetCredential(ctx, RoleStudent, "s", nil))
	require.NoError(t, store.SetStudentSessionID(ctx, "sess-1"))

	require.NoError(t, store.ClearCredential(ctx, RoleStudent))

	token, ok, err := store.GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t", token)

	_, ok, _ = store.StudentSessionID(ctx)
	assert.False(t, ok)
}

func TestStore_ReloadsFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	require.NoError(t, NewStore(storage).SetCredential(ctx, RoleStudent, "persisted", map[string]string{"name": "Kim"}))
	require.NoError(t, NewStore(storage).SetStudentSessionID(ctx, "abc"))

	// 模拟浏览器刷新：新的 Store 只能从 Storage 读取
	fresh := NewStore(storage)
	token, ok, err := fresh.GetCredential(ctx, RoleStudent)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)

	id, ok, err := fresh.StudentSessionID(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	role, _, ok, err := fresh.Active(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, role)
}

func TestStore_EmptyTokenStoredAsGiven(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, NewStore(storage).SetCredential(ctx, RoleTeacher, "", nil))

	// token 不做校验，空串也按原样保存与读取
	token, ok, err := NewStore(storage).GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", token)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&failingStorage{MemoryStorage: NewMemoryStorage(), failSet: true})

	assert.ErrorIs(t, store.SetCredential(ctx, Role("parent"), "x", nil), util.ErrUnknownRole)

	err := store.SetCredential(ctx, RoleTeacher, "x", nil)
	assert.Error(t, err)
	_, ok, _ := store.GetCredential(ctx, RoleTeacher)
	assert.False(t, ok, "failed write must not populate the cache")
}

func TestFileStorage_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "creds.json")

	store := NewStore(NewFileStorage(path, "correct horse"))
	require.NoError(t, store.SetCredential(ctx, RoleTeacher, "sealed-token", nil))

	token, ok, err := NewStore(NewFileStorage(path, "correct horse")).GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sealed-token", token)

	_, _, err = NewFileStorage(path, "").Get(ctx, KeyTeacherToken)
	assert.ErrorIs(t, err, util.ErrSealedStorage)

	_, _, err = NewFileStorage(path, "wrong").Get(ctx, KeyTeacherToken)
	assert.Error(t, err)
}

func TestFileStorage_Plain(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "creds.json")

	fs := NewFileStorage(path, "")
	require.NoError(t, fs.Set(ctx, "k", "v"))
	require.NoError(t, fs.Remove(ctx, "missing"))

	v, ok, err := NewFileStorage(path, "").Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestParseTokenInfo(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"role":    "teacher",
		"exp":     exp.Unix(),
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	info, ok := ParseTokenInfo(signed)
	require.True(t, ok)
	assert.Equal(t, "42", info.Subject)
	assert.Equal(t, "teacher", info.Role)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.True(t, info.Expired(time.Now()))

	_, ok = ParseTokenInfo("opaque-token")
	assert.False(t, ok)
}

func TestMemoryProvider_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(time.Hour)

	require.NoError(t, NewStore(p.Storage(ctx, "a")).SetCredential(ctx, RoleTeacher, "ta", nil))

	_, ok, err := NewStore(p.Storage(ctx, "b")).GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.False(t, ok)

	token, ok, err := NewStore(p.Storage(ctx, "a")).GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ta", token)
}

func TestMemoryProvider_RegistersOnWrite(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider(time.Hour)

	// 未登录的访问只读不写
	for i := 0; i < 500; i++ {
		store := NewStore(p.Storage(ctx, fmt.Sprintf("anon-%d", i)))
		_, _, ok, err := store.Active(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, store.ClearAll(ctx))
	}
	assert.Empty(t, p.sessions)

	require.NoError(t, NewStore(p.Storage(ctx, "a")).SetCredential(ctx, RoleTeacher, "ta", nil))
	assert.Len(t, p.sessions, 1)
}

func TestMemoryProvider_SweepExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	p := NewMemoryProvider(time.Hour)
	p.now = func() time.Time { return now }

	require.NoError(t, NewStore(p.Storage(ctx, "idle")).SetCredential(ctx, RoleTeacher, "t1", nil))
	require.NoError(t, NewStore(p.Storage(ctx, "busy")).SetCredential(ctx, RoleTeacher, "t2", nil))

	now = now.Add(50 * time.Minute)
	_, ok, err := NewStore(p.Storage(ctx, "busy")).GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(20 * time.Minute)
	p.sweep()

	assert.NotContains(t, p.sessions, "idle")
	assert.Contains(t, p.sessions, "busy")

	_, ok, err = NewStore(p.Storage(ctx, "idle")).GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.False(t, ok)
}

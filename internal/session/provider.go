package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Provider 为门户的每个浏览器会话提供独立的 Storage
type Provider interface {
	Storage(ctx context.Context, sessionID string) Storage
}

type memoryEntry struct {
	storage  *MemoryStorage
	lastSeen time.Time
}

// MemoryProvider 进程内会话表；首次写入才登记，空闲超过 ttl 的会话由 Run 清理
type MemoryProvider struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryProvider(ttl time.Duration) *MemoryProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryProvider{sessions: make(map[string]*memoryEntry), ttl: ttl, now: time.Now}
}

func (p *MemoryProvider) Storage(_ context.Context, sessionID string) Storage {
	return &memorySession{provider: p, id: sessionID}
}

// Run 定期清理过期会话，ctx 结束时退出
func (p *MemoryProvider) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

func (p *MemoryProvider) sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, e := range p.sessions {
		if p.now().Sub(e.lastSeen) > p.ttl {
			delete(p.sessions, id)
		}
	}
}

// lookup 返回已登记的会话并刷新 lastSeen；create 为 false 时不登记新会话
func (p *MemoryProvider) lookup(id string, create bool) *MemoryStorage {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.sessions[id]
	if !ok {
		if !create {
			return nil
		}
		e = &memoryEntry{storage: NewMemoryStorage()}
		p.sessions[id] = e
	}
	e.lastSeen = p.now()
	return e.storage
}

type memorySession struct {
	provider *MemoryProvider
	id       string
}

func (s *memorySession) Get(ctx context.Context, key string) (string, bool, error) {
	m := s.provider.lookup(s.id, false)
	if m == nil {
		return "", false, nil
	}
	return m.Get(ctx, key)
}

func (s *memorySession) Set(ctx context.Context, key, value string) error {
	return s.provider.lookup(s.id, true).Set(ctx, key, value)
}

func (s *memorySession) Remove(ctx context.Context, key string) error {
	m := s.provider.lookup(s.id, false)
	if m == nil {
		return nil
	}
	return m.Remove(ctx, key)
}

type RedisProvider struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProvider(client *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{client: client, ttl: ttl}
}

func (p *RedisProvider) Storage(ctx context.Context, sessionID string) Storage {
	s := NewRedisStorage(p.client, sessionID, p.ttl)
	_ = s.Touch(ctx)
	return s
}

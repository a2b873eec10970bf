package apiclient

import (
	"bytes"
	"context"
	"edu_portal/internal/session"
	"edu_portal/pkg/logger"
	"edu_portal/pkg/monitoring"
	"edu_portal/pkg/tracing"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Request 一次对远端 API 的调用
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body 为 JSON 请求体；Form 非空时忽略
	Body interface{}
	Form *Multipart
	// Token 显式指定 bearer token，跳过凭证选择
	Token string
}

// Client 请求分发：选择凭证、编码请求体、处理错误状态
type Client struct {
	mu      sync.RWMutex
	baseURL string

	http  *http.Client
	store *session.Store
	log   *zap.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		log:     logger.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *session.Store {
	return c.store
}

func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(u, "/")
}

// WithSession 共享 http.Client 与配置，绑定另一个凭证存储
func (c *Client) WithSession(store *session.Store, opts ...Option) *Client {
	bound := &Client{
		baseURL: c.BaseURL(),
		http:    c.http,
		store:   store,
		log:     c.log,
	}
	for _, opt := range opts {
		opt(bound)
	}
	return bound
}

func (c *Client) resolveToken(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if c.store == nil {
		return "", nil
	}
	_, token, ok, err := c.store.Active(ctx)
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (c *Client) buildRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.BaseURL() + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case r.Form != nil:
		buf, ct, err := r.Form.encode()
		if err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
		body, contentType = buf, ct
	case r.Body != nil:
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.resolveToken(ctx, r.Token)
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Do 发送请求并返回 2xx 响应体。401 时清空所有凭证并返回 ErrAuthenticationRequired
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	req, err := c.buildRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	endpoint := routeLabel(r.Path)
	spanCtx, span := tracing.StartClientSpan(ctx, "upstream "+req.Method+" "+endpoint, req)
	defer span.End()
	req = req.WithContext(spanCtx)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		monitoring.ObserveUpstream(req.Method, endpoint, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn("upstream request failed",
			zap.String("method", req.Method),
			zap.String("path", r.Path),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, r.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	took := time.Since(start)
	monitoring.ObserveUpstream(req.Method, endpoint, resp.StatusCode, took)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		span.SetStatus(codes.Error, "authentication required")
		c.resetSession(ctx, r.Path)
		return nil, ErrAuthenticationRequired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		failure := newRequestFailed(resp, body)
		span.SetStatus(codes.Error, failure.Message)
		c.log.Warn("upstream request rejected",
			zap.String("method", req.Method),
			zap.String("path", r.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", failure.Message))
		return nil, failure
	}

	c.log.Debug("upstream request",
		zap.String("method", req.Method),
		zap.String("path", r.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", took))
	return body, nil
}

// 会话已失效，所有角色的凭证都不可再用
func (c *Client) resetSession(ctx context.Context, path string) {
	monitoring.SessionResets.Inc()
	if c.store == nil {
		return
	}
	if err := c.store.ClearAll(ctx); err != nil {
		c.log.Error("failed to clear credentials after 401", zap.String("path", path), zap.Error(err))
		return
	}
	c.log.Info("credentials cleared after 401", zap.String("path", path))
}

// Decode 发送请求，归一化响应包装，并把数据部分解码到 out（可为 nil）
func (c *Client) Decode(ctx context.Context, r Request, out interface{}) (Envelope, error) {
	body, err := c.Do(ctx, r)
	if err != nil {
		return Envelope{}, err
	}
	env, err := NormalizeEnvelope(body)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s %s: %w", r.Method, r.Path, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return env, &RequestFailedError{Status: http.StatusOK, StatusText: "OK", Message: msg, Body: body}
	}
	if err := decodeInto(env.Data, out); err != nil {
		return env, fmt.Errorf("decode %s: %w", r.Path, err)
	}
	return env, nil
}

func decodeInto(data json.RawMessage, out interface{}) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, out)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	_, err := c.Decode(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
	return err
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	_, err := c.Decode(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
	return err
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	_, err := c.Decode(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
	return err
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Decode(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
	return err
}

func (c *Client) Upload(ctx context.Context, path string, form *Multipart, out interface{}) error {
	_, err := c.Decode(ctx, Request{Method: http.MethodPost, Path: path, Form: form}, out)
	return err
}

var idSegment = regexp.MustCompile(`^([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F-]{27}|[0-9a-fA-F]{24})$`)

// routeLabel 把路径中的 id 段替换为 :id，避免指标标签基数过高
func routeLabel(path string) string {
	path = strings.SplitN(path, "?", 2)[0]
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if idSegment.MatchString(s) {
			segs[i] = ":id"
		}
	}
	return "/" + strings.Join(segs, "/")
}

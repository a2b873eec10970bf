package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"net/url"
	"strings"
)

const maxChatMessageLength = 4000

type ChatService struct {
	Client *apiclient.Client
}

func NewChatService(client *apiclient.Client) *ChatService {
	return &ChatService{Client: client}
}

type StartChatRequest struct {
	Topic    string `json:"topic,omitempty"`
	LessonID string `json:"lesson_id,omitempty"`
}

func (s *ChatService) StartSession(ctx context.Context, req StartChatRequest) (*model.ChatSession, error) {
	r, err := fetchRecord(ctx, s.Client, post("/chat/sessions", req))
	if err != nil {
		return nil, err
	}
	sess := model.ChatSessionFromRecord(unwrapObject(r, "session"))
	if sess.ID == "" {
		return nil, &apiclient.RequestFailedError{Status: 200, Message: "chat session response did not include an id"}
	}
	if sess.Topic == "" {
		sess.Topic = req.Topic
	}
	return &sess, nil
}

// SendMessage 返回助教的回复
func (s *ChatService) SendMessage(ctx context.Context, sessionID, content string) (*model.ChatMessage, error) {
	if sessionID == "" {
		return nil, util.Required("session_id")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.Required("message")
	}
	if len(content) > maxChatMessageLength {
		return nil, &util.ValidationError{Field: "message", Message: "is too long"}
	}

	r, err := fetchRecord(ctx, s.Client, post("/chat/sessions/"+url.PathEscape(sessionID)+"/messages", map[string]string{
		"message": content,
	}))
	if err != nil {
		return nil, err
	}
	msg := model.ChatMessageFromRecord(unwrapObject(r, "reply", "response_message"))
	return &msg, nil
}

package service

import (
	"bytes"
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"edu_portal/pkg/logger"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const MaxDocumentSize = 50 << 20

type DocumentService struct {
	Client  *apiclient.Client
	Storage *StorageService
}

func NewDocumentService(client *apiclient.Client, storage *StorageService) *DocumentService {
	return &DocumentService{Client: client, Storage: storage}
}

type UploadDocumentRequest struct {
	Filename   string
	Reader     io.Reader
	Subject    string
	GradeLevel int
}

func (r UploadDocumentRequest) Validate() error {
	if strings.TrimSpace(r.Filename) == "" || r.Reader == nil {
		return util.Required("file")
	}
	if !util.HasExtension(r.Filename, util.AllowedDocumentExtensions) {
		return &util.ValidationError{Field: "file", Message: "unsupported file type " + filepath.Ext(r.Filename)}
	}
	if strings.TrimSpace(r.Subject) == "" {
		return util.Required("subject")
	}
	if r.GradeLevel < 1 || r.GradeLevel > 12 {
		return &util.ValidationError{Field: "grade_level", Message: "must be between 1 and 12"}
	}
	return nil
}

// Upload 以 multipart 转发到远端；配置了镜像存储时先保存一份副本
func (s *DocumentService) Upload(ctx context.Context, req UploadDocumentRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(io.LimitReader(req.Reader, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > MaxDocumentSize {
		return nil, util.ErrFileTooLarge
	}

	mirrorURL := ""
	if s.Storage.Enabled() {
		u, err := s.Storage.Mirror(ctx, "documents", req.Filename, content)
		if err != nil {
			// 镜像失败不影响上传
			logger.Log.Warn("document mirror failed", zap.String("file", req.Filename), zap.Error(err))
		} else {
			mirrorURL = u
		}
	}

	form := apiclient.NewMultipart().
		File("file", filepath.Base(req.Filename), bytes.NewReader(content)).
		Field("subject", req.Subject).
		Field("grade_level", strconv.Itoa(req.GradeLevel))

	var r model.Record
	if err := s.Client.Upload(ctx, "/documents/upload", form, &r); err != nil {
		return nil, err
	}

	doc := model.DocumentFromRecord(unwrapObject(r, "document"))
	if doc.Name == "document" {
		doc.Name = filepath.Base(req.Filename)
	}
	if doc.Subject == "" {
		doc.Subject = req.Subject
	}
	if doc.GradeLevel == 0 {
		doc.GradeLevel = req.GradeLevel
	}
	if doc.Size == 0 {
		doc.Size = int64(len(content))
	}
	doc.MirrorURL = mirrorURL
	return &doc, nil
}

type DocumentFilter struct {
	Subject    string
	GradeLevel int
}

func (s *DocumentService) List(ctx context.Context, filter DocumentFilter) ([]model.Document, error) {
	q := url.Values{}
	if filter.Subject != "" {
		q.Set("subject", filter.Subject)
	}
	if filter.GradeLevel > 0 {
		q.Set("grade_level", strconv.Itoa(filter.GradeLevel))
	}
	records, err := fetchRecords(ctx, s.Client, get("/documents", q), "documents")
	if err != nil {
		return nil, err
	}
	docs := make([]model.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, model.DocumentFromRecord(r))
	}
	return docs, nil
}

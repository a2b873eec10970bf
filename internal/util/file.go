package util

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// 系统 mime 表不一定包含 office 格式
var documentTypes = map[string]string{
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".md":   "text/markdown; charset=utf-8",
}

// HasExtension 扩展名不区分大小写
func HasExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// DetectContentType 先嗅探内容，office 文档会被识别成 zip，此时按扩展名判断
func DetectContentType(filename string, head []byte) string {
	if len(head) > 512 {
		head = head[:512]
	}
	sniffed := http.DetectContentType(head)
	if sniffed != MimeOctetStream && sniffed != "application/zip" && !strings.HasPrefix(sniffed, "text/plain") {
		return sniffed
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := documentTypes[ext]; ok {
		return t
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return sniffed
}

package util

// 镜像存储类型
const (
	StorageNone  = "none"
	StorageLocal = "local"
	StorageMinio = "minio"
)

const MimeOctetStream = "application/octet-stream"

var AllowedDocumentExtensions = []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".txt", ".md", ".png", ".jpg", ".jpeg"}

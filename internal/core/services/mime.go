package services

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// extensionTypes covers formats the system MIME table often lacks or
// reports inconsistently across platforms.
var extensionTypes = map[string]string{
	".pdf":      domain.MIMETypePDF,
	".docx":     domain.MIMETypeDOCX,
	".odt":      domain.MIMETypeODT,
	".pptx":     domain.MIMETypePPTX,
	".htm":      domain.MIMETypeHTML,
	".html":     domain.MIMETypeHTML,
	".xhtml":    domain.MIMETypeXHTML,
	".md":       domain.MIMETypeMarkdown,
	".markdown": domain.MIMETypeMarkdown,
	".txt":      domain.MIMETypePlain,
	".text":     domain.MIMETypePlain,
	".log":      domain.MIMETypePlain,
	".csv":      domain.MIMETypeCSV,
	".json":     "application/json",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
}

// DetectMIMEType derives a MIME type from a filename's extension.
// Files without an extension are treated as plain text; unknown
// extensions are application/octet-stream. Parameters such as charset
// are stripped.
func DetectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return domain.MIMETypePlain
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return domain.MIMETypeOctet
	}
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

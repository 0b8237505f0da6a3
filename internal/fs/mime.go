package fs

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimeDir     = "inode/directory"
	MimeEmpty   = "inode/empty"
	MimeUnknown = "application/octet-stream"
)

// Source files that content sniffing reports as text/plain. The names follow
// the shared-mime-info database so previewer rules can target them.
var sourceMimes = map[string]string{
	".c":     "text/x-c",
	".cc":    "text/x-c++",
	".cpp":   "text/x-c++",
	".go":    "text/x-go",
	".h":     "text/x-c",
	".java":  "text/x-java",
	".js":    "text/javascript",
	".json":  "application/json",
	".lua":   "text/x-lua",
	".md":    "text/markdown",
	".mdx":   "text/markdown",
	".py":    "text/x-python",
	".rb":    "text/x-ruby",
	".rs":    "text/x-rust",
	".sh":    "application/x-sh",
	".toml":  "application/toml",
	".ts":    "text/x-typescript",
	".txt":   "text/plain",
	".yaml":  "application/yaml",
	".yml":   "application/yaml",
	".zsh":   "application/x-sh",
	".fish":  "application/x-sh",
	".mod":   "text/x-go-mod",
	".sum":   "text/plain",
	".ini":   "text/plain",
	".conf":  "text/plain",
	".csv":   "text/csv",
	".html":  "text/html",
	".css":   "text/css",
	".xml":   "text/xml",
	".sql":   "text/x-sql",
	".proto": "text/plain",
}

// DetectMime resolves the content type of entry. Directories and empty files
// get the inode/* pseudo types; known source extensions win over sniffing so
// code files are not reduced to text/plain.
func DetectMime(entry Entry) string {
	switch {
	case entry.IsDir:
		return MimeDir
	case entry.Size == 0 && entry.Mode.IsRegular():
		return MimeEmpty
	}

	ext := strings.ToLower(filepath.Ext(entry.Name))
	if m, ok := sourceMimes[ext]; ok {
		return m
	}

	if detected, err := mimetype.DetectFile(entry.FullPath); err == nil {
		if m := stripParams(detected.String()); m != MimeUnknown {
			return m
		}
	}
	if m := stripParams(mime.TypeByExtension(ext)); m != "" {
		return m
	}
	if text, err := SniffText(entry.FullPath); err == nil && text {
		return "text/plain"
	}
	return MimeUnknown
}

func stripParams(m string) string {
	if idx := strings.IndexByte(m, ';'); idx >= 0 {
		m = m[:idx]
	}
	return strings.TrimSpace(m)
}

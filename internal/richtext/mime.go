package richtext

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest artwork file the upload endpoints accept (25MB).
const MaxFileSize = 25 * 1024 * 1024

// mimeByExt maps artwork and document extensions to MIME types.
var mimeByExt = map[string]string{
	".pdf":  "application/pdf",
	".ai":   "application/postscript",
	".eps":  "application/postscript",
	".ps":   "application/postscript",
	".psd":  "image/vnd.adobe.photoshop",
	".cdr":  "application/vnd.corel-draw",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".zip":  "application/zip",
	".txt":  "text/plain",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DetectMIME returns the MIME type for a file path.
// It uses the extension map first, then falls back to reading file header bytes.
func DetectMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeByExt[ext]; ok {
		return mime
	}

	f, err := os.Open(path) //nolint:gosec // G304: user-selected upload
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(buf[:n])
}

// ValidateFile checks that a path refers to an existing, regular, readable file
// within the size limit.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", filepath.Base(path), err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", filepath.Base(path))
	}
	if info.Size() > MaxFileSize {
		return fmt.Errorf("%s exceeds maximum size of %dMB", filepath.Base(path), MaxFileSize>>20)
	}
	f, err := os.Open(path) //nolint:gosec // G304: user-selected upload
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", filepath.Base(path), err)
	}
	return f.Close()
}

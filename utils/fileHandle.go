package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrFileType = errors.New("file type not allowed")

var (
	ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
	GameExtensions  = []string{".zip", ".rar", ".7z", ".exe", ".apk"}
)

// SaveUploadedFile stores file under destDir with a random name and returns
// the stored file name. An empty allowed list accepts any extension.
func SaveUploadedFile(file *multipart.FileHeader, destDir string, allowed []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(allowed) > 0 && !contains(allowed, ext) {
		return "", ErrFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return newFilename, nil
}

func GetFileURL(fileName string) string {
	if fileName == "" {
		return ""
	}
	return "/uploads/" + fileName
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

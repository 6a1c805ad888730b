package filemgr

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"tripdesk/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var MediaDir = "./static/librarypic"

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// SaveImage decodes an uploaded image, stores it under MediaDir with a
// generated name, and writes a 300px-wide thumbnail next to it under thumb/.
// Returns the public URL path of the original.
func SaveImage(file multipart.File, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	id := uuid.New().String()
	fileName := id + ".jpg"
	originalPath := filepath.Join(MediaDir, fileName)
	thumbDir := filepath.Join(MediaDir, "thumb")
	thumbPath := filepath.Join(thumbDir, fileName)

	if err := utils.EnsureDir(MediaDir); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := utils.EnsureDir(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, originalPath); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/static/librarypic/" + fileName, nil
}

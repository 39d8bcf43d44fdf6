package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"chatter/internal/config"
	"chatter/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMediaUploadDir       = "/tmp/chatter/uploads/media"
	DefaultMediaMaxUploadSizeMB = 10
	// ImageMaxSize is the longest edge kept when normalizing oversized images.
	ImageMaxSize = 2048
	WebPQuality  = 70
)

// MediaUpload carries an uploaded file through the add/edit flows.
type MediaUpload struct {
	Filename string
	Content  []byte
}

// Verdict is the classification of an uploaded file.
type Verdict struct {
	Accepted bool
	Kind     models.MediaKind
	Reason   string
}

// MediaStore persists accepted attachment bytes and returns a serveable URL.
type MediaStore interface {
	Put(ctx context.Context, name string, content []byte) (string, error)
}

// DiskMediaStore stores media on the local filesystem.
type DiskMediaStore struct {
	dir string
}

// NewDiskMediaStore creates a MediaStore rooted at dir.
func NewDiskMediaStore(dir string) *DiskMediaStore {
	return &DiskMediaStore{dir: dir}
}

func (s *DiskMediaStore) Put(_ context.Context, name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return "/media/" + name, nil
}

// AttachmentService classifies uploaded files and stores the accepted ones.
// Images are decode-verified and oversized ones are downscaled and
// re-encoded as WebP before storage; videos are passed through after a MIME
// sniff.
type AttachmentService struct {
	store    MediaStore
	maxBytes int64
}

// NewAttachmentService creates an AttachmentService over the given store.
func NewAttachmentService(store MediaStore, cfg *config.Config) *AttachmentService {
	maxUploadSizeMB := DefaultMediaMaxUploadSizeMB
	if cfg != nil && cfg.MediaMaxUploadSizeMB > 0 {
		maxUploadSizeMB = cfg.MediaMaxUploadSizeMB
	}
	return &AttachmentService{
		store:    store,
		maxBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

var videoMIMEs = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

var videoExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
}

func isAllowedImageMIME(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// Classify decides whether the file is an acceptable image or video.
func (s *AttachmentService) Classify(filename string, content []byte) Verdict {
	if len(content) == 0 {
		return Verdict{Reason: "No file uploaded"}
	}
	if int64(len(content)) > s.maxBytes {
		return Verdict{Reason: fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024))}
	}

	detectedType := http.DetectContentType(content)

	if isAllowedImageMIME(detectedType) {
		if _, _, err := image.Decode(bytes.NewReader(content)); err != nil {
			return Verdict{Reason: "Invalid image file"}
		}
		return Verdict{Accepted: true, Kind: models.MediaKindImage}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if videoMIMEs[detectedType] || (strings.HasPrefix(detectedType, "application/octet-stream") && videoExts[ext]) {
		return Verdict{Accepted: true, Kind: models.MediaKindVideo}
	}

	return Verdict{Reason: "Unsupported media type"}
}

// SaveMedia classifies the file and stores it when accepted. Rejections come
// back as validation errors so the request layer can surface the reason.
func (s *AttachmentService) SaveMedia(ctx context.Context, filename string, content []byte) (string, models.MediaKind, error) {
	verdict := s.Classify(filename, content)
	if !verdict.Accepted {
		return "", "", models.NewValidationError(verdict.Reason)
	}

	name := uuid.NewString()
	stored := content

	switch verdict.Kind {
	case models.MediaKindImage:
		normalized, err := normalizeImage(content)
		if err != nil {
			return "", "", models.NewValidationError("Invalid image file")
		}
		stored = normalized
		name += ".webp"
	case models.MediaKindVideo:
		ext := strings.ToLower(filepath.Ext(filename))
		if !videoExts[ext] {
			ext = ".mp4"
		}
		name += ext
	}

	url, err := s.store.Put(ctx, name, stored)
	if err != nil {
		return "", "", models.NewInternalError(err)
	}
	return url, verdict.Kind, nil
}

// normalizeImage decodes the image, downscales anything larger than
// ImageMaxSize on its longest edge, and re-encodes as WebP.
func normalizeImage(content []byte) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	bounds := decoded.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > ImageMaxSize || h > ImageMaxSize {
		scale := float64(ImageMaxSize) / float64(max(w, h))
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), decoded, bounds, xdraw.Over, nil)
		decoded = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, decoded, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

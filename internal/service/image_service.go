package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"yatube/internal/config"
	"yatube/internal/featureflags"
	"yatube/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMediaRoot    = "/tmp/yatube/media"
	MaxImageUploadBytes = 10 * 1024 * 1024
	ThumbnailMaxSize    = 256
	WebPQuality         = 70
)

// ImageUpload is the raw uploaded file from a post form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SavedImage points at the stored original and its WebP thumbnail,
// both relative to the media root.
type SavedImage struct {
	Path      string
	ThumbPath string
}

// ImageService validates uploaded post images and stores them under the
// media root, content-addressed by hash so re-uploads are deduplicated.
type ImageService struct {
	mediaRoot string
	flags     *featureflags.Manager
}

func NewImageService(cfg *config.Config) *ImageService {
	mediaRoot := DefaultMediaRoot
	rawFlags := ""
	if cfg != nil {
		if cfg.MediaRoot != "" {
			mediaRoot = cfg.MediaRoot
		}
		rawFlags = cfg.FeatureFlags
	}
	return &ImageService{
		mediaRoot: mediaRoot,
		flags:     featureflags.NewManager(rawFlags),
	}
}

// Save decodes, validates and persists the upload. Validation failures are
// reported against the "image" form field.
func (s *ImageService) Save(in ImageUpload) (*SavedImage, error) {
	if len(in.Content) == 0 {
		return nil, models.NewFieldValidationError("image", "No file uploaded")
	}
	if int64(len(in.Content)) > MaxImageUploadBytes {
		return nil, models.NewFieldValidationError("image", fmt.Sprintf("File too large (max %dMB)", MaxImageUploadBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewFieldValidationError("image", "Upload a valid image")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewFieldValidationError("image", "Upload a valid image")
	}
	ext := formatExtension(format)
	if ext == "" {
		return nil, models.NewFieldValidationError("image", "Unsupported image format")
	}

	hash := contentHash(in.Content)
	rel := filepath.ToSlash(filepath.Join("posts", hash+"."+ext))
	thumbRel := filepath.ToSlash(filepath.Join("posts", "thumb", hash+".webp"))

	if err := writeBytesToFile(filepath.Join(s.mediaRoot, rel), in.Content); err != nil {
		return nil, models.NewInternalError(err)
	}

	// Ops kill switch for the WebP encoder.
	if s.flags.Enabled("disable_webp_thumbnails", 0) {
		return &SavedImage{Path: rel}, nil
	}

	thumb := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)
	thumbBytes, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(filepath.Join(s.mediaRoot, thumbRel), thumbBytes); err != nil {
		return nil, models.NewInternalError(err)
	}

	return &SavedImage{Path: rel, ThumbPath: thumbRel}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func formatExtension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "jpg"
	case "png":
		return "png"
	case "gif":
		return "gif"
	case "webp":
		return "webp"
	default:
		return ""
	}
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

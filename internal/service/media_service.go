package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log/slog"
	"path/filepath"
	"strings"

	"vzsocial/internal/cache"
	"vzsocial/internal/models"
	"vzsocial/internal/observability"
	"vzsocial/internal/repository"
	"vzsocial/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

const (
	maxPostImages      = 10
	thumbnailMaxWidth  = 480
	thumbnailQuality   = 80
	thumbnailFieldName = "thumbnail"
)

var allowedUploadExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
}

// FileUpload is one multipart file held in memory.
type FileUpload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

type UploadPostInput struct {
	CustomerID uint
	PostType   string
	Type       string
	Detail     string
	Location   string
	Song       string
	Images     []FileUpload
	Thumbnail  *FileUpload
}

type UploadSongInput struct {
	Title    string
	Artist   string
	Detail   string
	Location string
	Image    *FileUpload
	Song     *FileUpload
}

// uploader writes validated files to object storage.
type uploader struct {
	store storage.ObjectStore
}

type MediaService struct {
	uploader
	postRepo     repository.PostRepository
	songRepo     repository.SongRepository
	customerRepo repository.CustomerRepository
}

func NewMediaService(
	postRepo repository.PostRepository,
	songRepo repository.SongRepository,
	customerRepo repository.CustomerRepository,
	store storage.ObjectStore,
) *MediaService {
	return &MediaService{
		uploader:     uploader{store: store},
		postRepo:     postRepo,
		songRepo:     songRepo,
		customerRepo: customerRepo,
	}
}

// UploadPost stores the files and records a post, reel or story.
func (s *MediaService) UploadPost(ctx context.Context, in UploadPostInput) (*models.Post, error) {
	switch in.PostType {
	case models.PostTypePost, models.PostTypeReel, models.PostTypeStory:
	default:
		return nil, models.NewValidationError("unknown post type")
	}
	if in.CustomerID == 0 {
		return nil, models.NewValidationError("customer_id is required")
	}
	if in.Type != models.MediaTypeImage && in.Type != models.MediaTypeVideo {
		return nil, models.NewValidationError("type must be Image or Video")
	}
	if len(in.Images) == 0 {
		return nil, models.NewValidationError("at least one image file is required")
	}
	if len(in.Images) > maxPostImages {
		return nil, models.NewValidationError(fmt.Sprintf("at most %d files are allowed", maxPostImages))
	}
	if in.PostType == models.PostTypePost && in.Thumbnail != nil {
		return nil, models.NewValidationError("thumbnails are only accepted for reels and stories")
	}
	files := make([]FileUpload, 0, len(in.Images)+1)
	files = append(files, in.Images...)
	if in.Thumbnail != nil {
		files = append(files, *in.Thumbnail)
	}
	for _, f := range files {
		if _, err := uploadExt(f); err != nil {
			return nil, err
		}
	}

	if _, err := s.customerRepo.GetByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(in.Images))
	for _, f := range in.Images {
		url, err := s.put(ctx, f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	var thumb string
	switch {
	case in.Thumbnail != nil:
		url, err := s.put(ctx, *in.Thumbnail)
		if err != nil {
			return nil, err
		}
		thumb = url
	case in.PostType != models.PostTypePost:
		thumb = s.generateThumbnail(ctx, in.Images[0])
	}

	post := &models.Post{
		CustomerID: in.CustomerID,
		Type:       in.Type,
		PostType:   in.PostType,
		Media:      urls,
		Thumbnail:  thumb,
		Song:       in.Song,
		Location:   in.Location,
		Detail:     in.Detail,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidateProfiles(ctx, in.CustomerID)
	return post, nil
}

func (s *MediaService) UploadSong(ctx context.Context, in UploadSongInput) (*models.Song, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	if in.Image == nil || in.Song == nil {
		return nil, models.NewValidationError("image and song files are required")
	}
	for _, f := range []FileUpload{*in.Image, *in.Song} {
		if _, err := uploadExt(f); err != nil {
			return nil, err
		}
	}

	imageURL, err := s.put(ctx, *in.Image)
	if err != nil {
		return nil, err
	}
	songURL, err := s.put(ctx, *in.Song)
	if err != nil {
		return nil, err
	}

	song := &models.Song{
		Title:    strings.TrimSpace(in.Title),
		Artist:   in.Artist,
		Detail:   in.Detail,
		Location: in.Location,
		Image:    imageURL,
		SongURL:  songURL,
	}
	if err := s.songRepo.Create(ctx, song); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.SongsKey)
	return song, nil
}

// ListSongs returns every song newest first, served from Redis when warm.
func (s *MediaService) ListSongs(ctx context.Context) ([]models.Song, error) {
	var songs []models.Song
	err := cache.Aside(ctx, cache.SongsKey, &songs, cache.SongsTTL, func() error {
		var err error
		songs, err = s.songRepo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

func uploadExt(f FileUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if _, ok := allowedUploadExt[ext]; !ok {
		return "", models.NewValidationError(fmt.Sprintf("file type %q is not allowed", ext))
	}
	if len(f.Data) == 0 {
		return "", models.NewValidationError(fmt.Sprintf("file %q is empty", f.Filename))
	}
	return ext, nil
}

func objectKey(field, ext string) string {
	return fmt.Sprintf("%s-%s%s", uuid.NewString(), field, ext)
}

// put stores f under a fresh "<uuid>-<field><ext>" key.
func (u uploader) put(ctx context.Context, f FileUpload) (string, error) {
	ext, err := uploadExt(f)
	if err != nil {
		return "", err
	}
	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = allowedUploadExt[ext]
	}
	return u.putBytes(ctx, objectKey(f.Field, ext), contentType, f.Field, f.Data)
}

func (u uploader) putBytes(ctx context.Context, key, contentType, kind string, data []byte) (string, error) {
	url, err := u.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	observability.MediaUploadBytes.WithLabelValues(kind).Observe(float64(len(data)))
	return url, nil
}

// generateThumbnail renders a WebP preview of an image upload. Failures are
// logged and yield no thumbnail.
func (u uploader) generateThumbnail(ctx context.Context, f FileUpload) string {
	if ext, _ := uploadExt(f); !strings.HasPrefix(allowedUploadExt[ext], "image/") {
		return ""
	}
	data, err := makeThumbnail(f.Data, thumbnailMaxWidth)
	if err != nil {
		slog.WarnContext(ctx, "thumbnail generation failed", "file", f.Filename, "err", err)
		return ""
	}
	url, err := u.putBytes(ctx, objectKey(thumbnailFieldName, ".webp"), "image/webp", thumbnailFieldName, data)
	if err != nil {
		slog.WarnContext(ctx, "thumbnail upload failed", "err", err)
		return ""
	}
	return url
}

func makeThumbnail(src []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	resized := resizeToWidth(img, maxWidth)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func resizeToWidth(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth || w <= 0 || h <= 0 {
		return src
	}
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

package service

import (
	"strings"
	"testing"

	"vzsocial/internal/cache"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"
	"vzsocial/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) mediaService() *MediaService {
	return NewMediaService(e.posts, repository.NewSongRepository(e.db), e.customers, e.store)
}

func pngUpload(t *testing.T, field string, w, h int) FileUpload {
	return FileUpload{Field: field, Filename: field + ".png", ContentType: "image/png", Data: testutil.TinyPNG(t, w, h)}
}

func TestMediaService_UploadPost_Validation(t *testing.T) {
	e := newTestEnv(t)
	u := e.customer(t, "u")
	svc := e.mediaService()
	img := pngUpload(t, "image", 4, 4)

	tests := []struct {
		name string
		in   UploadPostInput
	}{
		{"unknown post type", UploadPostInput{CustomerID: u.ID, PostType: "album", Type: models.MediaTypeImage, Images: []FileUpload{img}}},
		{"missing customer", UploadPostInput{PostType: models.PostTypePost, Type: models.MediaTypeImage, Images: []FileUpload{img}}},
		{"bad media type", UploadPostInput{CustomerID: u.ID, PostType: models.PostTypePost, Type: "Gif", Images: []FileUpload{img}}},
		{"no files", UploadPostInput{CustomerID: u.ID, PostType: models.PostTypePost, Type: models.MediaTypeImage}},
		{"too many files", UploadPostInput{CustomerID: u.ID, PostType: models.PostTypePost, Type: models.MediaTypeImage, Images: make([]FileUpload, 11)}},
		{"disallowed extension", UploadPostInput{CustomerID: u.ID, PostType: models.PostTypePost, Type: models.MediaTypeImage,
			Images: []FileUpload{{Field: "image", Filename: "x.exe", Data: []byte("MZ")}}}},
		{"thumbnail on post", UploadPostInput{CustomerID: u.ID, PostType: models.PostTypePost, Type: models.MediaTypeImage,
			Images: []FileUpload{img}, Thumbnail: &img}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadPost(ctx, tt.in)
			assertValidationError(t, err)
		})
	}
	assert.Zero(t, e.store.Len(), "nothing is stored when validation fails")
}

func TestMediaService_UploadPost(t *testing.T) {
	e := newTestEnv(t)
	u := e.customer(t, "u")
	svc := e.mediaService()

	post, err := svc.UploadPost(ctx, UploadPostInput{
		CustomerID: u.ID,
		PostType:   models.PostTypePost,
		Type:       models.MediaTypeImage,
		Detail:     "sunset",
		Images:     []FileUpload{pngUpload(t, "image", 4, 4), pngUpload(t, "image", 8, 8)},
	})
	require.NoError(t, err)
	require.Len(t, post.Media, 2)
	for _, url := range post.Media {
		assert.True(t, strings.HasPrefix(url, "mem://"))
		assert.True(t, strings.HasSuffix(url, "-image.png"))
	}
	assert.Empty(t, post.Thumbnail)

	stored, err := e.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Media, stored.Media)

	_, err = svc.UploadPost(ctx, UploadPostInput{
		CustomerID: 999,
		PostType:   models.PostTypePost,
		Type:       models.MediaTypeImage,
		Images:     []FileUpload{pngUpload(t, "image", 4, 4)},
	})
	assertAppError(t, err, models.CodeNotFound)
}

func TestMediaService_UploadReel_Thumbnails(t *testing.T) {
	e := newTestEnv(t)
	u := e.customer(t, "u")
	svc := e.mediaService()

	t.Run("generated from the first image", func(t *testing.T) {
		story, err := svc.UploadPost(ctx, UploadPostInput{
			CustomerID: u.ID,
			PostType:   models.PostTypeStory,
			Type:       models.MediaTypeImage,
			Images:     []FileUpload{pngUpload(t, "image", 960, 10)},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(story.Thumbnail, "-thumbnail.webp"))

		key := strings.TrimPrefix(story.Thumbnail, "mem://")
		assert.Equal(t, "image/webp", e.store.Types[key])
	})

	t.Run("explicit thumbnail wins", func(t *testing.T) {
		thumb := pngUpload(t, "thumbnail", 2, 2)
		reel, err := svc.UploadPost(ctx, UploadPostInput{
			CustomerID: u.ID,
			PostType:   models.PostTypeReel,
			Type:       models.MediaTypeVideo,
			Images:     []FileUpload{{Field: "image", Filename: "clip.mp4", Data: []byte("video")}},
			Thumbnail:  &thumb,
		})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(reel.Thumbnail, "-thumbnail.png"))
	})

	t.Run("video without thumbnail has none", func(t *testing.T) {
		reel, err := svc.UploadPost(ctx, UploadPostInput{
			CustomerID: u.ID,
			PostType:   models.PostTypeReel,
			Type:       models.MediaTypeVideo,
			Images:     []FileUpload{{Field: "image", Filename: "clip.mp4", Data: []byte("video")}},
		})
		require.NoError(t, err)
		assert.Empty(t, reel.Thumbnail)
	})

	t.Run("undecodable image is skipped", func(t *testing.T) {
		reel, err := svc.UploadPost(ctx, UploadPostInput{
			CustomerID: u.ID,
			PostType:   models.PostTypeReel,
			Type:       models.MediaTypeImage,
			Images:     []FileUpload{{Field: "image", Filename: "broken.png", Data: []byte("not a png")}},
		})
		require.NoError(t, err)
		assert.Empty(t, reel.Thumbnail)
	})
}

func TestResizeToWidth(t *testing.T) {
	data, err := makeThumbnail(testutil.TinyPNG(t, 960, 20), 480)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	small := resizeToWidth(mustDecodePNG(t, testutil.TinyPNG(t, 100, 50)), 480)
	assert.Equal(t, 100, small.Bounds().Dx())
}

func TestMediaService_Songs(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	e := newTestEnv(t)
	svc := e.mediaService()

	_, err := svc.UploadSong(ctx, UploadSongInput{Title: "no files"})
	assertValidationError(t, err)

	songs, err := svc.ListSongs(ctx)
	require.NoError(t, err)
	assert.Empty(t, songs)
	assert.True(t, mr.Exists(cache.SongsKey))

	img := pngUpload(t, "image", 2, 2)
	track := FileUpload{Field: "song", Filename: "track.mp3", ContentType: "audio/mpeg", Data: []byte("ID3")}
	song, err := svc.UploadSong(ctx, UploadSongInput{Title: "Blue", Artist: "Band", Image: &img, Song: &track})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(song.SongURL, "-song.mp3"))
	assert.False(t, mr.Exists(cache.SongsKey), "upload invalidates the song list")

	songs, err = svc.ListSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Blue", songs[0].Title)
}

func TestMediaService_StoreFailureIsInternal(t *testing.T) {
	e := newTestEnv(t)
	u := e.customer(t, "u")
	e.store.FailPut = true

	_, err := e.mediaService().UploadPost(ctx, UploadPostInput{
		CustomerID: u.ID,
		PostType:   models.PostTypePost,
		Type:       models.MediaTypeImage,
		Images:     []FileUpload{pngUpload(t, "image", 2, 2)},
	})
	assertAppError(t, err, models.CodeInternal)
}

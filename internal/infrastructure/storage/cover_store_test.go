package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
)

func newTestStore(maxBytes int64, maxW, maxH int) (*CoverStore, afero.Fs) {
	fs := afero.NewMemMapFs()
	s := NewCoverStore(fs, config.StorageConfig{
		UploadDir:      "/ignored",
		PublicPrefix:   "/uploads",
		MaxUploadBytes: maxBytes,
		MaxWidth:       maxW,
		MaxHeight:      maxH,
	})
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, fs
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCoverStore_Store(t *testing.T) {
	s, fs := newTestStore(1<<20, 0, 0)
	data := pngBytes(t, 4, 4)

	ref, err := s.Store(context.Background(), bytes.NewReader(data), "cover.JPG")
	require.NoError(t, err)
	// 扩展名由内容决定，不使用客户端文件名
	assert.Regexp(t, regexp.MustCompile(`^/uploads/coverImage-1700000000000-[0-9a-f]{8}\.png$`), ref)

	stored, err := afero.ReadFile(fs, strings.TrimPrefix(ref, "/uploads"))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
	assert.True(t, s.Exists(ref))

	other, err := s.Store(context.Background(), bytes.NewReader(data), "cover.png")
	require.NoError(t, err)
	assert.NotEqual(t, ref, other, "同一毫秒内的两次上传文件名也不同")
}

func TestCoverStore_Store_Rejects(t *testing.T) {
	s, fs := newTestStore(64, 0, 0)

	t.Run("非图片", func(t *testing.T) {
		_, err := s.Store(context.Background(), strings.NewReader("plain text"), "a.jpg")
		assert.ErrorIs(t, err, book.ErrUnsupportedCover)
	})

	t.Run("空文件", func(t *testing.T) {
		_, err := s.Store(context.Background(), strings.NewReader(""), "a.png")
		assert.ErrorIs(t, err, book.ErrUnsupportedCover)
	})

	t.Run("超过大小限制", func(t *testing.T) {
		_, err := s.Store(context.Background(), bytes.NewReader(pngBytes(t, 64, 64)), "a.png")
		assert.ErrorIs(t, err, book.ErrCoverTooLarge)
	})

	t.Run("Context已取消", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Store(ctx, bytes.NewReader([]byte{}), "a.png")
		assert.ErrorIs(t, err, context.Canceled)
	})

	files, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	assert.Empty(t, files, "拒绝的上传不应留下文件")
}

func TestCoverStore_Downscale(t *testing.T) {
	s, fs := newTestStore(1<<20, 20, 10)

	ref, err := s.Store(context.Background(), bytes.NewReader(pngBytes(t, 80, 20)), "big.png")
	require.NoError(t, err)

	f, err := fs.Open(strings.TrimPrefix(ref, "/uploads"))
	require.NoError(t, err)
	defer f.Close()

	img, err := imaging.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy(), "等比缩小")
}

func TestCoverStore_Delete(t *testing.T) {
	s, _ := newTestStore(1<<20, 0, 0)
	ctx := context.Background()

	ref, err := s.Store(ctx, bytes.NewReader(pngBytes(t, 2, 2)), "a.png")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, ref))
	assert.False(t, s.Exists(ref))

	assert.NoError(t, s.Delete(ctx, ref), "文件不存在视为成功")

	for _, bad := range []string{
		"",
		"/uploads/",
		"/uploads/../etc/passwd",
		"/uploads/sub/a.png",
		`/uploads/..\a.png`,
		"/other/a.png",
		"coverImage-1.png",
	} {
		assert.ErrorIs(t, s.Delete(ctx, bad), book.ErrInvalidCoverRef, bad)
	}
}

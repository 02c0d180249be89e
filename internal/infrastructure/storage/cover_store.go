// Package storage 封面文件存储（afero文件系统）
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

const filePerm = 0o644

// CoverStore 实现book.CoverStore
// 设计说明：
// 1. 文件名由服务端生成：coverImage-<毫秒时间戳>-<8位uuid>.<扩展名>，一个文件只属于一条记录
// 2. 文件内容嗅探类型（不信任客户端的Content-Type和文件名）
// 3. 超过最大宽高的图片等比缩小后按原格式重新编码
// 4. fs根目录即上传目录，文件都在根目录下（/<文件名>），生产环境为BasePathFs，测试使用MemMapFs
type CoverStore struct {
	fs        afero.Fs
	prefix    string
	maxBytes  int64
	maxWidth  int
	maxHeight int
	now       func() time.Time
}

// NewCoverStore 创建封面存储
func NewCoverStore(fs afero.Fs, cfg config.StorageConfig) *CoverStore {
	return &CoverStore{
		fs:        fs,
		prefix:    strings.TrimRight(cfg.PublicPrefix, "/"),
		maxBytes:  cfg.MaxUploadBytes,
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		now:       time.Now,
	}
}

// NewLocalCoverStore 创建基于本地目录的封面存储（目录不存在时自动创建）
func NewLocalCoverStore(cfg config.StorageConfig) (*CoverStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return NewCoverStore(afero.NewBasePathFs(osFs, cfg.UploadDir), cfg), nil
}

// Store 保存封面并返回对外引用
func (s *CoverStore) Store(ctx context.Context, content io.Reader, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// 多读1字节用于判断是否超限
	data, err := io.ReadAll(io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		return "", apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "读取封面失败")
	}
	if int64(len(data)) > s.maxBytes {
		return "", book.ErrCoverTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", book.ErrUnsupportedCover
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(suggestedName))
	}
	if ext == "" {
		ext = ".img"
	}

	data = s.downscale(data, ext)

	name := fmt.Sprintf("coverImage-%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)
	if err := afero.WriteFile(s.fs, "/"+name, data, filePerm); err != nil {
		return "", apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "保存封面失败")
	}

	return s.prefix + "/" + name, nil
}

// Delete 删除引用指向的文件，文件不存在视为成功
func (s *CoverStore) Delete(ctx context.Context, ref string) error {
	name, err := s.nameOf(ref)
	if err != nil {
		return err
	}

	if err := s.fs.Remove("/" + name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "删除封面失败")
	}
	return nil
}

// Exists 文件是否存在
func (s *CoverStore) Exists(ref string) bool {
	name, err := s.nameOf(ref)
	if err != nil {
		return false
	}
	ok, _ := afero.Exists(s.fs, "/"+name)
	return ok
}

// FileSystem 用于静态文件服务（GET /uploads/*filepath）
func (s *CoverStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}

// Prefix 对外URL前缀
func (s *CoverStore) Prefix() string {
	return s.prefix
}

// nameOf 引用 → 文件名
// 只接受<prefix>/<文件名>，拒绝子目录和路径穿越
func (s *CoverStore) nameOf(ref string) (string, error) {
	name, ok := strings.CutPrefix(ref, s.prefix+"/")
	if !ok || name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || path.Clean(name) != name {
		return "", book.ErrInvalidCoverRef
	}
	return name, nil
}

// downscale 超过最大宽高时等比缩小
// 无法解码或编码的格式原样保存
func (s *CoverStore) downscale(data []byte, ext string) []byte {
	if s.maxWidth <= 0 && s.maxHeight <= 0 {
		return data
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	maxW, maxH := s.maxWidth, s.maxHeight
	if maxW <= 0 {
		maxW = bounds.Dx()
	}
	if maxH <= 0 {
		maxH = bounds.Dy()
	}
	if bounds.Dx() <= maxW && bounds.Dy() <= maxH {
		return data
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(img, maxW, maxH, imaging.Lanczos), format); err != nil {
		return data
	}
	return buf.Bytes()
}

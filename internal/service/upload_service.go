package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"

	"utc-go/internal/apperror"
	"utc-go/internal/dto"
	"utc-go/internal/utils"
	"utc-go/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UploadService 图片上传服务
type UploadService struct {
	store    storage.Store
	maxBytes int64
	logger   logrus.FieldLogger
}

// NewUploadService 创建上传服务
func NewUploadService(store storage.Store, maxBytes int64, logger logrus.FieldLogger) *UploadService {
	return &UploadService{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// SaveImages 保存上传的图片并返回公开访问地址
// 内容不是图片的文件被静默跳过；一张图片都没有时返回校验错误
func (s *UploadService) SaveImages(ctx context.Context, files []*multipart.FileHeader) (*dto.UploadResponse, error) {
	if len(files) == 0 {
		return nil, apperror.Validation("没有上传文件")
	}
	for _, fh := range files {
		if s.maxBytes > 0 && fh.Size > s.maxBytes {
			return nil, apperror.Validation("文件 %s 超过大小限制（%d MB）", fh.Filename, s.maxBytes>>20)
		}
	}

	resp := &dto.UploadResponse{URLs: make([]string, 0, len(files))}
	for _, fh := range files {
		data, err := s.readFile(fh)
		if err != nil {
			return nil, err
		}

		contentType, ext, ok := utils.DetectImage(data)
		if !ok {
			resp.Skipped++
			s.logger.WithFields(logrus.Fields{
				"filename":     fh.Filename,
				"content_type": contentType,
			}).Debug("跳过非图片文件")
			continue
		}
		if ext == "" {
			ext = utils.SafeExtension(fh.Filename)
		}

		key := uuid.NewString() + ext
		url, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
			ContentType: contentType,
			Size:        int64(len(data)),
		})
		if err != nil {
			return nil, apperror.Internal("保存文件失败", err)
		}
		resp.URLs = append(resp.URLs, url)
	}

	if len(resp.URLs) == 0 {
		return nil, apperror.Validation("只支持上传图片文件")
	}
	return resp, nil
}

func (s *UploadService) readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal("读取上传文件失败", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if s.maxBytes > 0 {
		reader = io.LimitReader(f, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperror.Internal("读取上传文件失败", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, apperror.Validation("文件 %s 超过大小限制", fh.Filename)
	}
	return data, nil
}

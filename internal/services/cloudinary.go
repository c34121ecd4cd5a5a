package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// UploadedFile describes a stored upload.
type UploadedFile struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format,omitempty"`
	Bytes    int    `json:"bytes"`
}

// Uploader stores a multipart file (portfolio images, certificate PDFs,
// request attachments) under folder.
type Uploader interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*UploadedFile, error)
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

var _ Uploader = (*CloudinaryService)(nil)

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryService{cld: cld}, nil
}

// Upload streams the file to Cloudinary under a random public ID so client
// file names never collide or leak into URLs.
func (s *CloudinaryService) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*UploadedFile, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		PublicID:       uuid.NewString(),
		ResourceType:   "auto", // image, video or raw (PDF certificates)
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if msg := strings.TrimSpace(res.Error.Message); msg != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", msg)
	}
	return &UploadedFile{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Format:   res.Format,
		Bytes:    res.Bytes,
	}, nil
}

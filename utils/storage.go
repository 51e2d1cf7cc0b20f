package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Storage wraps the Cloudinary client used for media and document
// uploads. Built once in main and passed to the handlers that upload.
type Storage struct {
	cld *cloudinary.Cloudinary
}

func NewStorage(cloudName, apiKey, apiSecret string) (*Storage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary environment variables are not set")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("error initializing cloudinary: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := cld.Admin.Ping(ctx); err != nil {
		return nil, fmt.Errorf("error checking the cloudinary connection: %v", err)
	}

	return &Storage{cld: cld}, nil
}

func boolPointer(b bool) *bool {
	return &b
}

var validMediaExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".mp4", ".mov", ".webm", ".pdf"}

func isValidMediaType(filename string) bool {
	lowerFilename := strings.ToLower(filename)
	for _, ext := range validMediaExtensions {
		if strings.HasSuffix(lowerFilename, ext) {
			return true
		}
	}
	return false
}

// Upload stores a file under the given folder. The public id is
// namespaced by the owner id plus a timestamp so concurrent uploads by
// different owners never collide.
func (s *Storage) Upload(file *multipart.FileHeader, folder, ownerID string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("media storage is not configured")
	}

	if !isValidMediaType(file.Filename) {
		return "", fmt.Errorf("unsupported file format")
	}

	// 50MB cap, videos included
	if file.Size > 50*1024*1024 {
		return "", fmt.Errorf("file too large, maximum 50MB allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening the file: %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	publicID := fmt.Sprintf("%s_%d", ownerID, time.Now().Unix())

	uploadResult, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		UseFilename:    boolPointer(false),
		UniqueFilename: boolPointer(true),
		Overwrite:      boolPointer(false),
		ResourceType:   "auto",
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to cloudinary: %v", err)
	}

	if uploadResult.SecureURL == "" {
		return "", fmt.Errorf("empty secure URL in the cloudinary response")
	}

	return uploadResult.SecureURL, nil
}

// Delete removes a previously uploaded asset by its delivery URL.
func (s *Storage) Delete(assetURL string) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("media storage is not configured")
	}

	publicID := publicIDFromURL(assetURL)
	if publicID == "" {
		return fmt.Errorf("could not extract the public id from %q", assetURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// publicIDFromURL strips the delivery prefix, the version segment and
// the extension from a cloudinary URL.
func publicIDFromURL(assetURL string) string {
	idx := strings.Index(assetURL, "/upload/")
	if idx < 0 {
		return ""
	}
	path := assetURL[idx+len("/upload/"):]

	if strings.HasPrefix(path, "v") {
		if slash := strings.Index(path, "/"); slash > 0 {
			path = path[slash+1:]
		}
	}

	if dot := strings.LastIndex(path, "."); dot > 0 {
		path = path[:dot]
	}
	return path
}

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("media: cloudinary not configured")

// HostError carries the media host's reported failure so the gateway can
// surface the host's status code and message instead of a blanket 500.
type HostError struct {
	Code    int
	Message string
	Details interface{}
}

func (e *HostError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("media: host rejected upload (%d): %s", e.Code, e.Message)
	}
	return "media: host rejected upload: " + e.Message
}

// Uploader forwards validated image bytes to Cloudinary and returns the
// assigned secure URL. Nothing is persisted locally.
type Uploader struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

func NewUploader(cloudName, apiKey, apiSecret string, timeout time.Duration) (*Uploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("media: cloudinary init: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Uploader{
		cld:     cld,
		folder:  "avatars",
		timeout: timeout,
	}, nil
}

// Upload forwards the file to Cloudinary. The forward call is bounded by the
// configured timeout (60s by default); exceeding it fails the request.
func (u *Uploader) Upload(ctx context.Context, file io.Reader, userID string) (string, error) {
	if u == nil || u.cld == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	publicID := userID + "_" + uuid.New().String()
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       publicID,
		Transformation: "c_limit,w_400,h_400,q_auto",
	})
	if err != nil {
		return "", fmt.Errorf("media: upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", &HostError{Message: res.Error.Message}
	}
	if res.SecureURL == "" {
		return "", errors.New("media: host returned no URL")
	}
	return res.SecureURL, nil
}

package facade

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

type Storage struct {
	c Client
}

// UploadAvatar stores the image under avatars/<userID>/<random>.<ext> and returns
// its public URL. The extension comes from the sniffed content, or from filename
// when the content is not recognized.
func (s *Storage) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) (string, error) {
	if _, err := caller(s.c); err != nil {
		return "", err
	}

	detected := mimetype.Detect(data)
	ext := detected.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}

	path := userID.String() + "/" + uuid.NewString() + ext
	res, err := s.c.Upload(ctx, domain.AvatarBucket, path, detected.String(), bytes.NewReader(data))
	if err != nil {
		return "", translate("upload avatar", err)
	}
	return res.PublicURL, nil
}

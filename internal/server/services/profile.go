package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

// BlobStore keeps uploaded pictures.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.ReadSeeker, size int64) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// Profile is a user as shown to its owner, with the picture key resolved
// into a fetchable URL.
type Profile struct {
	User       *models.User
	PictureURL string
}

// ProfileService reads and edits the caller's own profile.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       BlobStore
	maxBytes    int64
	log         logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, blobs BlobStore, cfg *config.Config, log logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		maxBytes:    cfg.MaxPictureBytes,
		log:         log.With("module", "profile"),
	}
}

// Get returns the caller's profile or common.ErrorNotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, wrapRepoErr("get profile", err)
	}
	return s.profile(ctx, user), nil
}

// Update applies the supplied profile fields. Names cannot be blanked.
func (s *ProfileService) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*Profile, error) {
	if upd.FirstName != nil {
		v := strings.TrimSpace(*upd.FirstName)
		if v == "" {
			return nil, common.NewValidationError("First name cannot be empty")
		}
		upd.FirstName = &v
	}
	if upd.LastName != nil {
		v := strings.TrimSpace(*upd.LastName)
		if v == "" {
			return nil, common.NewValidationError("Last name cannot be empty")
		}
		upd.LastName = &v
	}

	user, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, wrapRepoErr("update profile", err)
	}
	return s.profile(ctx, user), nil
}

// UploadPicture stores an image of size bytes read from body as the caller's
// profile picture and returns a URL for it.
func (s *ProfileService) UploadPicture(ctx context.Context, userID, filename string, body io.ReadSeeker, size int64) (string, error) {
	if body == nil || size <= 0 {
		return "", common.NewValidationError("No file provided")
	}
	if size > s.maxBytes {
		return "", common.NewValidationError(fmt.Sprintf("File is too large (max %d bytes)", s.maxBytes))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("%w: read upload: %v", common.ErrorInternal, err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", common.NewValidationError("File must be an image")
	}

	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: rewind upload: %v", common.ErrorInternal, err)
	}

	key := pictureKey(userID, filename, contentType)
	if err := s.blobs.Put(ctx, key, contentType, body, size); err != nil {
		return "", fmt.Errorf("%w: store picture: %v", common.ErrorInternal, err)
	}

	if err := s.repomanager.Users(s.db).SetProfilePicture(ctx, userID, key); err != nil {
		return "", wrapRepoErr("save picture", err)
	}

	url, err := s.blobs.PresignGet(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: presign picture: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "profile picture uploaded", "user_id", userID, "key", key, "size", size)
	return url, nil
}

func (s *ProfileService) profile(ctx context.Context, user *models.User) *Profile {
	p := &Profile{User: user}
	if user.ProfilePicture == "" {
		return p
	}

	url, err := s.blobs.PresignGet(ctx, user.ProfilePicture)
	if err != nil {
		s.log.Warn(ctx, "presign profile picture", "user_id", user.ID, "error", err)
		return p
	}
	p.PictureURL = url
	return p
}

func pictureKey(userID, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return fmt.Sprintf("users/%s/pictures/%s%s", userID, uuid.NewString(), ext)
}

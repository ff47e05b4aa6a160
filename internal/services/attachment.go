package services

import (
	"io"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"clientdesk/internal/models"
	"clientdesk/internal/storage"
)

// AttachmentService stores uploaded blobs and records their metadata
// against an owning entity. Blob writes are best effort unless strict: a
// failed write is logged, the owner's mutation stands, and no metadata row
// is created.
type AttachmentService struct {
	db     *gorm.DB
	store  storage.BlobStore
	disk   string
	strict bool
}

func NewAttachmentService(db *gorm.DB, store storage.BlobStore, disk string, strict bool) *AttachmentService {
	return &AttachmentService{db: db, store: store, disk: disk, strict: strict}
}

type Attachment struct {
	OriginalName string
	MimeType     string
}

// Store writes the blob under a path derived from the original filename
// and, when the write succeeds, records a File row owned by
// (ownerType, ownerID). The recorded size is the byte count the store
// reported writing.
func (s *AttachmentService) Store(r io.Reader, att Attachment, ownerType string, ownerID uint) (*models.File, error) {
	path := filepath.Base(att.OriginalName)

	size, err := s.store.Put(path, r)
	if err != nil {
		log.Error().Err(err).Str("file", att.OriginalName).Msg("file could not be stored")
		if s.strict {
			return nil, err
		}
		return nil, nil
	}

	file := models.File{
		Disk:         s.disk,
		Path:         path,
		OriginalName: att.OriginalName,
		MimeType:     att.MimeType,
		Size:         size,
		FileableType: ownerType,
		FileableID:   ownerID,
	}
	if err := s.db.Create(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

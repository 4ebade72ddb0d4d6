package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"claimgate/src/utils/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	ErrTooManyFiles = errors.New("too many files")
	ErrFileTooLarge = errors.New("file too large")
)

// Persists uploaded files under random names and stores their metadata.
// The upload directory is flat, original filenames survive only in the db.
func (self *Server) saveAttachments(c *gin.Context, files []*multipart.FileHeader, relatedType model.RelatedType, relatedId, uploadedBy string) (out []*model.Attachment, err error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > self.Config.Uploads.MaxFilesPerRequest {
		return nil, ErrTooManyFiles
	}
	for _, file := range files {
		if file.Size > self.Config.Uploads.MaxFileSize {
			return nil, ErrFileTooLarge
		}
	}

	err = os.MkdirAll(self.Config.Uploads.Dir, 0o755)
	if err != nil {
		return nil, err
	}

	out = make([]*model.Attachment, 0, len(files))
	for _, file := range files {
		var attachment *model.Attachment
		attachment, err = self.saveAttachment(c, file, relatedType, relatedId, uploadedBy)
		if err != nil {
			return nil, err
		}
		out = append(out, attachment)
	}
	return
}

func (self *Server) saveAttachment(c *gin.Context, file *multipart.FileHeader, relatedType model.RelatedType, relatedId, uploadedBy string) (attachment *model.Attachment, err error) {
	src, err := file.Open()
	if err != nil {
		return
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	storagePath := filepath.Join(self.Config.Uploads.Dir, name)

	dst, err := os.Create(storagePath)
	if err != nil {
		return
	}
	defer dst.Close()

	digest := sha256.New()
	size, err := io.Copy(dst, io.TeeReader(src, digest))
	if err != nil {
		os.Remove(storagePath)
		return
	}

	attachment = &model.Attachment{
		RelatedId:   relatedId,
		RelatedType: relatedType,
		Filename:    filepath.Base(file.Filename),
		ContentType: file.Header.Get("Content-Type"),
		Size:        size,
		StoragePath: storagePath,
		Sha256:      hex.EncodeToString(digest.Sum(nil)),
		UploadedBy:  uploadedBy,
	}

	err = self.store.InsertAttachment(c, attachment)
	if err != nil {
		os.Remove(storagePath)
		return nil, err
	}

	self.monitor.Report.Gateway.State.AttachmentsStored.Inc()
	return
}

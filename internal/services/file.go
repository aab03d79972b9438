package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/campushub/campushub/internal/config"
	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileService stores project attachments on local disk under uuid names and
// keeps their metadata in the database.
type FileService struct {
	db      *gorm.DB
	access  *AccessService
	dir     string
	maxSize int64
}

func NewFileService(db *gorm.DB, cfg *config.StorageConfig) *FileService {
	return &FileService{
		db:      db,
		access:  NewAccessService(db),
		dir:     cfg.Dir,
		maxSize: cfg.MaxSizeMB * 1024 * 1024,
	}
}

// List returns the project's files, gated by project visibility.
func (s *FileService) List(projectID, callerID uint) ([]models.ProjectFile, error) {
	project, _, _, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}

	var files []models.ProjectFile
	if err := s.db.Where("project_id = ?", project.ID).
		Preload("Uploader").
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Upload saves the file to disk and records it. Owner and members only.
func (s *FileService) Upload(projectID, callerID uint, header *multipart.FileHeader) (*models.ProjectFile, error) {
	project, _, role, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsOwner && !role.IsMember {
		return nil, response.NewForbidden("only the project team may upload files")
	}

	if s.maxSize > 0 && header.Size > s.maxSize {
		return nil, response.NewBadRequest(fmt.Sprintf("file exceeds the %d MB limit", s.maxSize/(1024*1024)))
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	dst := filepath.Join(s.dir, storedName)

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return nil, err
	}

	file := models.ProjectFile{
		ProjectID:  project.ID,
		UploaderID: callerID,
		Name:       filepath.Base(header.Filename),
		StoredName: storedName,
		Size:       header.Size,
	}
	if err := s.db.Create(&file).Error; err != nil {
		os.Remove(dst)
		return nil, err
	}

	LogInfo("file", "upload", fmt.Sprintf("file %d uploaded to project %d", file.ID, project.ID), &callerID, "", "", nil)
	return &file, nil
}

// Resolve returns the on-disk path and display name for a download, gated by
// project visibility.
func (s *FileService) Resolve(projectID, fileID, callerID uint) (string, string, error) {
	project, _, _, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return "", "", err
	}

	var file models.ProjectFile
	if err := s.db.Where("id = ? AND project_id = ?", fileID, project.ID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", response.NewNotFound("file not found")
		}
		return "", "", err
	}

	path := filepath.Join(s.dir, file.StoredName)
	if _, err := os.Stat(path); err != nil {
		return "", "", response.NewNotFound("file not found")
	}

	return path, file.Name, nil
}

// Delete removes a file record and its blob. The uploader or the project
// owner may delete.
func (s *FileService) Delete(projectID, fileID, callerID uint) error {
	project, _, role, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return err
	}

	var file models.ProjectFile
	if err := s.db.Where("id = ? AND project_id = ?", fileID, project.ID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("file not found")
		}
		return err
	}

	if !role.IsOwner && file.UploaderID != callerID {
		return response.NewForbidden("only the uploader or the project owner may delete files")
	}

	if err := s.db.Delete(&file).Error; err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, file.StoredName)); err != nil && !os.IsNotExist(err) {
		LogWarning("file", "delete", fmt.Sprintf("blob %s could not be removed: %v", file.StoredName, err), &callerID, "", "", nil)
	}

	LogInfo("file", "delete", fmt.Sprintf("file %d deleted from project %d", file.ID, project.ID), &callerID, "", "", nil)
	return nil
}

// PurgeStoredFiles removes blobs after a project cascade delete.
func (s *FileService) PurgeStoredFiles(storedNames []string) {
	for _, name := range storedNames {
		if name == "" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			LogWarning("file", "purge", fmt.Sprintf("blob %s could not be removed: %v", name, err), nil, "", "", nil)
		}
	}
}

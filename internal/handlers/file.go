package handlers

import (
	"strconv"

	"github.com/campushub/campushub/internal/middleware"
	"github.com/campushub/campushub/internal/services"
	"github.com/campushub/campushub/pkg/response"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// List returns the project's files
// GET /api/projects/:id/files
func (h *FileHandler) List(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	files, err := h.fileService.List(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, files)
}

// Upload stores a file on the project, team only
// POST /api/projects/:id/files
func (h *FileHandler) Upload(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file field is required")
		return
	}

	file, err := h.fileService.Upload(projectID, middleware.GetUserID(c), header)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, file)
}

// Download streams a stored file back under its display name
// GET /api/projects/:id/files/:fileId
func (h *FileHandler) Download(c *gin.Context) {
	projectID, fileID, ok := h.parseFileIDs(c)
	if !ok {
		return
	}

	path, name, err := h.fileService.Resolve(projectID, fileID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.FileAttachment(path, name)
}

// Delete removes a file, uploader or owner only
// DELETE /api/projects/:id/files/:fileId
func (h *FileHandler) Delete(c *gin.Context) {
	projectID, fileID, ok := h.parseFileIDs(c)
	if !ok {
		return
	}

	if err := h.fileService.Delete(projectID, fileID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "file deleted"})
}

func (h *FileHandler) parseProjectID(c *gin.Context) (uint, bool) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return 0, false
	}
	return uint(projectID), true
}

func (h *FileHandler) parseFileIDs(c *gin.Context) (uint, uint, bool) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return 0, 0, false
	}

	fileID, err := strconv.ParseUint(c.Param("fileId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid file id")
		return 0, 0, false
	}

	return projectID, uint(fileID), true
}

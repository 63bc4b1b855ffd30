package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collabhub/collabhub-api/internal/apierrors"
	"github.com/collabhub/collabhub-api/internal/dto"
	"github.com/collabhub/collabhub-api/internal/middleware"
	"github.com/collabhub/collabhub-api/internal/services"
)

// AttachmentHandler coordinates task attachment HTTP handlers.
type AttachmentHandler struct {
	attachmentService *services.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachmentService *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// ListAttachments returns all attachments of a task.
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	attachments, err := h.attachmentService.ListForTask(c.Param("id"), userID)
	if err != nil {
		respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTOs(attachments))
}

// AddAttachment attaches a file or link record to a task.
func (h *AttachmentHandler) AddAttachment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AddAttachmentRequest struct {
		File string `json:"file"`
		Link string `json:"link"`
		Tag  string `json:"tag"`
		Info string `json:"info" binding:"required"`
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attachment, err := h.attachmentService.Add(c.Param("id"), userID, services.AddAttachmentInput{
		File: req.File,
		Link: req.Link,
		Tag:  req.Tag,
		Info: req.Info,
	})
	if err != nil {
		respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*attachment))
}

// UpdateAttachment edits an attachment of a task.
func (h *AttachmentHandler) UpdateAttachment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateAttachmentRequest struct {
		File *string `json:"file"`
		Link *string `json:"link"`
		Tag  *string `json:"tag"`
		Info *string `json:"info"`
	}

	var req UpdateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attachment, err := h.attachmentService.Update(
		c.Param("attachment_id"), c.Param("id"), userID,
		services.UpdateAttachmentInput{
			File: req.File,
			Link: req.Link,
			Tag:  req.Tag,
			Info: req.Info,
		})
	if err != nil {
		respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTO(*attachment))
}

// DeleteAttachment removes an attachment of a task.
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	err := h.attachmentService.Delete(c.Param("attachment_id"), c.Param("id"), userID)
	if err != nil {
		respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attachment deleted",
	})
}

func respondAttachmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, "Attachment not found")
	case errors.Is(err, services.ErrInfoRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

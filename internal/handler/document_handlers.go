package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sequence-server/internal/models"
)

// createSequence создает новый документ из шапки и текстового блока с URL.
func (h *SequenceHandler) createSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req sequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	doc, err := h.sequences.Create(c.Request.Context(), userID, req.toInput(), req.ItemsText)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// listSequences возвращает страницу документов пользователя.
func (h *SequenceHandler) listSequences(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	limit := 20
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
				Code: models.ErrCodeBadRequest, Message: "Invalid limit parameter",
			})
			return
		}
		limit = parsed
	}

	docs, nextCursor, err := h.sequences.List(c.Request.Context(), userID, limit, c.Query("cursor"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if docs == nil {
		docs = []models.SequenceDocument{}
	}
	c.JSON(http.StatusOK, listSequencesResponse{Sequences: docs, NextCursor: nextCursor})
}

// getSequence возвращает документ владельца.
func (h *SequenceHandler) getSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.sequences.Get(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// viewSequence - публичный просмотр по прямой ссылке /view/{id}.
func (h *SequenceHandler) viewSequence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid sequence id",
		})
		return
	}

	doc, err := h.sequences.GetPublic(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// updateSequence перезаписывает шапку документа.
func (h *SequenceHandler) updateSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req sequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	doc, err := h.sequences.Update(c.Request.Context(), id, userID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// exportSequence возвращает плоский список URL документа.
func (h *SequenceHandler) exportSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	urls, err := h.sequences.Export(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exportResponse{URLs: urls})
}

// saveDraft перезаписывает локальный черновик пользователя.
// Отвечает 204 даже при сбое персистенса: автосохранение не должно
// прерывать редактирование.
func (h *SequenceHandler) saveDraft(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	_ = h.sequences.SaveDraft(c.Request.Context(), userID, req.toSnapshot())
	c.Status(http.StatusNoContent)
}

// getDraft возвращает сохранённый черновик пользователя.
func (h *SequenceHandler) getDraft(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	draft, err := h.sequences.GetDraft(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// clearDraft удаляет черновик пользователя.
func (h *SequenceHandler) clearDraft(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.sequences.ClearDraft(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

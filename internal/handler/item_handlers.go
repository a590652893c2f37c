package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sequence-server/internal/models"
)

// importText дописывает элементы из текстового блока.
func (h *SequenceHandler) importText(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req importTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.sequences.ImportText(c.Request.Context(), id, userID, req.Text)
	if err != nil {
		importsTotal.WithLabelValues("text", "failure").Inc()
		handleServiceError(c, err)
		return
	}

	importsTotal.WithLabelValues("text", "success").Inc()
	c.JSON(http.StatusOK, importResponse{
		Sequence: result.Document,
		Added:    result.Added,
		Skipped:  result.Skipped,
	})
}

// importFromSource дописывает элементы из внешнего источника
// (:source - youtube, youtubekids или drive).
func (h *SequenceHandler) importFromSource(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	source := c.Param("source")

	var req importSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.sequences.ImportFromSource(c.Request.Context(), id, userID, source, req.URL)
	if err != nil {
		importsTotal.WithLabelValues(source, "failure").Inc()
		handleServiceError(c, err)
		return
	}

	importsTotal.WithLabelValues(source, "success").Inc()
	c.JSON(http.StatusOK, importResponse{
		Sequence: result.Document,
		Added:    result.Added,
		Skipped:  result.Skipped,
	})
}

// reorderItems перемещает элемент с индекса from на индекс to (drag-and-drop).
func (h *SequenceHandler) reorderItems(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.From == nil || req.To == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Request body must contain from and to indexes",
		})
		return
	}

	doc, err := h.sequences.MoveItem(c.Request.Context(), id, userID, *req.From, *req.To)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// moveItem перемещает элемент с индекса index на 1-based позицию position.
func (h *SequenceHandler) moveItem(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil || req.Position == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Request body must contain index and position",
		})
		return
	}

	doc, err := h.sequences.MoveItemToPosition(c.Request.Context(), id, userID, *req.Index, *req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// removeItem удаляет элемент по индексу.
func (h *SequenceHandler) removeItem(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid item index",
		})
		return
	}

	doc, err := h.sequences.RemoveItem(c.Request.Context(), id, userID, index)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

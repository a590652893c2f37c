package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sequence-server/internal/models"
)

// publishSequence делает документ видимым по прямой ссылке.
func (h *SequenceHandler) publishSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.publishing.Publish(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "is_public": true})
}

// unpublishSequence скрывает документ от зрителей. Сабмишены каналов
// остаются активными, их деактивация - отдельная операция unsubmit.
func (h *SequenceHandler) unpublishSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.publishing.Unpublish(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "is_public": false})
}

// submitSequence создает активный сабмишен документа в канале.
func (h *SequenceHandler) submitSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	sub, err := h.publishing.SubmitToChannel(c.Request.Context(), id, userID, req.ChannelID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// listSubmissions возвращает все сабмишены документа, включая неактивные.
func (h *SequenceHandler) listSubmissions(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	subs, err := h.publishing.ListSubmissions(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// unsubmitSequence деактивирует все активные сабмишены документа.
// При частичном сбое возвращает 207 с отчетом: часть записей деактивирована,
// часть осталась, операцию можно повторить.
func (h *SequenceHandler) unsubmitSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	report, err := h.publishing.UnsubmitAll(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if !report.Complete() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}

// deleteSequence удаляет документ, предварительно деактивировав все его
// сабмишены. При частичном сбое деактивации документ не удаляется.
func (h *SequenceHandler) deleteSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	report, err := h.publishing.Delete(c.Request.Context(), id, userID)
	if err != nil {
		if !report.Complete() {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":  "document was not deleted, some submissions are still active",
				"report": report,
			})
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// duplicateSequence создает непубличную копию документа.
func (h *SequenceHandler) duplicateSequence(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	dup, err := h.publishing.Duplicate(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dup)
}

// Package handler содержит HTTP-слой сервиса поверх gin.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"sequence-server/internal/authutils"
	"sequence-server/internal/importer"
	"sequence-server/internal/middleware"
	"sequence-server/internal/models"
	"sequence-server/internal/service"
)

var importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sequence_imports_total",
	Help: "Количество импортов элементов по источникам и результату.",
}, []string{"source", "result"})

// SequenceHandler обрабатывает HTTP запросы sequence-сервиса.
type SequenceHandler struct {
	sequences  service.SequenceService
	publishing service.PublishingService
	verifier   *authutils.JWTVerifier
	logger     *zap.Logger
}

// NewSequenceHandler создает новый SequenceHandler.
func NewSequenceHandler(sequences service.SequenceService, publishing service.PublishingService, logger *zap.Logger, jwtSecret string) *SequenceHandler {
	verifier, err := authutils.NewJWTVerifier(jwtSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create JWT Verifier", zap.Error(err))
	}

	return &SequenceHandler{
		sequences:  sequences,
		publishing: publishing,
		verifier:   verifier,
		logger:     logger.Named("SequenceHandler"),
	}
}

// RegisterRoutes регистрирует маршруты сервиса.
func (h *SequenceHandler) RegisterRoutes(r *gin.Engine) {
	authMiddleware := middleware.AuthMiddleware(h.verifier.VerifyToken, h.logger)

	// Публичный просмотр по прямой ссылке, без аутентификации
	r.GET("/view/:id", h.viewSequence)

	// --- Маршруты документов (API для владельца) ---
	seqGroup := r.Group("/sequences", authMiddleware)
	{
		seqGroup.POST("", h.createSequence)
		seqGroup.GET("", h.listSequences)
		seqGroup.GET("/:id", h.getSequence)
		seqGroup.PUT("/:id", h.updateSequence)
		seqGroup.DELETE("/:id", h.deleteSequence)
		seqGroup.GET("/:id/export", h.exportSequence)

		seqGroup.POST("/:id/publish", h.publishSequence)
		seqGroup.POST("/:id/unpublish", h.unpublishSequence)
		seqGroup.POST("/:id/submit", h.submitSequence)
		seqGroup.GET("/:id/submissions", h.listSubmissions)
		seqGroup.POST("/:id/unsubmit", h.unsubmitSequence)
		seqGroup.POST("/:id/duplicate", h.duplicateSequence)

		seqGroup.POST("/:id/items/import", h.importText)
		seqGroup.POST("/:id/items/import/:source", h.importFromSource)
		seqGroup.POST("/:id/items/reorder", h.reorderItems)
		seqGroup.POST("/:id/items/move", h.moveItem)
		seqGroup.DELETE("/:id/items/:index", h.removeItem)
	}

	// --- Маршруты черновика ---
	draftGroup := r.Group("/drafts", authMiddleware)
	{
		draftGroup.PUT("", h.saveDraft)
		draftGroup.GET("", h.getDraft)
		draftGroup.DELETE("", h.clearDraft)
	}
}

// requireUserID достает UserID, установленный auth middleware.
func (h *SequenceHandler) requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.logger.Error("UserID missing in authenticated request", zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
			Code: models.ErrCodeUnauthorized, Message: "Authentication required",
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam разбирает path-параметр :id как UUID.
func (h *SequenceHandler) parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code: models.ErrCodeBadRequest, Message: "Invalid sequence id",
		})
		return uuid.Nil, false
	}
	return id, true
}

func handleServiceError(c *gin.Context, err error) {
	// Типизированные ошибки импорта мапятся по kind
	if kind := importer.KindOf(err); kind != "" {
		handleImportError(c, kind, err)
		return
	}

	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrSequenceNotFound),
		errors.Is(err, models.ErrSubmissionNotFound),
		errors.Is(err, models.ErrDraftNotFound),
		errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Resource not found"}
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid or malformed"}
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Authentication required"}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Access denied"}
	case errors.Is(err, models.ErrTooManyItems), errors.Is(err, models.ErrTooManyHashtags):
		statusCode = http.StatusUnprocessableEntity
		errResp = models.ErrorResponse{Code: models.ErrCodeLimitExceeded, Message: err.Error()}
	case errors.Is(err, models.ErrTitleRequired),
		errors.Is(err, models.ErrNoValidItems),
		errors.Is(err, models.ErrInvalidPosition),
		errors.Is(err, models.ErrInvalidItemIndex):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, service.ErrSubmissionsStillActive):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeConflict, Message: err.Error()}
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: err.Error()}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func handleImportError(c *gin.Context, kind importer.ErrorKind, err error) {
	var statusCode int
	var code models.ErrorCode

	switch kind {
	case importer.KindInvalidInput:
		statusCode = http.StatusBadRequest
		code = models.ErrCodeBadRequest
	case importer.KindNotFound:
		statusCode = http.StatusNotFound
		code = models.ErrCodeNotFound
	case importer.KindQuotaExceeded:
		statusCode = http.StatusTooManyRequests
		code = models.ErrCodeQuotaExceeded
	case importer.KindEmpty:
		statusCode = http.StatusUnprocessableEntity
		code = models.ErrCodeEmptySource
	default:
		statusCode = http.StatusBadGateway
		code = models.ErrCodeUpstream
	}

	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Code: code, Message: err.Error()})
}

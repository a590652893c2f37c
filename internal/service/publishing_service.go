package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sequence-server/internal/messaging"
	"sequence-server/internal/models"
	"sequence-server/internal/repository"
)

// Define errors specific to publishing operations
var (
	// ErrSubmissionsStillActive возвращается из Delete, когда перед удалением
	// не удалось деактивировать все сабмишены. Документ при этом не удаляется:
	// активная ссылка на несуществующий документ хуже, чем лишний документ.
	ErrSubmissionsStillActive = errors.New("document has submissions that could not be deactivated")
)

// PublishingService defines the interface for visibility and channel reconciliation.
type PublishingService interface {
	Publish(ctx context.Context, id, userID uuid.UUID) error
	Unpublish(ctx context.Context, id, userID uuid.UUID) error
	SubmitToChannel(ctx context.Context, id, userID uuid.UUID, channelID string) (*models.ChannelSubmission, error)
	ListSubmissions(ctx context.Context, id, userID uuid.UUID) ([]models.ChannelSubmission, error)
	UnsubmitAll(ctx context.Context, id, userID uuid.UUID) (models.UnsubmitReport, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (models.UnsubmitReport, error)
	Duplicate(ctx context.Context, id, userID uuid.UUID) (*models.SequenceDocument, error)
}

type publishingServiceImpl struct {
	docRepo    repository.SequenceDocumentRepository
	subRepo    repository.ChannelSubmissionRepository
	events     messaging.SequenceEventPublisher
	publicBase string
	db         DB
	logger     *zap.Logger
}

// NewPublishingService creates a new instance of PublishingService.
func NewPublishingService(
	docRepo repository.SequenceDocumentRepository,
	subRepo repository.ChannelSubmissionRepository,
	events messaging.SequenceEventPublisher,
	publicBase string,
	db DB,
	logger *zap.Logger,
) PublishingService {
	return &publishingServiceImpl{
		docRepo:    docRepo,
		subRepo:    subRepo,
		events:     events,
		publicBase: publicBase,
		db:         db,
		logger:     logger.Named("PublishingService"),
	}
}

// Publish делает документ видимым по прямой ссылке.
func (s *publishingServiceImpl) Publish(ctx context.Context, id, userID uuid.UUID) error {
	log := s.logger.With(zap.String("sequenceID", id.String()), zap.String("userID", userID.String()))

	if err := s.docRepo.SetVisibility(ctx, s.db, id, userID, true); err != nil {
		return err
	}
	log.Info("Sequence published")
	s.emitEvent(ctx, messaging.EventPublished, id, userID, "")
	return nil
}

// Unpublish скрывает документ от зрителей. Сабмишены в каналах при этом
// НЕ деактивируются: активная карточка канала продолжает ссылаться на
// документ, который зритель открыть уже не может. Кто хочет убрать документ
// из каналов, вызывает UnsubmitAll явно.
func (s *publishingServiceImpl) Unpublish(ctx context.Context, id, userID uuid.UUID) error {
	log := s.logger.With(zap.String("sequenceID", id.String()), zap.String("userID", userID.String()))

	if err := s.docRepo.SetVisibility(ctx, s.db, id, userID, false); err != nil {
		return err
	}
	log.Info("Sequence unpublished")
	s.emitEvent(ctx, messaging.EventUnpublished, id, userID, "")
	return nil
}

// SubmitToChannel создает активный сабмишен документа в канале.
// Отображаемые поля копируются в момент сабмита и дальше живут своей жизнью:
// последующее редактирование документа карточку канала не меняет.
func (s *publishingServiceImpl) SubmitToChannel(ctx context.Context, id, userID uuid.UUID, channelID string) (*models.ChannelSubmission, error) {
	log := s.logger.With(
		zap.String("sequenceID", id.String()),
		zap.String("userID", userID.String()),
		zap.String("channelID", channelID))

	doc, err := s.docRepo.GetByIDForUser(ctx, s.db, id, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &models.ChannelSubmission{
		ID:          uuid.New(),
		ChannelID:   channelID,
		Title:       doc.Title,
		Description: doc.Description,
		CreatorName: doc.CreatorName,
		Thumbnail:   doc.ThumbnailURL,
		URL:         models.ViewURL(s.publicBase, doc.ID),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.subRepo.Create(ctx, s.db, sub); err != nil {
		log.Error("Failed to create channel submission", zap.Error(err))
		return nil, err
	}

	log.Info("Sequence submitted to channel", zap.String("submissionID", sub.ID.String()))
	s.emitEvent(ctx, messaging.EventSubmitted, id, userID, channelID)
	return sub, nil
}

// ListSubmissions возвращает все сабмишены документа, включая деактивированные,
// чтобы владелец видел историю размещений в каналах.
func (s *publishingServiceImpl) ListSubmissions(ctx context.Context, id, userID uuid.UUID) ([]models.ChannelSubmission, error) {
	if _, err := s.docRepo.GetByIDForUser(ctx, s.db, id, userID); err != nil {
		return nil, err
	}
	return s.subRepo.FindByDocumentID(ctx, s.db, id)
}

// UnsubmitAll деактивирует все активные сабмишены документа по одному.
// Сбой одной записи не останавливает остальные: вызывающая сторона получает
// отчет и может повторить операцию, деактивация идемпотентна.
func (s *publishingServiceImpl) UnsubmitAll(ctx context.Context, id, userID uuid.UUID) (models.UnsubmitReport, error) {
	log := s.logger.With(zap.String("sequenceID", id.String()), zap.String("userID", userID.String()))

	// Проверка владельца до любых действий с сабмишенами
	if _, err := s.docRepo.GetByIDForUser(ctx, s.db, id, userID); err != nil {
		return models.UnsubmitReport{}, err
	}

	subs, err := s.subRepo.FindActiveByDocumentID(ctx, s.db, id)
	if err != nil {
		return models.UnsubmitReport{}, err
	}

	var report models.UnsubmitReport
	for _, sub := range subs {
		if dErr := s.subRepo.Deactivate(ctx, s.db, sub.ID); dErr != nil {
			log.Warn("Failed to deactivate submission",
				zap.String("submissionID", sub.ID.String()), zap.Error(dErr))
			report.Failed++
			report.FailedIDs = append(report.FailedIDs, sub.ID)
			continue
		}
		report.Deactivated++
	}

	log.Info("Unsubmit completed",
		zap.Int("deactivated", report.Deactivated),
		zap.Int("failed", report.Failed))
	if report.Deactivated > 0 {
		s.emitEvent(ctx, messaging.EventUnsubmitted, id, userID, "")
	}
	return report, nil
}

// Delete удаляет документ. Порядок жёсткий: сначала деактивация всех
// сабмишенов, удаление только после полного успеха. При частичном сбое
// документ остаётся на месте вместе с отчетом о том, что не удалось.
func (s *publishingServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) (models.UnsubmitReport, error) {
	log := s.logger.With(zap.String("sequenceID", id.String()), zap.String("userID", userID.String()))

	report, err := s.UnsubmitAll(ctx, id, userID)
	if err != nil {
		return report, err
	}
	if !report.Complete() {
		log.Warn("Aborting delete, submissions still active", zap.Int("failed", report.Failed))
		return report, fmt.Errorf("%w: %d of %d", ErrSubmissionsStillActive, report.Failed, report.Failed+report.Deactivated)
	}

	err = WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return s.docRepo.Delete(ctx, tx, id, userID)
	})
	if err != nil {
		return report, err
	}

	log.Info("Sequence deleted")
	s.emitEvent(ctx, messaging.EventDeleted, id, userID, "")
	return report, nil
}

// Duplicate создает независимую копию документа: новый id, производный слаг,
// принудительно непубличную. Сабмишены оригинала не копируются.
func (s *publishingServiceImpl) Duplicate(ctx context.Context, id, userID uuid.UUID) (*models.SequenceDocument, error) {
	log := s.logger.With(zap.String("sequenceID", id.String()), zap.String("userID", userID.String()))

	src, err := s.docRepo.GetByIDForUser(ctx, s.db, id, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dup := *src
	dup.ID = uuid.New()
	dup.Slug = fmt.Sprintf("%s-copy-%d", src.Slug, now.Unix())
	dup.IsPublic = false
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.Items = make([]models.SequenceItem, len(src.Items))
	copy(dup.Items, src.Items)

	err = WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return s.docRepo.Create(ctx, tx, &dup)
	})
	if err != nil {
		log.Error("Failed to duplicate sequence", zap.Error(err))
		return nil, err
	}

	log.Info("Sequence duplicated", zap.String("duplicateID", dup.ID.String()))
	return &dup, nil
}

// emitEvent публикует событие жизненного цикла. Сбой публикации не должен
// откатывать уже применённую операцию, поэтому только логируется.
func (s *publishingServiceImpl) emitEvent(ctx context.Context, eventType messaging.EventType, id, userID uuid.UUID, channelID string) {
	if s.events == nil {
		return
	}
	payload := messaging.SequenceEventPayload{
		EventType:  eventType,
		SequenceID: id,
		UserID:     userID,
		ChannelID:  channelID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishSequenceEvent(ctx, payload); err != nil {
		s.logger.Error("Failed to publish lifecycle event",
			zap.String("eventType", string(eventType)),
			zap.String("sequenceID", id.String()),
			zap.Error(err))
	}
}

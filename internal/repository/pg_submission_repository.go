package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequence-server/internal/models"
)

// Compile-time check
var _ ChannelSubmissionRepository = (*pgSubmissionRepository)(nil)

type pgSubmissionRepository struct {
	logger *zap.Logger
}

// NewPgSubmissionRepository создает новый репозиторий сабмишенов.
func NewPgSubmissionRepository(logger *zap.Logger) ChannelSubmissionRepository {
	return &pgSubmissionRepository{
		logger: logger.Named("PgSubmissionRepo"),
	}
}

const submissionColumns = `id, channel_id, title, description, creator_name, thumbnail, url, active, created_at, updated_at`

// Create сохраняет новый сабмишен.
func (r *pgSubmissionRepository) Create(ctx context.Context, querier DBTX, sub *models.ChannelSubmission) error {
	query := `
        INSERT INTO channel_submissions
            (` + submissionColumns + `)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	logFields := []zap.Field{zap.String("submissionID", sub.ID.String()), zap.String("channelID", sub.ChannelID)}
	r.logger.Debug("Creating channel submission", logFields...)

	_, err := querier.Exec(ctx, query,
		sub.ID, sub.ChannelID, sub.Title, sub.Description,
		sub.CreatorName, sub.Thumbnail, sub.URL, sub.Active,
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create channel submission", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания сабмишена: %w", err)
	}
	r.logger.Info("Channel submission created successfully", logFields...)
	return nil
}

// FindByDocumentID находит все сабмишены документа. Сабмишен не хранит FK
// на документ, связь восстанавливается по вхождению пути /view/{id} в url.
func (r *pgSubmissionRepository) FindByDocumentID(ctx context.Context, querier DBTX, docID uuid.UUID) ([]models.ChannelSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM channel_submissions WHERE url ILIKE $1 ORDER BY created_at ASC`
	return r.find(ctx, querier, query, "%"+models.ViewPath(docID)+"%")
}

// FindActiveByDocumentID - как FindByDocumentID, но только активные записи.
func (r *pgSubmissionRepository) FindActiveByDocumentID(ctx context.Context, querier DBTX, docID uuid.UUID) ([]models.ChannelSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM channel_submissions WHERE url ILIKE $1 AND active = true ORDER BY created_at ASC`
	return r.find(ctx, querier, query, "%"+models.ViewPath(docID)+"%")
}

func (r *pgSubmissionRepository) find(ctx context.Context, querier DBTX, query, pattern string) ([]models.ChannelSubmission, error) {
	var subs []models.ChannelSubmission
	if err := pgxscan.Select(ctx, querier, &subs, query, pattern); err != nil {
		r.logger.Error("Failed to find channel submissions", zap.String("pattern", pattern), zap.Error(err))
		return nil, fmt.Errorf("ошибка поиска сабмишенов: %w", err)
	}
	return subs, nil
}

// Deactivate снимает флаг active. Повторный вызов по уже неактивной записи
// не является ошибкой, отсутствие записи - является.
func (r *pgSubmissionRepository) Deactivate(ctx context.Context, querier DBTX, id uuid.UUID) error {
	query := `UPDATE channel_submissions SET active = false, updated_at = $1 WHERE id = $2`
	logFields := []zap.Field{zap.String("submissionID", id.String())}
	r.logger.Debug("Deactivating channel submission", logFields...)

	commandTag, err := querier.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to deactivate channel submission", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка деактивации сабмишена %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to deactivate non-existent channel submission", logFields...)
		return models.ErrSubmissionNotFound
	}
	r.logger.Info("Channel submission deactivated", logFields...)
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sequence-server/internal/models"
)

// Compile-time check
var _ SequenceDocumentRepository = (*pgSequenceRepository)(nil)

type pgSequenceRepository struct {
	logger *zap.Logger
}

// NewPgSequenceRepository создает новый репозиторий документов.
func NewPgSequenceRepository(logger *zap.Logger) SequenceDocumentRepository {
	return &pgSequenceRepository{
		logger: logger.Named("PgSequenceRepo"),
	}
}

const sequenceColumns = `id, user_id, slug, title, description, creator_name, creator_link, thumbnail_url, hashtags, is_public, created_at, updated_at`

const itemColumns = `position, item_type, image_url, alt_text, narration, video_id, url, title, creator, thumbnail, duration_seconds`

// Create сохраняет шапку документа и все его элементы.
func (r *pgSequenceRepository) Create(ctx context.Context, querier DBTX, doc *models.SequenceDocument) error {
	query := `
        INSERT INTO sequences
            (` + sequenceColumns + `)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	logFields := []zap.Field{zap.String("sequenceID", doc.ID.String()), zap.String("userID", doc.UserID.String())}
	r.logger.Debug("Creating sequence document", logFields...)

	_, err := querier.Exec(ctx, query,
		doc.ID, doc.UserID, doc.Slug, doc.Title, doc.Description,
		doc.CreatorName, doc.CreatorLink, doc.ThumbnailURL, doc.Hashtags,
		doc.IsPublic, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create sequence document", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания документа: %w", err)
	}

	if err := r.insertItems(ctx, querier, doc.ID, doc.Items); err != nil {
		r.logger.Error("Failed to insert sequence items", append(logFields, zap.Error(err))...)
		return err
	}

	r.logger.Info("Sequence document created successfully", append(logFields, zap.Int("items", len(doc.Items)))...)
	return nil
}

// GetByID возвращает документ с элементами без проверки владельца.
func (r *pgSequenceRepository) GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.SequenceDocument, error) {
	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE id = $1`
	return r.getOne(ctx, querier, query, id)
}

// GetByIDForUser возвращает документ с элементами, принадлежащий userID.
func (r *pgSequenceRepository) GetByIDForUser(ctx context.Context, querier DBTX, id, userID uuid.UUID) (*models.SequenceDocument, error) {
	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, querier, query, id, userID)
}

func (r *pgSequenceRepository) getOne(ctx context.Context, querier DBTX, query string, args ...interface{}) (*models.SequenceDocument, error) {
	doc := &models.SequenceDocument{}
	err := querier.QueryRow(ctx, query, args...).Scan(
		&doc.ID, &doc.UserID, &doc.Slug, &doc.Title, &doc.Description,
		&doc.CreatorName, &doc.CreatorLink, &doc.ThumbnailURL, &doc.Hashtags,
		&doc.IsPublic, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSequenceNotFound
		}
		r.logger.Error("Failed to get sequence document", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения документа: %w", err)
	}

	items, err := r.loadItems(ctx, querier, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Items = items
	return doc, nil
}

// ListByUser возвращает страницу документов пользователя без элементов
// (список рисуется по шапкам), keyset-пагинация по (created_at, id) DESC.
func (r *pgSequenceRepository) ListByUser(ctx context.Context, querier DBTX, userID uuid.UUID, limit int, cursor string) ([]models.SequenceDocument, string, error) {
	logFields := []zap.Field{zap.String("userID", userID.String()), zap.Int("limit", limit)}

	cursorTime, cursorID, err := DecodeCursor(cursor)
	if err != nil {
		r.logger.Warn("Invalid pagination cursor", append(logFields, zap.Error(err))...)
		return nil, "", fmt.Errorf("%w: %v", models.ErrBadRequest, err)
	}

	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE user_id = $1`
	args := []interface{}{userID}
	if cursorID != uuid.Nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursorTime, cursorID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit+1)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list sequence documents", append(logFields, zap.Error(err))...)
		return nil, "", fmt.Errorf("ошибка получения списка документов: %w", err)
	}
	defer rows.Close()

	var docs []models.SequenceDocument
	for rows.Next() {
		var doc models.SequenceDocument
		if err := rows.Scan(
			&doc.ID, &doc.UserID, &doc.Slug, &doc.Title, &doc.Description,
			&doc.CreatorName, &doc.CreatorLink, &doc.ThumbnailURL, &doc.Hashtags,
			&doc.IsPublic, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan sequence document row", append(logFields, zap.Error(err))...)
			return nil, "", fmt.Errorf("ошибка чтения строки документа: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("ошибка обхода строк документов: %w", err)
	}

	nextCursor := ""
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		nextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}
	return docs, nextCursor, nil
}

// Update перезаписывает шапку и полный список элементов. Элементы проще
// заменить целиком, чем вычислять дифф: их не больше 50.
func (r *pgSequenceRepository) Update(ctx context.Context, querier DBTX, doc *models.SequenceDocument) error {
	query := `
        UPDATE sequences SET
            slug = $1, title = $2, description = $3, creator_name = $4, creator_link = $5,
            thumbnail_url = $6, hashtags = $7, updated_at = $8
        WHERE id = $9 AND user_id = $10
    `
	logFields := []zap.Field{zap.String("sequenceID", doc.ID.String()), zap.String("userID", doc.UserID.String())}
	r.logger.Debug("Updating sequence document", logFields...)

	commandTag, err := querier.Exec(ctx, query,
		doc.Slug, doc.Title, doc.Description, doc.CreatorName, doc.CreatorLink,
		doc.ThumbnailURL, doc.Hashtags, time.Now().UTC(), doc.ID, doc.UserID,
	)
	if err != nil {
		r.logger.Error("Failed to update sequence document", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления документа %s: %w", doc.ID, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent or unauthorized sequence document", logFields...)
		return models.ErrSequenceNotFound
	}

	if _, err := querier.Exec(ctx, `DELETE FROM sequence_items WHERE sequence_id = $1`, doc.ID); err != nil {
		r.logger.Error("Failed to clear sequence items", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка очистки элементов документа %s: %w", doc.ID, err)
	}
	if err := r.insertItems(ctx, querier, doc.ID, doc.Items); err != nil {
		r.logger.Error("Failed to insert sequence items", append(logFields, zap.Error(err))...)
		return err
	}

	r.logger.Info("Sequence document updated successfully", append(logFields, zap.Int("items", len(doc.Items)))...)
	return nil
}

// SetVisibility переключает флаг публичности.
func (r *pgSequenceRepository) SetVisibility(ctx context.Context, querier DBTX, id, userID uuid.UUID, isPublic bool) error {
	query := `UPDATE sequences SET is_public = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	logFields := []zap.Field{
		zap.String("sequenceID", id.String()),
		zap.String("userID", userID.String()),
		zap.Bool("isPublic", isPublic),
	}
	r.logger.Debug("Setting sequence visibility", logFields...)

	commandTag, err := querier.Exec(ctx, query, isPublic, time.Now().UTC(), id, userID)
	if err != nil {
		r.logger.Error("Failed to set sequence visibility", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка изменения видимости документа %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to change visibility of non-existent or unauthorized document", logFields...)
		return models.ErrSequenceNotFound
	}
	r.logger.Info("Sequence visibility updated", logFields...)
	return nil
}

// Delete удаляет документ; элементы удаляются каскадом по FK.
func (r *pgSequenceRepository) Delete(ctx context.Context, querier DBTX, id, userID uuid.UUID) error {
	query := `DELETE FROM sequences WHERE id = $1 AND user_id = $2`
	logFields := []zap.Field{zap.String("sequenceID", id.String()), zap.String("userID", userID.String())}
	r.logger.Debug("Deleting sequence document", logFields...)

	commandTag, err := querier.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete sequence document", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка удаления документа %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent or unauthorized sequence document", logFields...)
		return models.ErrSequenceNotFound
	}
	r.logger.Info("Sequence document deleted successfully", logFields...)
	return nil
}

func (r *pgSequenceRepository) loadItems(ctx context.Context, querier DBTX, seqID uuid.UUID) ([]models.SequenceItem, error) {
	query := `SELECT ` + itemColumns + ` FROM sequence_items WHERE sequence_id = $1 ORDER BY position ASC`
	var items []models.SequenceItem
	if err := pgxscan.Select(ctx, querier, &items, query, seqID); err != nil {
		r.logger.Error("Failed to load sequence items", zap.String("sequenceID", seqID.String()), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения элементов документа %s: %w", seqID, err)
	}
	return items, nil
}

func (r *pgSequenceRepository) insertItems(ctx context.Context, querier DBTX, seqID uuid.UUID, items []models.SequenceItem) error {
	query := `
        INSERT INTO sequence_items
            (sequence_id, ` + itemColumns + `)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	for _, it := range items {
		_, err := querier.Exec(ctx, query,
			seqID, it.Position, it.Type,
			it.ImageURL, it.AltText, it.Narration,
			it.VideoID, it.URL, it.Title, it.Creator, it.Thumbnail, it.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("ошибка сохранения элемента %d документа %s: %w", it.Position, seqID, err)
		}
	}
	return nil
}

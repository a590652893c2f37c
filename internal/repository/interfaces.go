// Package repository contains the persistence layer: Postgres-backed stores
// for sequence documents and channel submissions, and a Redis-backed store
// for the ephemeral draft snapshot.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sequence-server/internal/models"
)

// DBTX объединяет *pgxpool.Pool и pgx.Tx: методы репозиториев принимают
// querier, так что один и тот же код работает и в транзакции, и вне её.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// SequenceDocumentRepository определяет операции хранилища документов.
type SequenceDocumentRepository interface {
	// Create сохраняет новый документ вместе с его элементами.
	Create(ctx context.Context, querier DBTX, doc *models.SequenceDocument) error

	// GetByID возвращает документ с элементами без проверки владельца
	// (публичный просмотр). Возвращает models.ErrSequenceNotFound, если нет.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.SequenceDocument, error)

	// GetByIDForUser возвращает документ, принадлежащий userID.
	GetByIDForUser(ctx context.Context, querier DBTX, id, userID uuid.UUID) (*models.SequenceDocument, error)

	// ListByUser возвращает страницу документов пользователя (keyset-пагинация
	// по created_at DESC, id DESC) и курсор следующей страницы.
	ListByUser(ctx context.Context, querier DBTX, userID uuid.UUID, limit int, cursor string) ([]models.SequenceDocument, string, error)

	// Update перезаписывает шапку документа и полный список элементов.
	Update(ctx context.Context, querier DBTX, doc *models.SequenceDocument) error

	// SetVisibility переключает флаг публичности документа.
	SetVisibility(ctx context.Context, querier DBTX, id, userID uuid.UUID, isPublic bool) error

	// Delete удаляет документ вместе с элементами (каскад в БД).
	Delete(ctx context.Context, querier DBTX, id, userID uuid.UUID) error
}

// ChannelSubmissionRepository определяет операции хранилища сабмишенов.
type ChannelSubmissionRepository interface {
	// Create сохраняет новый сабмишен.
	Create(ctx context.Context, querier DBTX, sub *models.ChannelSubmission) error

	// FindByDocumentID находит все сабмишены, ссылающиеся на документ,
	// по вхождению /view/{id} в поле url.
	FindByDocumentID(ctx context.Context, querier DBTX, docID uuid.UUID) ([]models.ChannelSubmission, error)

	// FindActiveByDocumentID - как FindByDocumentID, но только active = true.
	FindActiveByDocumentID(ctx context.Context, querier DBTX, docID uuid.UUID) ([]models.ChannelSubmission, error)

	// Deactivate снимает флаг active с одного сабмишена. Идемпотентна.
	Deactivate(ctx context.Context, querier DBTX, id uuid.UUID) error
}

// DraftRepository определяет операции над черновиком пользователя.
// У каждого пользователя не более одного снапшота, запись перезаписывает его.
type DraftRepository interface {
	Save(ctx context.Context, userID uuid.UUID, draft *models.DraftSnapshot) error
	Get(ctx context.Context, userID uuid.UUID) (*models.DraftSnapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

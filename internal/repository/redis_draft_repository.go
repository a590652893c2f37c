package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sequence-server/internal/models"
)

// Compile-time check
var _ DraftRepository = (*redisDraftRepository)(nil)

// draftKeyPrefix - ключ снапшота: sequence_draft:{userID}. Одна запись на
// пользователя, каждое сохранение перезаписывает предыдущее.
const draftKeyPrefix = "sequence_draft:"

type redisDraftRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisDraftRepository создает Redis-хранилище черновиков.
func NewRedisDraftRepository(client *redis.Client, logger *zap.Logger) DraftRepository {
	return &redisDraftRepository{
		client: client,
		logger: logger.Named("RedisDraftRepo"),
	}
}

func draftKey(userID uuid.UUID) string {
	return draftKeyPrefix + userID.String()
}

// Save сериализует снапшот в JSON и перезаписывает ключ пользователя.
// TTL не ставится: черновик живет до явного Clear при успешном сохранении.
func (r *redisDraftRepository) Save(ctx context.Context, userID uuid.UUID, draft *models.DraftSnapshot) error {
	key := draftKey(userID)
	data, err := json.Marshal(draft)
	if err != nil {
		r.logger.Error("Failed to marshal draft snapshot", zap.String("userID", userID.String()), zap.Error(err))
		return fmt.Errorf("failed to marshal draft snapshot: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save draft snapshot in redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save draft snapshot in redis: %w", err)
	}
	r.logger.Debug("Draft snapshot saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Get возвращает снапшот пользователя либо models.ErrDraftNotFound.
func (r *redisDraftRepository) Get(ctx context.Context, userID uuid.UUID) (*models.DraftSnapshot, error) {
	key := draftKey(userID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Draft snapshot not found", zap.String("key", key))
			return nil, models.ErrDraftNotFound
		}
		r.logger.Error("Failed to get draft snapshot from redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get draft snapshot from redis: %w", err)
	}

	draft := &models.DraftSnapshot{}
	if err := json.Unmarshal(data, draft); err != nil {
		// Повреждённый снапшот бесполезен, трактуем как отсутствующий
		r.logger.Error("Corrupted draft snapshot in redis", zap.String("key", key), zap.Error(err))
		return nil, models.ErrDraftNotFound
	}
	return draft, nil
}

// Clear удаляет снапшот пользователя. Отсутствие ключа не является ошибкой.
func (r *redisDraftRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	key := draftKey(userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to clear draft snapshot", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to clear draft snapshot: %w", err)
	}
	r.logger.Debug("Draft snapshot cleared", zap.String("key", key))
	return nil
}

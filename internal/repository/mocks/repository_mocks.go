package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sequence-server/internal/models"
	"sequence-server/internal/repository"
)

// Mock SequenceDocumentRepository
type SequenceDocumentRepository struct {
	mock.Mock
}

func (m *SequenceDocumentRepository) Create(ctx context.Context, querier repository.DBTX, doc *models.SequenceDocument) error {
	args := m.Called(ctx, querier, doc)
	return args.Error(0)
}
func (m *SequenceDocumentRepository) GetByID(ctx context.Context, querier repository.DBTX, id uuid.UUID) (*models.SequenceDocument, error) {
	args := m.Called(ctx, querier, id)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}
func (m *SequenceDocumentRepository) GetByIDForUser(ctx context.Context, querier repository.DBTX, id, userID uuid.UUID) (*models.SequenceDocument, error) {
	args := m.Called(ctx, querier, id, userID)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}
func (m *SequenceDocumentRepository) ListByUser(ctx context.Context, querier repository.DBTX, userID uuid.UUID, limit int, cursor string) ([]models.SequenceDocument, string, error) {
	args := m.Called(ctx, querier, userID, limit, cursor)
	docs, _ := args.Get(0).([]models.SequenceDocument)
	return docs, args.String(1), args.Error(2)
}
func (m *SequenceDocumentRepository) Update(ctx context.Context, querier repository.DBTX, doc *models.SequenceDocument) error {
	args := m.Called(ctx, querier, doc)
	return args.Error(0)
}
func (m *SequenceDocumentRepository) SetVisibility(ctx context.Context, querier repository.DBTX, id, userID uuid.UUID, isPublic bool) error {
	args := m.Called(ctx, querier, id, userID, isPublic)
	return args.Error(0)
}
func (m *SequenceDocumentRepository) Delete(ctx context.Context, querier repository.DBTX, id, userID uuid.UUID) error {
	args := m.Called(ctx, querier, id, userID)
	return args.Error(0)
}

// Mock ChannelSubmissionRepository
type ChannelSubmissionRepository struct {
	mock.Mock
}

func (m *ChannelSubmissionRepository) Create(ctx context.Context, querier repository.DBTX, sub *models.ChannelSubmission) error {
	args := m.Called(ctx, querier, sub)
	return args.Error(0)
}
func (m *ChannelSubmissionRepository) FindByDocumentID(ctx context.Context, querier repository.DBTX, docID uuid.UUID) ([]models.ChannelSubmission, error) {
	args := m.Called(ctx, querier, docID)
	subs, _ := args.Get(0).([]models.ChannelSubmission)
	return subs, args.Error(1)
}
func (m *ChannelSubmissionRepository) FindActiveByDocumentID(ctx context.Context, querier repository.DBTX, docID uuid.UUID) ([]models.ChannelSubmission, error) {
	args := m.Called(ctx, querier, docID)
	subs, _ := args.Get(0).([]models.ChannelSubmission)
	return subs, args.Error(1)
}
func (m *ChannelSubmissionRepository) Deactivate(ctx context.Context, querier repository.DBTX, id uuid.UUID) error {
	args := m.Called(ctx, querier, id)
	return args.Error(0)
}

// Mock DraftRepository
type DraftRepository struct {
	mock.Mock
}

func (m *DraftRepository) Save(ctx context.Context, userID uuid.UUID, draft *models.DraftSnapshot) error {
	args := m.Called(ctx, userID, draft)
	return args.Error(0)
}
func (m *DraftRepository) Get(ctx context.Context, userID uuid.UUID) (*models.DraftSnapshot, error) {
	args := m.Called(ctx, userID)
	draft, _ := args.Get(0).(*models.DraftSnapshot)
	return draft, args.Error(1)
}
func (m *DraftRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

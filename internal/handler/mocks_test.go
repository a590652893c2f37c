package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sequence-server/internal/models"
	"sequence-server/internal/service"
)

type mockSequenceService struct {
	mock.Mock
}

func (m *mockSequenceService) Create(ctx context.Context, userID uuid.UUID, input service.DocumentInput, text string) (*models.SequenceDocument, error) {
	args := m.Called(ctx, userID, input, text)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

func (m *mockSequenceService) Get(ctx context.Context, id, userID uuid.UUID) (*models.SequenceDocument, error) {
	args := m.Called(ctx, id, userID)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

func (m *mockSequenceService) GetPublic(ctx context.Context, id uuid.UUID) (*models.SequenceDocument, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

func (m *mockSequenceService) List(ctx context.Context, userID uuid.UUID, limit int, cursor string) ([]models.SequenceDocument, string, error) {
	args := m.Called(ctx, userID, limit, cursor)
	docs, _ := args.Get(0).([]models.SequenceDocument)
	return docs, args.String(1), args.Error(2)
}

func (m *mockSequenceService) Update(ctx context.Context, id, userID uuid.UUID, input service.DocumentInput) (*models.SequenceDocument, error) {
	args := m.Called(ctx, id, userID, input)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

func (m *mockSequenceService) ImportText(ctx context.Context, id, userID uuid.UUID, text string) (*service.ImportResult, error) {
	args := m.Called(ctx, id, userID, text)
	res, _ := args.Get(0).(*service.ImportResult)
	return res, args.Error(1)
}

func (m *mockSequenceService) ImportFromSource(ctx context.Context, id, userID uuid.UUID, source, sourceURL string) (*service.ImportResult, error) {
	args := m.Called(ctx, id, userID, source, sourceURL)
	res, _ := args.Get(0).(*service.ImportResult)
	return res, args.Error(1)
}

func (m *mockSequenceService) MoveItem(ctx context.Context, id, userID uuid.UUID, from, to int) (*models.SequenceDocument, error) {
	args := m.Called(ctx, id, userID, from, to)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

func (m *mockSequenceService) MoveItemToPosition(ctx context.Context, id, userID uuid.UUID, index, position int) (*models.SequenceDocument, error) {
	args := m.Called(ctx, id, userID, index, position)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

func (m *mockSequenceService) RemoveItem(ctx context.Context, id, userID uuid.UUID, index int) (*models.SequenceDocument, error) {
	args := m.Called(ctx, id, userID, index)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

func (m *mockSequenceService) Export(ctx context.Context, id, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, id, userID)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}

func (m *mockSequenceService) SaveDraft(ctx context.Context, userID uuid.UUID, draft *models.DraftSnapshot) error {
	args := m.Called(ctx, userID, draft)
	return args.Error(0)
}

func (m *mockSequenceService) GetDraft(ctx context.Context, userID uuid.UUID) (*models.DraftSnapshot, error) {
	args := m.Called(ctx, userID)
	draft, _ := args.Get(0).(*models.DraftSnapshot)
	return draft, args.Error(1)
}

func (m *mockSequenceService) ClearDraft(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockPublishingService struct {
	mock.Mock
}

func (m *mockPublishingService) Publish(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockPublishingService) Unpublish(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockPublishingService) SubmitToChannel(ctx context.Context, id, userID uuid.UUID, channelID string) (*models.ChannelSubmission, error) {
	args := m.Called(ctx, id, userID, channelID)
	sub, _ := args.Get(0).(*models.ChannelSubmission)
	return sub, args.Error(1)
}

func (m *mockPublishingService) ListSubmissions(ctx context.Context, id, userID uuid.UUID) ([]models.ChannelSubmission, error) {
	args := m.Called(ctx, id, userID)
	subs, _ := args.Get(0).([]models.ChannelSubmission)
	return subs, args.Error(1)
}

func (m *mockPublishingService) UnsubmitAll(ctx context.Context, id, userID uuid.UUID) (models.UnsubmitReport, error) {
	args := m.Called(ctx, id, userID)
	report, _ := args.Get(0).(models.UnsubmitReport)
	return report, args.Error(1)
}

func (m *mockPublishingService) Delete(ctx context.Context, id, userID uuid.UUID) (models.UnsubmitReport, error) {
	args := m.Called(ctx, id, userID)
	report, _ := args.Get(0).(models.UnsubmitReport)
	return report, args.Error(1)
}

func (m *mockPublishingService) Duplicate(ctx context.Context, id, userID uuid.UUID) (*models.SequenceDocument, error) {
	args := m.Called(ctx, id, userID)
	doc, _ := args.Get(0).(*models.SequenceDocument)
	return doc, args.Error(1)
}

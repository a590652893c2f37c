package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sequence-server/internal/mediaurl"
	"sequence-server/internal/models"
	"sequence-server/internal/repository/mocks"
)

type fakePlaylistImporter struct {
	items []models.SequenceItem
	err   error
}

func (f fakePlaylistImporter) ImportPlaylist(context.Context, string) ([]models.SequenceItem, error) {
	return f.items, f.err
}

type fakeChannelImporter struct {
	items []models.SequenceItem
	err   error
}

func (f fakeChannelImporter) ImportChannel(context.Context, string) ([]models.SequenceItem, error) {
	return f.items, f.err
}

type fakeFolderImporter struct {
	items []models.SequenceItem
	err   error
}

func (f fakeFolderImporter) ImportFolder(context.Context, string) ([]models.SequenceItem, error) {
	return f.items, f.err
}

type sequenceServiceFixture struct {
	svc       SequenceService
	repo      *mocks.SequenceDocumentRepository
	draftRepo *mocks.DraftRepository
	proxy     mediaurl.ProxyCodec
}

func newSequenceServiceFixture(playlists PlaylistImporter, channels ChannelImporter, folders FolderImporter) *sequenceServiceFixture {
	repo := new(mocks.SequenceDocumentRepository)
	draftRepo := new(mocks.DraftRepository)
	proxy := mediaurl.NewProxyCodec("")
	svc := NewSequenceService(repo, draftRepo, playlists, channels, folders, proxy, &fakeDB{}, zap.NewNop())
	return &sequenceServiceFixture{svc: svc, repo: repo, draftRepo: draftRepo, proxy: proxy}
}

func imageItems(n int) []models.SequenceItem {
	items := make([]models.SequenceItem, n)
	for i := range items {
		items[i] = models.SequenceItem{
			Position: i + 1,
			Type:     models.ItemTypeImage,
			ImageURL: mediaurl.NewProxyCodec("").Wrap("https://example.com/a.png"),
		}
	}
	return items
}

func TestSequenceService_Create(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	userID := uuid.New()

	var created *models.SequenceDocument
	f.repo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.SequenceDocument")).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*models.SequenceDocument)
		}).
		Return(nil).Once()
	f.draftRepo.On("Clear", mock.Anything, userID).Return(nil).Once()

	text := "https://example.com/a.png\nhttps://youtu.be/dQw4w9WgXcQ"
	doc, err := f.svc.Create(context.Background(), userID, DocumentInput{Title: "  My Sequence  "}, text)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, doc, created)

	assert.NotEqual(t, uuid.Nil, doc.ID)
	assert.Equal(t, userID, doc.UserID)
	assert.Equal(t, "My Sequence", doc.Title)
	assert.Equal(t, "my-sequence", doc.Slug)
	assert.False(t, doc.IsPublic)

	require.Len(t, doc.Items, 2)
	assert.Equal(t, models.ItemTypeImage, doc.Items[0].Type)
	assert.True(t, f.proxy.IsWrapped(doc.Items[0].ImageURL))
	assert.Equal(t, models.ItemTypeVideo, doc.Items[1].Type)
	assert.Equal(t, "dQw4w9WgXcQ", doc.Items[1].VideoID)
	assert.Equal(t, 1, doc.Items[0].Position)
	assert.Equal(t, 2, doc.Items[1].Position)

	f.repo.AssertExpectations(t)
	f.draftRepo.AssertExpectations(t)
}

func TestSequenceService_Create_NoValidItems(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)

	_, err := f.svc.Create(context.Background(), uuid.New(), DocumentInput{Title: "Empty"}, "")

	assert.ErrorIs(t, err, models.ErrNoValidItems)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSequenceService_Create_DraftClearFailureIsNotFatal(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	userID := uuid.New()

	f.repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.draftRepo.On("Clear", mock.Anything, userID).Return(assert.AnError).Once()

	_, err := f.svc.Create(context.Background(), userID, DocumentInput{Title: "T"}, "https://example.com/a.png")

	assert.NoError(t, err)
}

func TestSequenceService_GetPublic_HiddenDocumentLooksMissing(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, mock.Anything, id).
		Return(&models.SequenceDocument{ID: id, IsPublic: false}, nil).Once()

	_, err := f.svc.GetPublic(context.Background(), id)

	assert.ErrorIs(t, err, models.ErrSequenceNotFound)
}

func TestSequenceService_ImportText_AppendsAtEnd(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	id, userID := uuid.New(), uuid.New()

	doc := &models.SequenceDocument{ID: id, UserID: userID, Title: "T", Items: imageItems(2)}
	f.repo.On("GetByIDForUser", mock.Anything, mock.Anything, id, userID).Return(doc, nil).Once()
	f.repo.On("Update", mock.Anything, mock.Anything, doc).Return(nil).Once()

	res, err := f.svc.ImportText(context.Background(), id, userID, "https://youtu.be/dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Document.Items, 3)
	// Новый элемент встаёт в конец с плотной нумерацией
	assert.Equal(t, 3, res.Document.Items[2].Position)
	assert.Equal(t, "dQw4w9WgXcQ", res.Document.Items[2].VideoID)
	f.repo.AssertExpectations(t)
}

func TestSequenceService_ImportText_AllSkipped(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)

	// Принудительное видео без распознаваемого провайдера пропускается
	_, err := f.svc.ImportText(context.Background(), uuid.New(), uuid.New(), "video:https://example.com/x.mp4")

	assert.ErrorIs(t, err, models.ErrNoValidItems)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSequenceService_ImportFromSource_UnknownSource(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)

	_, err := f.svc.ImportFromSource(context.Background(), uuid.New(), uuid.New(), "vimeo", "https://vimeo.com/x")

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestSequenceService_ImportFromSource_WrapsImages(t *testing.T) {
	folders := fakeFolderImporter{items: []models.SequenceItem{
		{Type: models.ItemTypeImage, ImageURL: "https://drive.google.com/uc?export=view&id=img-1", AltText: "cover.png"},
		{Type: models.ItemTypeVideo, VideoID: "vid-1", Title: "intro.mp4"},
	}}
	f := newSequenceServiceFixture(nil, nil, folders)
	id, userID := uuid.New(), uuid.New()

	doc := &models.SequenceDocument{ID: id, UserID: userID, Title: "T"}
	f.repo.On("GetByIDForUser", mock.Anything, mock.Anything, id, userID).Return(doc, nil).Once()
	f.repo.On("Update", mock.Anything, mock.Anything, doc).Return(nil).Once()

	res, err := f.svc.ImportFromSource(context.Background(), id, userID, "drive", "FOLDER12345abc")

	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	require.Len(t, res.Document.Items, 2)
	assert.True(t, f.proxy.IsWrapped(res.Document.Items[0].ImageURL))
	assert.Equal(t, "vid-1", res.Document.Items[1].VideoID)
}

func TestSequenceService_ImportFromSource_CapRejectsWholeBatch(t *testing.T) {
	playlists := fakePlaylistImporter{items: []models.SequenceItem{
		{Type: models.ItemTypeVideo, VideoID: "aaaaaaaaaaa"},
		{Type: models.ItemTypeVideo, VideoID: "bbbbbbbbbbb"},
	}}
	f := newSequenceServiceFixture(playlists, nil, nil)
	id, userID := uuid.New(), uuid.New()

	doc := &models.SequenceDocument{ID: id, UserID: userID, Title: "T", Items: imageItems(49)}
	f.repo.On("GetByIDForUser", mock.Anything, mock.Anything, id, userID).Return(doc, nil).Once()

	_, err := f.svc.ImportFromSource(context.Background(), id, userID, "youtube", "PLabc123_XYZ")

	require.ErrorIs(t, err, models.ErrTooManyItems)
	// Отклонённый импорт не сохраняется и не меняет документ
	assert.Len(t, doc.Items, 49)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSequenceService_ImportFromSource_ImporterErrorPassesThrough(t *testing.T) {
	playlists := fakePlaylistImporter{err: assert.AnError}
	f := newSequenceServiceFixture(playlists, nil, nil)

	_, err := f.svc.ImportFromSource(context.Background(), uuid.New(), uuid.New(), "youtube", "PLabc123_XYZ")

	assert.ErrorIs(t, err, assert.AnError)
	f.repo.AssertNotCalled(t, "GetByIDForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSequenceService_RemoveItem(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	id, userID := uuid.New(), uuid.New()

	doc := &models.SequenceDocument{ID: id, UserID: userID, Title: "T", Items: imageItems(3)}
	f.repo.On("GetByIDForUser", mock.Anything, mock.Anything, id, userID).Return(doc, nil).Once()
	f.repo.On("Update", mock.Anything, mock.Anything, doc).Return(nil).Once()

	got, err := f.svc.RemoveItem(context.Background(), id, userID, 1)

	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.Items[0].Position)
	assert.Equal(t, 2, got.Items[1].Position)
}

func TestSequenceService_MoveItem_InvalidIndexNotPersisted(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	id, userID := uuid.New(), uuid.New()

	doc := &models.SequenceDocument{ID: id, UserID: userID, Title: "T", Items: imageItems(2)}
	f.repo.On("GetByIDForUser", mock.Anything, mock.Anything, id, userID).Return(doc, nil).Once()

	_, err := f.svc.MoveItem(context.Background(), id, userID, 0, 5)

	assert.ErrorIs(t, err, models.ErrInvalidItemIndex)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSequenceService_Export(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	id, userID := uuid.New(), uuid.New()

	wrapped := f.proxy.Wrap("https://example.com/a.png")
	doc := &models.SequenceDocument{
		ID: id, UserID: userID, Title: "T",
		Items: []models.SequenceItem{
			{Position: 1, Type: models.ItemTypeImage, ImageURL: wrapped},
			{Position: 2, Type: models.ItemTypeVideo, VideoID: "dQw4w9WgXcQ", URL: "https://youtu.be/dQw4w9WgXcQ"},
			{Position: 3, Type: models.ItemTypeVideo, VideoID: "dQw4w9WgXcQ"},
			{Position: 4, Type: models.ItemTypeVideo, VideoID: "drive-file-id-123"},
			{Position: 5, Type: models.ItemTypeImage}, // невалидный, в экспорт не попадает
		},
	}
	f.repo.On("GetByIDForUser", mock.Anything, mock.Anything, id, userID).Return(doc, nil).Once()

	urls, err := f.svc.Export(context.Background(), id, userID)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/a.png",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://drive.google.com/file/d/drive-file-id-123/view",
	}, urls)
}

func TestSequenceService_SaveDraft_SwallowsPersistenceError(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	userID := uuid.New()
	f.draftRepo.On("Save", mock.Anything, userID, mock.Anything).Return(assert.AnError).Once()

	err := f.svc.SaveDraft(context.Background(), userID, &models.DraftSnapshot{Title: "wip"})

	assert.NoError(t, err)
	f.draftRepo.AssertExpectations(t)
}

func TestSequenceService_SaveDraft_StampsSavedAt(t *testing.T) {
	f := newSequenceServiceFixture(nil, nil, nil)
	userID := uuid.New()
	draft := &models.DraftSnapshot{Title: "wip"}
	f.draftRepo.On("Save", mock.Anything, userID, draft).Return(nil).Once()

	require.NoError(t, f.svc.SaveDraft(context.Background(), userID, draft))
	assert.False(t, draft.SavedAt.IsZero())
}

func TestSplitURLList(t *testing.T) {
	text := "https://a.com/1.png\nhttps://a.com/2.png, https://a.com/3.png\r\n\n  "
	assert.Equal(t, []string{
		"https://a.com/1.png",
		"https://a.com/2.png",
		"https://a.com/3.png",
	}, SplitURLList(text))
	assert.Empty(t, SplitURLList(""))
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"My Sequence", "my-sequence"},
		{"  Моя история 42  ", "42"},
		{"Hello, World!", "hello-world"},
		{"--- ---", ""},
		{"Already-Slugged", "already-slugged"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Slugify(tc.input), "input %q", tc.input)
	}
}

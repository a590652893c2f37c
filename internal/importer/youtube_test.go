package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"sequence-server/internal/models"
)

type fakePage struct {
	entries []PlaylistEntry
	next    string
}

// fakeYouTubeAPI отдаёт заранее заданные страницы по pageToken ("" - первая).
type fakeYouTubeAPI struct {
	pages      map[string]fakePage
	pageErr    error
	details    map[string]VideoDetail
	detailsErr error

	requestedPlaylists []string
	detailCalls        [][]string
}

func (f *fakeYouTubeAPI) PlaylistPage(_ context.Context, playlistID, pageToken string, _ int64) ([]PlaylistEntry, string, error) {
	f.requestedPlaylists = append(f.requestedPlaylists, playlistID)
	if f.pageErr != nil {
		return nil, "", f.pageErr
	}
	page := f.pages[pageToken]
	return page.entries, page.next, nil
}

func (f *fakeYouTubeAPI) VideoDetails(_ context.Context, ids []string) (map[string]VideoDetail, error) {
	f.detailCalls = append(f.detailCalls, ids)
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details, nil
}

func TestExtractPlaylistID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"playlist url", "https://www.youtube.com/playlist?list=PLabc123_XYZ", "PLabc123_XYZ", true},
		{"watch url with list param", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc123_XYZ", "PLabc123_XYZ", true},
		{"bare PL id", "PLabc123_XYZ", "PLabc123_XYZ", true},
		{"bare UU id", "UUabc123_XYZ", "UUabc123_XYZ", true},
		{"plain video url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "", false},
		{"garbage", "not a playlist", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := ExtractPlaylistID(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestImportPlaylist_InvalidURL(t *testing.T) {
	imp := NewYouTubeImporter(&fakeYouTubeAPI{}, zap.NewNop())

	items, err := imp.ImportPlaylist(context.Background(), "https://example.com/not-a-playlist")

	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Nil(t, items)
}

func TestImportPlaylist_PaginatesAndEnriches(t *testing.T) {
	api := &fakeYouTubeAPI{
		pages: map[string]fakePage{
			"": {
				entries: []PlaylistEntry{
					{VideoID: "aaaaaaaaaaa", Title: "First", Thumbnail: "thumb-a-default"},
					{VideoID: "bbbbbbbbbbb", Title: "Second", Thumbnail: "thumb-b-default"},
				},
				next: "page2",
			},
			"page2": {
				entries: []PlaylistEntry{
					{VideoID: "ccccccccccc", Title: "Third", Thumbnail: "thumb-c-default"},
				},
			},
		},
		details: map[string]VideoDetail{
			"aaaaaaaaaaa": {Channel: "Some Channel", Thumbnail: "thumb-a-hd", DurationSeconds: 452},
			"ccccccccccc": {Channel: "Some Channel", DurationSeconds: 61},
		},
	}
	imp := NewYouTubeImporter(api, zap.NewNop())

	items, err := imp.ImportPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLabc123_XYZ")

	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, models.ItemTypeVideo, items[0].Type)
	assert.Equal(t, "aaaaaaaaaaa", items[0].VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", items[0].URL)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "Some Channel", items[0].Creator)
	assert.Equal(t, 452, items[0].DurationSeconds)
	// Обогащение повысило разрешение превью
	assert.Equal(t, "thumb-a-hd", items[0].Thumbnail)

	// Видео без деталей сохраняет базовую форму
	assert.Equal(t, "thumb-b-default", items[1].Thumbnail)
	assert.Equal(t, "", items[1].Creator)

	// Деталь без thumbnail не затирает базовое превью
	assert.Equal(t, "thumb-c-default", items[2].Thumbnail)
	assert.Equal(t, 61, items[2].DurationSeconds)

	require.Len(t, api.detailCalls, 1)
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"}, api.detailCalls[0])
}

func TestImportPlaylist_EmptyPlaylist(t *testing.T) {
	api := &fakeYouTubeAPI{pages: map[string]fakePage{}}
	imp := NewYouTubeImporter(api, zap.NewNop())

	items, err := imp.ImportPlaylist(context.Background(), "PLabc123_XYZ")

	require.Error(t, err)
	assert.Equal(t, KindEmpty, KindOf(err))
	assert.Nil(t, items)
}

func TestImportPlaylist_EnrichmentFailureDegrades(t *testing.T) {
	api := &fakeYouTubeAPI{
		pages: map[string]fakePage{
			"": {entries: []PlaylistEntry{{VideoID: "aaaaaaaaaaa", Title: "First", Thumbnail: "thumb-a"}}},
		},
		detailsErr: errors.New("videos.list failed"),
	}
	imp := NewYouTubeImporter(api, zap.NewNop())

	items, err := imp.ImportPlaylist(context.Background(), "PLabc123_XYZ")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "thumb-a", items[0].Thumbnail)
	assert.Equal(t, "", items[0].Creator)
	assert.Equal(t, 0, items[0].DurationSeconds)
}

func TestImportPlaylist_UpstreamErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"quota exceeded", &googleapi.Error{Code: 403}, KindQuotaExceeded},
		{"playlist not found", &googleapi.Error{Code: 404}, KindNotFound},
		{"server error", &googleapi.Error{Code: 500}, KindUpstreamUnavailable},
		{"network error", errors.New("connection refused"), KindUpstreamUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			imp := NewYouTubeImporter(&fakeYouTubeAPI{pageErr: tc.err}, zap.NewNop())

			_, err := imp.ImportPlaylist(context.Background(), "PLabc123_XYZ")

			require.Error(t, err)
			assert.Equal(t, tc.expected, KindOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestImportPlaylist_CapsEntryCount(t *testing.T) {
	big := make([]PlaylistEntry, maxImportEntries+20)
	for i := range big {
		big[i] = PlaylistEntry{VideoID: "aaaaaaaaaaa"}
	}
	api := &fakeYouTubeAPI{
		pages: map[string]fakePage{"": {entries: big}},
	}
	imp := NewYouTubeImporter(api, zap.NewNop())

	items, err := imp.ImportPlaylist(context.Background(), "PLabc123_XYZ")

	require.NoError(t, err)
	assert.Len(t, items, maxImportEntries)
}

// Package importer contains the source-specific import adapters: Google Drive
// folders, YouTube playlists and YouTube Kids channels. Each adapter fetches a
// flat list of candidates from its upstream API and converts them into
// canonical sequence items; position assignment and the document cap are the
// caller's concern (the single merge point in the sequence service).
package importer

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"sequence-server/internal/models"
)

// maxImportEntries - верхняя граница пагинации адаптеров. Совпадает с лимитом
// документа: больше 50 кандидатов запрашивать бессмысленно.
const maxImportEntries = models.MaxSequenceItems

// PlaylistEntry - базовая форма элемента плейлиста до обогащения.
type PlaylistEntry struct {
	VideoID   string
	Title     string
	Thumbnail string
}

// VideoDetail - обогащённые метаданные видео из batch-запроса Videos.List.
type VideoDetail struct {
	Channel         string
	Thumbnail       string
	DurationSeconds int
}

// YouTubeAPI - узкий интерфейс над YouTube Data API v3.
// Реальная реализация - googleYouTubeAPI; тесты подставляют фейк.
type YouTubeAPI interface {
	PlaylistPage(ctx context.Context, playlistID, pageToken string, max int64) (entries []PlaylistEntry, nextPageToken string, err error)
	VideoDetails(ctx context.Context, ids []string) (map[string]VideoDetail, error)
}

var (
	playlistParamRe = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
	playlistBareRe  = regexp.MustCompile(`^(?:PL|UU|OL|LL)[A-Za-z0-9_-]+$`)
)

// ExtractPlaylistID извлекает id плейлиста из поддерживаемых форм:
// ?list=, /playlist?list= или голый PL.../UU... id.
func ExtractPlaylistID(raw string) (string, bool) {
	if m := playlistParamRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if playlistBareRe.MatchString(raw) {
		return raw, true
	}
	return "", false
}

// YouTubeImporter импортирует элементы из плейлистов YouTube.
type YouTubeImporter struct {
	api    YouTubeAPI
	logger *zap.Logger
}

// NewYouTubeImporter создает новый YouTubeImporter.
func NewYouTubeImporter(api YouTubeAPI, logger *zap.Logger) *YouTubeImporter {
	return &YouTubeImporter{api: api, logger: logger.Named("YouTubeImporter")}
}

// ImportPlaylist загружает до 50 элементов плейлиста и обогащает их
// метаданными (канал, thumbnail повышенного разрешения, длительность).
// Сбой обогащения деградирует до базовой формы, но не роняет импорт целиком.
func (imp *YouTubeImporter) ImportPlaylist(ctx context.Context, rawURL string) ([]models.SequenceItem, error) {
	playlistID, ok := ExtractPlaylistID(rawURL)
	if !ok {
		return nil, newError(KindInvalidInput, "youtube", fmt.Sprintf("could not extract playlist id from %q", rawURL), nil)
	}
	return imp.importFromPlaylistID(ctx, "youtube", playlistID)
}

func (imp *YouTubeImporter) importFromPlaylistID(ctx context.Context, source, playlistID string) ([]models.SequenceItem, error) {
	log := imp.logger.With(zap.String("playlistID", playlistID), zap.String("source", source))

	entries, err := imp.fetchAllEntries(ctx, source, playlistID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, newError(KindEmpty, source, "playlist contains no videos", nil)
	}

	// Обогащение вторым batch-запросом. При ошибке деградируем до базовой
	// формы (title + default thumbnail), метаданные хуже - импорт живой.
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.VideoID)
	}
	details, err := imp.api.VideoDetails(ctx, ids)
	if err != nil {
		log.Warn("Video enrichment failed, degrading to basic metadata", zap.Error(err))
		details = nil
	}

	items := make([]models.SequenceItem, 0, len(entries))
	for _, e := range entries {
		item := models.SequenceItem{
			Type:      models.ItemTypeVideo,
			VideoID:   e.VideoID,
			URL:       "https://www.youtube.com/watch?v=" + e.VideoID,
			Title:     e.Title,
			Thumbnail: e.Thumbnail,
		}
		if d, ok := details[e.VideoID]; ok {
			item.Creator = d.Channel
			item.DurationSeconds = d.DurationSeconds
			if d.Thumbnail != "" {
				item.Thumbnail = d.Thumbnail
			}
		}
		items = append(items, item)
	}

	log.Info("Playlist imported", zap.Int("count", len(items)), zap.Bool("enriched", details != nil))
	return items, nil
}

// fetchAllEntries пагинирует плейлист до maxImportEntries записей.
func (imp *YouTubeImporter) fetchAllEntries(ctx context.Context, source, playlistID string) ([]PlaylistEntry, error) {
	var all []PlaylistEntry
	pageToken := ""
	for {
		remaining := int64(maxImportEntries - len(all))
		if remaining <= 0 {
			break
		}
		entries, next, err := imp.api.PlaylistPage(ctx, playlistID, pageToken, remaining)
		if err != nil {
			return nil, wrapUpstream(source, err)
		}
		all = append(all, entries...)
		if next == "" || len(entries) == 0 {
			break
		}
		pageToken = next
	}
	if len(all) > maxImportEntries {
		all = all[:maxImportEntries]
	}
	return all, nil
}

// googleYouTubeAPI - реализация YouTubeAPI поверх google.golang.org/api.
type googleYouTubeAPI struct {
	svc *youtube.Service
}

// NewYouTubeAPI создает клиент YouTube Data API v3 с API-ключом.
func NewYouTubeAPI(ctx context.Context, apiKey string) (YouTubeAPI, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize youtube client: %w", err)
	}
	return &googleYouTubeAPI{svc: svc}, nil
}

func (g *googleYouTubeAPI) PlaylistPage(ctx context.Context, playlistID, pageToken string, max int64) ([]PlaylistEntry, string, error) {
	call := g.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(max)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", err
	}

	entries := make([]PlaylistEntry, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ContentDetails == nil || it.ContentDetails.VideoId == "" {
			continue
		}
		e := PlaylistEntry{VideoID: it.ContentDetails.VideoId}
		if it.Snippet != nil {
			e.Title = it.Snippet.Title
			e.Thumbnail = pickThumbnail(it.Snippet.Thumbnails)
		}
		entries = append(entries, e)
	}
	return entries, resp.NextPageToken, nil
}

func (g *googleYouTubeAPI) VideoDetails(ctx context.Context, ids []string) (map[string]VideoDetail, error) {
	resp, err := g.svc.Videos.List([]string{"snippet", "contentDetails"}).
		Id(ids...).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	details := make(map[string]VideoDetail, len(resp.Items))
	for _, it := range resp.Items {
		d := VideoDetail{}
		if it.Snippet != nil {
			d.Channel = it.Snippet.ChannelTitle
			d.Thumbnail = pickThumbnail(it.Snippet.Thumbnails)
		}
		if it.ContentDetails != nil {
			d.DurationSeconds = ParseISODuration(it.ContentDetails.Duration)
		}
		details[it.Id] = d
	}
	return details, nil
}

// pickThumbnail выбирает максимально доступное разрешение.
func pickThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, cand := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if cand != nil && cand.Url != "" {
			return cand.Url
		}
	}
	return ""
}

package importer

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"sequence-server/internal/models"
)

var (
	kidsChannelRe = regexp.MustCompile(`youtubekids\.com/channel/(UC[A-Za-z0-9_-]{22})`)
	channelURLRe  = regexp.MustCompile(`youtube\.com/channel/(UC[A-Za-z0-9_-]{22})`)
	bareChannelRe = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
)

// ExtractKidsChannelID извлекает id канала из URL YouTube Kids
// (youtubekids.com/channel/UC...), обычного канального URL или голого UC-id.
func ExtractKidsChannelID(raw string) (string, bool) {
	if m := kidsChannelRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if m := channelURLRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if bareChannelRe.MatchString(raw) {
		return raw, true
	}
	return "", false
}

// UploadsPlaylistID переводит id канала в id его uploads-плейлиста.
// У YouTube они связаны детерминированно: UCxxxx -> UUxxxx.
func UploadsPlaylistID(channelID string) string {
	return "UU" + channelID[2:]
}

// KidsImporter импортирует последние загрузки канала YouTube Kids.
// Отдельного API у YouTube Kids нет: контент канала доступен через обычный
// Data API по uploads-плейлисту, поэтому адаптер переиспользует
// плейлистовую пагинацию и обогащение YouTubeImporter.
type KidsImporter struct {
	yt     *YouTubeImporter
	logger *zap.Logger
}

// NewKidsImporter создает новый KidsImporter.
func NewKidsImporter(api YouTubeAPI, logger *zap.Logger) *KidsImporter {
	return &KidsImporter{
		yt:     NewYouTubeImporter(api, logger),
		logger: logger.Named("KidsImporter"),
	}
}

// ImportChannel загружает до 50 последних видео канала.
func (imp *KidsImporter) ImportChannel(ctx context.Context, rawURL string) ([]models.SequenceItem, error) {
	channelID, ok := ExtractKidsChannelID(rawURL)
	if !ok {
		return nil, newError(KindInvalidInput, "youtubekids", fmt.Sprintf("could not extract channel id from %q", rawURL), nil)
	}
	imp.logger.Info("Importing kids channel uploads", zap.String("channelID", channelID))
	return imp.yt.importFromPlaylistID(ctx, "youtubekids", UploadsPlaylistID(channelID))
}

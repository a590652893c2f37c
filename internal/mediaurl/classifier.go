// Package mediaurl contains the URL classifier/normalizer and the image
// proxy-wrap codec. Both are pure: no I/O, no logging, deterministic output,
// and classification is a fixed point (classifying a canonical form returns
// the same canonical form).
package mediaurl

import (
	"regexp"
	"strings"

	"sequence-server/internal/models"
)

// Classification - результат нормализации сырой строки, вставленной пользователем.
type Classification struct {
	Type     models.ItemType
	Provider models.Provider

	// CanonicalURL заполняется для изображений: каноническая (storage) форма URL.
	CanonicalURL string
	// ID заполняется для видео: 11-символьный YouTube id или Drive file id.
	ID string
}

var (
	youtubeIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	driveIDRe   = regexp.MustCompile(`[A-Za-z0-9_-]{10,}`)

	youtubeWatchRe  = regexp.MustCompile(`youtube\.com/watch\?.*v=([A-Za-z0-9_-]{11})`)
	youtubeShortRe  = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`)
	youtubeEmbedRe  = regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`)
	youtubeShortsRe = regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`)

	driveFileRe = regexp.MustCompile(`drive\.google\.com/file/d/([A-Za-z0-9_-]+)`)
	driveOpenRe = regexp.MustCompile(`drive\.google\.com/open\?id=([A-Za-z0-9_-]+)`)
	driveViewRe = regexp.MustCompile(`drive\.google\.com/uc\?export=view&id=([A-Za-z0-9_-]+)`)
)

// DriveViewURL возвращает каноническую direct-view форму Drive-изображения.
func DriveViewURL(fileID string) string {
	return "https://drive.google.com/uc?export=view&id=" + fileID
}

// ExtractYouTubeID извлекает 11-символьный id видео из всех поддерживаемых
// форм URL (watch?v=, youtu.be/, embed/, shorts/) либо из голого id.
func ExtractYouTubeID(s string) (string, bool) {
	if youtubeIDRe.MatchString(s) {
		return s, true
	}
	for _, re := range []*regexp.Regexp{youtubeWatchRe, youtubeShortRe, youtubeEmbedRe, youtubeShortsRe} {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ExtractDriveID извлекает file id из URL Google Drive
// (file/d/{id}, open?id={id} или канонической uc?export=view&id={id}).
func ExtractDriveID(s string) (string, bool) {
	for _, re := range []*regexp.Regexp{driveFileRe, driveOpenRe, driveViewRe} {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Classify нормализует сырую строку в канонический элемент.
//
// Порядок правил важен: ручные префиксы video:/image: проверяются ДО
// определения провайдера; неопознанные строки считаются изображениями как есть.
func Classify(raw string) Classification {
	s := strings.TrimSpace(raw)

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "video:"):
		return classifyForced(strings.TrimSpace(s[len("video:"):]), models.ItemTypeVideo)
	case strings.HasPrefix(lower, "image:"):
		return classifyForced(strings.TrimSpace(s[len("image:"):]), models.ItemTypeImage)
	}

	if id, ok := ExtractYouTubeID(s); ok {
		return Classification{Type: models.ItemTypeVideo, Provider: models.ProviderYouTube, ID: id}
	}
	if id, ok := ExtractDriveID(s); ok {
		// Drive без принудительного типа трактуем как изображение:
		// переписываем в direct-view форму.
		return Classification{
			Type:         models.ItemTypeImage,
			Provider:     models.ProviderDrive,
			CanonicalURL: DriveViewURL(id),
		}
	}

	// Неопознанный URL - изображение дословно.
	return Classification{Type: models.ItemTypeImage, Provider: models.ProviderGeneric, CanonicalURL: s}
}

// classifyForced классифицирует остаток строки с принудительным типом.
func classifyForced(s string, forced models.ItemType) Classification {
	if forced == models.ItemTypeVideo {
		if id, ok := ExtractYouTubeID(s); ok {
			return Classification{Type: models.ItemTypeVideo, Provider: models.ProviderYouTube, ID: id}
		}
		if id, ok := ExtractDriveID(s); ok {
			// Видео из Drive встраиваются по id, без переписывания URL.
			return Classification{Type: models.ItemTypeVideo, Provider: models.ProviderDrive, ID: id}
		}
		return Classification{Type: models.ItemTypeVideo, Provider: models.ProviderGeneric, ID: ""}
	}

	// Принудительное изображение: Drive переписываем, остальное оставляем как есть.
	if id, ok := ExtractDriveID(s); ok {
		return Classification{Type: models.ItemTypeImage, Provider: models.ProviderDrive, CanonicalURL: DriveViewURL(id)}
	}
	return Classification{Type: models.ItemTypeImage, Provider: models.ProviderGeneric, CanonicalURL: s}
}

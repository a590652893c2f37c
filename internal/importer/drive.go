package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"sequence-server/internal/mediaurl"
	"sequence-server/internal/models"
)

var (
	driveFolderRe     = regexp.MustCompile(`drive\.google\.com/drive/(?:u/\d+/)?folders/([A-Za-z0-9_-]+)`)
	bareDriveFolderRe = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)
)

// ExtractFolderID извлекает id папки из URL Google Drive
// (drive.google.com/drive/folders/{id}, с опциональным /u/N/) или голого id.
func ExtractFolderID(raw string) (string, bool) {
	if m := driveFolderRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if bareDriveFolderRe.MatchString(raw) {
		return raw, true
	}
	return "", false
}

// DriveFile - файл из листинга папки.
type DriveFile struct {
	ID       string
	Name     string
	MimeType string
}

// DriveAPI - узкий интерфейс над Google Drive API v3.
type DriveAPI interface {
	ListFolder(ctx context.Context, folderID string, max int64) ([]DriveFile, error)
}

// DriveImporter импортирует содержимое папки Google Drive. Изображения
// попадают в последовательность через канонический direct-view URL,
// видеофайлы - через embedding по file id. Имя файла становится подписью:
// title у видео, alt text у изображения.
type DriveImporter struct {
	api    DriveAPI
	logger *zap.Logger
}

// NewDriveImporter создает новый DriveImporter.
func NewDriveImporter(api DriveAPI, logger *zap.Logger) *DriveImporter {
	return &DriveImporter{api: api, logger: logger.Named("DriveImporter")}
}

// ImportFolder загружает до 50 медиа-файлов папки. Файлы с типами,
// не являющимися image/* или video/*, пропускаются.
func (imp *DriveImporter) ImportFolder(ctx context.Context, rawURL string) ([]models.SequenceItem, error) {
	folderID, ok := ExtractFolderID(rawURL)
	if !ok {
		return nil, newError(KindInvalidInput, "drive", fmt.Sprintf("could not extract folder id from %q", rawURL), nil)
	}
	log := imp.logger.With(zap.String("folderID", folderID))

	files, err := imp.api.ListFolder(ctx, folderID, maxImportEntries)
	if err != nil {
		return nil, wrapUpstream("drive", err)
	}

	items := make([]models.SequenceItem, 0, len(files))
	skipped := 0
	for _, f := range files {
		switch {
		case strings.HasPrefix(f.MimeType, "image/"):
			items = append(items, models.SequenceItem{
				Type:     models.ItemTypeImage,
				ImageURL: mediaurl.DriveViewURL(f.ID),
				AltText:  f.Name,
			})
		case strings.HasPrefix(f.MimeType, "video/"):
			items = append(items, models.SequenceItem{
				Type:    models.ItemTypeVideo,
				VideoID: f.ID,
				Title:   f.Name,
			})
		default:
			skipped++
		}
	}
	if len(items) == 0 {
		return nil, newError(KindEmpty, "drive", "folder contains no importable media", nil)
	}

	log.Info("Drive folder imported", zap.Int("count", len(items)), zap.Int("skipped", skipped))
	return items, nil
}

// googleDriveAPI - реализация DriveAPI поверх google.golang.org/api.
type googleDriveAPI struct {
	svc *drive.Service
}

// NewDriveAPI создает клиент Google Drive API v3 с API-ключом.
func NewDriveAPI(ctx context.Context, apiKey string) (DriveAPI, error) {
	svc, err := drive.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive client: %w", err)
	}
	return &googleDriveAPI{svc: svc}, nil
}

func (g *googleDriveAPI) ListFolder(ctx context.Context, folderID string, max int64) ([]DriveFile, error) {
	resp, err := g.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
		Fields("files(id, name, mimeType)").
		OrderBy("name").
		PageSize(max).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	files := make([]DriveFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, DriveFile{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
	}
	return files, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sequence-server/internal/mediaurl"
	"sequence-server/internal/models"
	"sequence-server/internal/repository"
)

// PlaylistImporter загружает элементы из плейлиста YouTube.
type PlaylistImporter interface {
	ImportPlaylist(ctx context.Context, rawURL string) ([]models.SequenceItem, error)
}

// ChannelImporter загружает элементы из канала YouTube Kids.
type ChannelImporter interface {
	ImportChannel(ctx context.Context, rawURL string) ([]models.SequenceItem, error)
}

// FolderImporter загружает элементы из папки Google Drive.
type FolderImporter interface {
	ImportFolder(ctx context.Context, rawURL string) ([]models.SequenceItem, error)
}

// DocumentInput - редактируемые поля шапки документа.
type DocumentInput struct {
	Title        string
	Description  string
	CreatorName  *string
	CreatorLink  *string
	ThumbnailURL *string
	Hashtags     []string
}

// ImportResult - итог импорта: обновлённый документ плюс счётчики.
type ImportResult struct {
	Document *models.SequenceDocument
	Added    int
	Skipped  int
}

// SequenceService defines the interface for composing and persisting documents.
type SequenceService interface {
	Create(ctx context.Context, userID uuid.UUID, input DocumentInput, text string) (*models.SequenceDocument, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*models.SequenceDocument, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*models.SequenceDocument, error)
	List(ctx context.Context, userID uuid.UUID, limit int, cursor string) ([]models.SequenceDocument, string, error)
	Update(ctx context.Context, id, userID uuid.UUID, input DocumentInput) (*models.SequenceDocument, error)

	ImportText(ctx context.Context, id, userID uuid.UUID, text string) (*ImportResult, error)
	ImportFromSource(ctx context.Context, id, userID uuid.UUID, source, sourceURL string) (*ImportResult, error)

	MoveItem(ctx context.Context, id, userID uuid.UUID, from, to int) (*models.SequenceDocument, error)
	MoveItemToPosition(ctx context.Context, id, userID uuid.UUID, index, position int) (*models.SequenceDocument, error)
	RemoveItem(ctx context.Context, id, userID uuid.UUID, index int) (*models.SequenceDocument, error)

	Export(ctx context.Context, id, userID uuid.UUID) ([]string, error)

	SaveDraft(ctx context.Context, userID uuid.UUID, draft *models.DraftSnapshot) error
	GetDraft(ctx context.Context, userID uuid.UUID) (*models.DraftSnapshot, error)
	ClearDraft(ctx context.Context, userID uuid.UUID) error
}

type sequenceServiceImpl struct {
	repo      repository.SequenceDocumentRepository
	draftRepo repository.DraftRepository
	playlists PlaylistImporter
	channels  ChannelImporter
	folders   FolderImporter
	proxy     mediaurl.ProxyCodec
	db        DB
	logger    *zap.Logger
}

// NewSequenceService creates a new instance of SequenceService.
func NewSequenceService(
	repo repository.SequenceDocumentRepository,
	draftRepo repository.DraftRepository,
	playlists PlaylistImporter,
	channels ChannelImporter,
	folders FolderImporter,
	proxy mediaurl.ProxyCodec,
	db DB,
	logger *zap.Logger,
) SequenceService {
	return &sequenceServiceImpl{
		repo:      repo,
		draftRepo: draftRepo,
		playlists: playlists,
		channels:  channels,
		folders:   folders,
		proxy:     proxy,
		db:        db,
		logger:    logger.Named("SequenceService"),
	}
}

// Create создает новый документ из полей шапки и текстового блока с URL.
func (s *sequenceServiceImpl) Create(ctx context.Context, userID uuid.UUID, input DocumentInput, text string) (*models.SequenceDocument, error) {
	log := s.logger.With(zap.String("userID", userID.String()))

	now := time.Now().UTC()
	doc := &models.SequenceDocument{
		ID:           uuid.New(),
		UserID:       userID,
		Slug:         Slugify(input.Title),
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		CreatorName:  input.CreatorName,
		CreatorLink:  input.CreatorLink,
		ThumbnailURL: input.ThumbnailURL,
		Hashtags:     input.Hashtags,
		IsPublic:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	items, skipped := s.itemsFromText(text)
	if err := doc.AppendItems(items); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, doc)
	})
	if err != nil {
		log.Error("Failed to create sequence document", zap.Error(err))
		return nil, err
	}

	// Успешное сохранение делает локальный черновик устаревшим
	if cErr := s.draftRepo.Clear(ctx, userID); cErr != nil {
		log.Warn("Failed to clear draft after create", zap.Error(cErr))
	}

	log.Info("Sequence document created",
		zap.String("sequenceID", doc.ID.String()),
		zap.Int("items", len(doc.Items)),
		zap.Int("skipped", skipped))
	return doc, nil
}

// Get возвращает документ владельца с нормализованными URL изображений.
func (s *sequenceServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*models.SequenceDocument, error) {
	doc, err := s.repo.GetByIDForUser(ctx, s.db, id, userID)
	if err != nil {
		return nil, err
	}
	s.normalizeImageURLs(doc)
	return doc, nil
}

// GetPublic возвращает документ для просмотра по прямой ссылке. Непубличный
// документ неотличим от несуществующего.
func (s *sequenceServiceImpl) GetPublic(ctx context.Context, id uuid.UUID) (*models.SequenceDocument, error) {
	doc, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsPublic {
		return nil, models.ErrSequenceNotFound
	}
	s.normalizeImageURLs(doc)
	return doc, nil
}

// List возвращает страницу документов пользователя.
func (s *sequenceServiceImpl) List(ctx context.Context, userID uuid.UUID, limit int, cursor string) ([]models.SequenceDocument, string, error) {
	SanitizeLimit(&limit, 20, 100)
	return s.repo.ListByUser(ctx, s.db, userID, limit, cursor)
}

// Update перезаписывает шапку документа, не трогая элементы.
func (s *sequenceServiceImpl) Update(ctx context.Context, id, userID uuid.UUID, input DocumentInput) (*models.SequenceDocument, error) {
	return s.mutate(ctx, id, userID, func(doc *models.SequenceDocument) error {
		title := strings.TrimSpace(input.Title)
		if title == "" {
			return models.ErrTitleRequired
		}
		if len(input.Hashtags) > models.MaxHashtags {
			return fmt.Errorf("%w: %d > %d", models.ErrTooManyHashtags, len(input.Hashtags), models.MaxHashtags)
		}
		doc.Title = title
		doc.Slug = Slugify(title)
		doc.Description = input.Description
		doc.CreatorName = input.CreatorName
		doc.CreatorLink = input.CreatorLink
		doc.ThumbnailURL = input.ThumbnailURL
		doc.Hashtags = input.Hashtags
		return nil
	})
}

// ImportText разбирает текстовый блок (URL, разделённые переводами строк или
// запятыми) и дописывает распознанные элементы в конец документа.
func (s *sequenceServiceImpl) ImportText(ctx context.Context, id, userID uuid.UUID, text string) (*ImportResult, error) {
	items, skipped := s.itemsFromText(text)
	if len(items) == 0 {
		return nil, models.ErrNoValidItems
	}
	doc, err := s.appendToDocument(ctx, id, userID, items)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Document: doc, Added: len(items), Skipped: skipped}, nil
}

// ImportFromSource дописывает в документ элементы из внешнего источника:
// youtube (плейлист), youtubekids (канал) или drive (папка).
func (s *sequenceServiceImpl) ImportFromSource(ctx context.Context, id, userID uuid.UUID, source, sourceURL string) (*ImportResult, error) {
	log := s.logger.With(
		zap.String("sequenceID", id.String()),
		zap.String("source", source),
		zap.String("sourceURL", sourceURL))

	var (
		items []models.SequenceItem
		err   error
	)
	switch source {
	case "youtube":
		items, err = s.playlists.ImportPlaylist(ctx, sourceURL)
	case "youtubekids":
		items, err = s.channels.ImportChannel(ctx, sourceURL)
	case "drive":
		items, err = s.folders.ImportFolder(ctx, sourceURL)
	default:
		return nil, fmt.Errorf("%w: unknown import source %q", models.ErrBadRequest, source)
	}
	if err != nil {
		log.Warn("Source import failed", zap.Error(err))
		return nil, err
	}

	// Обёртка изображений в прокси происходит на границе импорта,
	// чтобы в документе жила только каноническая форма.
	for i := range items {
		if items[i].Type == models.ItemTypeImage {
			items[i].ImageURL = s.proxy.Wrap(items[i].ImageURL)
		}
	}

	doc, err := s.appendToDocument(ctx, id, userID, items)
	if err != nil {
		return nil, err
	}
	log.Info("Source import applied", zap.Int("added", len(items)))
	return &ImportResult{Document: doc, Added: len(items)}, nil
}

// MoveItem перемещает элемент с индекса from на индекс to.
func (s *sequenceServiceImpl) MoveItem(ctx context.Context, id, userID uuid.UUID, from, to int) (*models.SequenceDocument, error) {
	return s.mutate(ctx, id, userID, func(doc *models.SequenceDocument) error {
		return doc.MoveItem(from, to)
	})
}

// MoveItemToPosition перемещает элемент с индекса index на 1-based позицию position.
func (s *sequenceServiceImpl) MoveItemToPosition(ctx context.Context, id, userID uuid.UUID, index, position int) (*models.SequenceDocument, error) {
	return s.mutate(ctx, id, userID, func(doc *models.SequenceDocument) error {
		return doc.MoveToPosition(index, position)
	})
}

// RemoveItem удаляет элемент по индексу.
func (s *sequenceServiceImpl) RemoveItem(ctx context.Context, id, userID uuid.UUID, index int) (*models.SequenceDocument, error) {
	return s.mutate(ctx, id, userID, func(doc *models.SequenceDocument) error {
		return doc.RemoveItem(index)
	})
}

// Export возвращает плоский список разрешаемых извне URL в порядке позиций.
// Изображения отдаются без прокси-обёртки, видео - по сохранённому исходному
// URL, а при его отсутствии URL восстанавливается из id.
func (s *sequenceServiceImpl) Export(ctx context.Context, id, userID uuid.UUID) ([]string, error) {
	doc, err := s.repo.GetByIDForUser(ctx, s.db, id, userID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(doc.Items))
	for _, it := range doc.ValidItems() {
		switch it.Type {
		case models.ItemTypeImage:
			urls = append(urls, s.proxy.Unwrap(it.ImageURL))
		case models.ItemTypeVideo:
			urls = append(urls, videoExportURL(it))
		}
	}
	return urls, nil
}

// SaveDraft перезаписывает локальный снапшот пользователя. Сбой персистенса
// не должен ломать редактирование: ошибка логируется и проглатывается.
func (s *sequenceServiceImpl) SaveDraft(ctx context.Context, userID uuid.UUID, draft *models.DraftSnapshot) error {
	draft.SavedAt = time.Now().UTC()
	if err := s.draftRepo.Save(ctx, userID, draft); err != nil {
		s.logger.Warn("Draft autosave failed", zap.String("userID", userID.String()), zap.Error(err))
	}
	return nil
}

// GetDraft возвращает снапшот пользователя с нормализованными URL изображений.
func (s *sequenceServiceImpl) GetDraft(ctx context.Context, userID uuid.UUID) (*models.DraftSnapshot, error) {
	draft, err := s.draftRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range draft.Items {
		if draft.Items[i].Type == models.ItemTypeImage {
			draft.Items[i].ImageURL = s.proxy.Normalize(draft.Items[i].ImageURL)
		}
	}
	return draft, nil
}

// ClearDraft удаляет снапшот пользователя.
func (s *sequenceServiceImpl) ClearDraft(ctx context.Context, userID uuid.UUID) error {
	return s.draftRepo.Clear(ctx, userID)
}

// mutate загружает документ владельца, применяет fn и атомарно сохраняет
// результат (шапку и элементы) в одной транзакции.
func (s *sequenceServiceImpl) mutate(ctx context.Context, id, userID uuid.UUID, fn func(*models.SequenceDocument) error) (*models.SequenceDocument, error) {
	doc, err := s.repo.GetByIDForUser(ctx, s.db, id, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	err = WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return s.repo.Update(ctx, tx, doc)
	})
	if err != nil {
		return nil, err
	}
	s.normalizeImageURLs(doc)
	return doc, nil
}

func (s *sequenceServiceImpl) appendToDocument(ctx context.Context, id, userID uuid.UUID, items []models.SequenceItem) (*models.SequenceDocument, error) {
	return s.mutate(ctx, id, userID, func(doc *models.SequenceDocument) error {
		return doc.AppendItems(items)
	})
}

// itemsFromText разбирает текстовый блок на элементы. Строки с принудительным
// префиксом video:, в которых провайдер не распознан, пропускаются с
// предупреждением: встроить такое видео нечем.
func (s *sequenceServiceImpl) itemsFromText(text string) (items []models.SequenceItem, skipped int) {
	for _, token := range SplitURLList(text) {
		cls := mediaurl.Classify(token)
		switch cls.Type {
		case models.ItemTypeVideo:
			if cls.ID == "" {
				s.logger.Warn("Skipping unrecognized video url", zap.String("token", token))
				skipped++
				continue
			}
			items = append(items, models.SequenceItem{
				Type:    models.ItemTypeVideo,
				VideoID: cls.ID,
				URL:     token,
			})
		case models.ItemTypeImage:
			items = append(items, models.SequenceItem{
				Type:     models.ItemTypeImage,
				ImageURL: s.proxy.Wrap(cls.CanonicalURL),
			})
		}
	}
	return items, skipped
}

// normalizeImageURLs приводит URL всех изображений документа к одинарной
// прокси-обёртке. Снимает исторический дрейф: сырые и дважды обёрнутые
// значения из старых записей.
func (s *sequenceServiceImpl) normalizeImageURLs(doc *models.SequenceDocument) {
	for i := range doc.Items {
		if doc.Items[i].Type == models.ItemTypeImage {
			doc.Items[i].ImageURL = s.proxy.Normalize(doc.Items[i].ImageURL)
		}
	}
}

// videoExportURL восстанавливает внешний URL видео. 11-символьный id - это
// YouTube, всё остальное - Drive file id.
func videoExportURL(it models.SequenceItem) string {
	if it.URL != "" {
		return it.URL
	}
	if len(it.VideoID) == 11 {
		return "https://www.youtube.com/watch?v=" + it.VideoID
	}
	return "https://drive.google.com/file/d/" + it.VideoID + "/view"
}

// SplitURLList разбивает текстовый блок на токены по переводам строк и запятым.
func SplitURLList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Slugify приводит заголовок к url-безопасному слагу.
func Slugify(title string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

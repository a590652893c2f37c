package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItemType определяет тип элемента последовательности.
// Совпадает с типом ENUM 'item_type' в БД.
type ItemType string

const (
	ItemTypeImage ItemType = "image"
	ItemTypeVideo ItemType = "video"
)

// Provider определяет источник, из которого был получен элемент.
type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderDrive   Provider = "drive"
	ProviderGeneric Provider = "generic"
)

const (
	// MaxSequenceItems - жесткий лимит на количество элементов в одной
	// последовательности. Проверяется при каждом добавлении.
	MaxSequenceItems = 50
	// MaxHashtags - лимит на количество хэштегов в атрибуции.
	MaxHashtags = 5
)

// SequenceItem представляет один элемент последовательности (изображение или видео).
// Дискриминатор - поле Type; для image значимо ImageURL, для video - VideoID.
type SequenceItem struct {
	Position int      `json:"position" db:"position"` // 1-based, плотная нумерация без пропусков
	Type     ItemType `json:"type" db:"item_type"`

	// Поля изображения
	ImageURL  string `json:"image_url,omitempty" db:"image_url"` // Каноническая (возможно проксированная) форма
	AltText   string `json:"alt_text,omitempty" db:"alt_text"`
	Narration string `json:"narration,omitempty" db:"narration"`

	// Поля видео
	VideoID         string `json:"video_id,omitempty" db:"video_id"` // 11-символьный YouTube id или Drive file id
	URL             string `json:"url,omitempty" db:"url"`           // Исходный URL, сохраняется для экспорта
	Title           string `json:"title,omitempty" db:"title"`
	Creator         string `json:"creator,omitempty" db:"creator"`
	Thumbnail       string `json:"thumbnail,omitempty" db:"thumbnail"`
	DurationSeconds int    `json:"duration_seconds,omitempty" db:"duration_seconds"`
}

// IsValid сообщает, пригоден ли элемент для сохранения: у изображения должен
// быть непустой ImageURL, у видео - непустой VideoID. Невалидные элементы
// отфильтровываются и никогда не персистятся.
func (it SequenceItem) IsValid() bool {
	switch it.Type {
	case ItemTypeImage:
		return it.ImageURL != ""
	case ItemTypeVideo:
		return it.VideoID != ""
	default:
		return false
	}
}

// SequenceDocument представляет последовательность медиа-элементов в базе данных.
type SequenceDocument struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`

	Items []SequenceItem `json:"items" db:"-"` // Хранятся в отдельной таблице, загружаются вместе с документом

	// Атрибуция (опциональные поля)
	CreatorName  *string  `json:"creator_name,omitempty" db:"creator_name"`
	CreatorLink  *string  `json:"creator_link,omitempty" db:"creator_link"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Hashtags     []string `json:"hashtags,omitempty" db:"hashtags"`

	IsPublic  bool      `json:"is_public" db:"is_public"` // Видимость для зрителя по прямой ссылке
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidItems возвращает только валидные элементы (с непустым дискриминирующим полем).
func (d *SequenceDocument) ValidItems() []SequenceItem {
	out := make([]SequenceItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.IsValid() {
			out = append(out, it)
		}
	}
	return out
}

// Renumber перенумеровывает позиции всех элементов в точности в 1..N.
// Вызывается после каждой мутации списка; инвариант: без пропусков и дублей.
func (d *SequenceDocument) Renumber() {
	for i := range d.Items {
		d.Items[i].Position = i + 1
	}
}

// AppendItems добавляет элементы в конец списка, начиная с позиции len+1.
// Если итоговое количество превысило бы MaxSequenceItems, импорт отклоняется
// целиком: ни один элемент не добавляется, существующий список не меняется.
func (d *SequenceDocument) AppendItems(items []SequenceItem) error {
	if len(d.Items)+len(items) > MaxSequenceItems {
		return fmt.Errorf("%w: have %d, adding %d would exceed the limit of %d",
			ErrTooManyItems, len(d.Items), len(items), MaxSequenceItems)
	}
	d.Items = append(d.Items, items...)
	d.Renumber()
	return nil
}

// MoveItem перемещает элемент с индекса from на индекс to (contiguous move,
// как при drag-and-drop), после чего перенумеровывает позиции.
func (d *SequenceDocument) MoveItem(from, to int) error {
	n := len(d.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: from=%d to=%d len=%d", ErrInvalidItemIndex, from, to, n)
	}
	if from == to {
		return nil
	}
	it := d.Items[from]
	d.Items = append(d.Items[:from], d.Items[from+1:]...)
	// Вставка на целевой индекс
	d.Items = append(d.Items[:to], append([]SequenceItem{it}, d.Items[to:]...)...)
	d.Renumber()
	return nil
}

// MoveToPosition перемещает элемент с индекса idx на 1-based позицию pos.
// Сентинелы: pos=0 - "в начало", pos=-1 - "в конец". Результат идентичен MoveItem.
func (d *SequenceDocument) MoveToPosition(idx, pos int) error {
	switch pos {
	case 0:
		pos = 1
	case -1:
		pos = len(d.Items)
	}
	if pos < 1 || pos > len(d.Items) {
		return fmt.Errorf("%w: position=%d len=%d", ErrInvalidPosition, pos, len(d.Items))
	}
	return d.MoveItem(idx, pos-1)
}

// RemoveItem удаляет элемент по индексу и перенумеровывает оставшиеся,
// не оставляя осиротевших позиций.
func (d *SequenceDocument) RemoveItem(idx int) error {
	if idx < 0 || idx >= len(d.Items) {
		return fmt.Errorf("%w: index=%d len=%d", ErrInvalidItemIndex, idx, len(d.Items))
	}
	d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
	d.Renumber()
	return nil
}

// Validate проверяет документ перед сохранением: обязательный заголовок,
// хотя бы один валидный элемент, лимиты на элементы и хэштеги.
func (d *SequenceDocument) Validate() error {
	if d.Title == "" {
		return ErrTitleRequired
	}
	if len(d.ValidItems()) == 0 {
		return ErrNoValidItems
	}
	if len(d.Items) > MaxSequenceItems {
		return fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(d.Items), MaxSequenceItems)
	}
	if len(d.Hashtags) > MaxHashtags {
		return fmt.Errorf("%w: %d > %d", ErrTooManyHashtags, len(d.Hashtags), MaxHashtags)
	}
	return nil
}

// ViewPath возвращает канонический путь просмотра документа: /view/{id}.
// Эта форма пути встроена в URL записей ChannelSubmission и используется
// реконсайлером для поиска сабмишенов по id документа - менять её нельзя
// без миграции логики поиска.
func ViewPath(id uuid.UUID) string {
	return "/view/" + id.String()
}

// ViewURL возвращает полный разрешаемый извне URL просмотра.
func ViewURL(publicBase string, id uuid.UUID) string {
	return publicBase + ViewPath(id)
}

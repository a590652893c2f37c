package models

import "time"

// DraftSnapshot - эфемерная локально-персистируемая копия несохранённого
// документа. Существует только для контекста "новый документ": как только
// документ получает серверный id, снапшот больше не записывается.
// Перезаписывается при каждом изменении, удаляется при успешном сохранении.
type DraftSnapshot struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Items       []SequenceItem `json:"items"`

	CreatorName  *string  `json:"creator_name,omitempty"`
	CreatorLink  *string  `json:"creator_link,omitempty"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

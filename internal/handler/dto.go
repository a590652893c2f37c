package handler

import (
	"sequence-server/internal/models"
	"sequence-server/internal/service"
)

// sequenceRequest - тело создания/обновления шапки документа.
// ItemsText учитывается только при создании: текстовый блок с URL,
// разделёнными переводами строк или запятыми.
type sequenceRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CreatorName  *string  `json:"creator_name"`
	CreatorLink  *string  `json:"creator_link"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	Hashtags     []string `json:"hashtags"`
	ItemsText    string   `json:"items_text"`
}

func (r sequenceRequest) toInput() service.DocumentInput {
	return service.DocumentInput{
		Title:        r.Title,
		Description:  r.Description,
		CreatorName:  r.CreatorName,
		CreatorLink:  r.CreatorLink,
		ThumbnailURL: r.ThumbnailURL,
		Hashtags:     r.Hashtags,
	}
}

type importTextRequest struct {
	Text string `json:"text" binding:"required"`
}

type importSourceRequest struct {
	URL string `json:"url" binding:"required"`
}

// reorderRequest - contiguous move: элемент с индекса from на индекс to.
// Указатели, чтобы отличать отсутствующее поле от нулевого индекса.
type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// moveRequest - перемещение элемента с индекса index на 1-based позицию position.
type moveRequest struct {
	Index    *int `json:"index"`
	Position *int `json:"position"`
}

type submitRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}

// draftRequest - тело автосохранения черновика.
type draftRequest struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Items        []models.SequenceItem `json:"items"`
	CreatorName  *string               `json:"creator_name"`
	CreatorLink  *string               `json:"creator_link"`
	ThumbnailURL *string               `json:"thumbnail_url"`
	Hashtags     []string              `json:"hashtags"`
}

func (r draftRequest) toSnapshot() *models.DraftSnapshot {
	return &models.DraftSnapshot{
		Title:        r.Title,
		Description:  r.Description,
		Items:        r.Items,
		CreatorName:  r.CreatorName,
		CreatorLink:  r.CreatorLink,
		ThumbnailURL: r.ThumbnailURL,
		Hashtags:     r.Hashtags,
	}
}

type listSequencesResponse struct {
	Sequences  []models.SequenceDocument `json:"sequences"`
	NextCursor string                    `json:"next_cursor,omitempty"`
}

type importResponse struct {
	Sequence *models.SequenceDocument `json:"sequence"`
	Added    int                      `json:"added"`
	Skipped  int                      `json:"skipped"`
}

type exportResponse struct {
	URLs []string `json:"urls"`
}

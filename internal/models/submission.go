package models

import (
	"time"

	"github.com/google/uuid"
)

// ChannelSubmission представляет размещение документа в канале.
// Хранит денормализованную копию отображаемых полей и ссылается на документ
// через URL, содержащий /view/{documentID}. Жизненный цикл сабмишена
// независим от документа, кроме одного правила: перед удалением документа
// все ссылающиеся сабмишены должны быть деактивированы.
type ChannelSubmission struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChannelID string    `json:"channel_id" db:"channel_id"`

	// Денормализованная копия отображаемых полей документа
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	CreatorName *string `json:"creator_name,omitempty" db:"creator_name"`
	Thumbnail   *string `json:"thumbnail,omitempty" db:"thumbnail"`

	// URL вида {publicBase}/view/{documentID} - обратная ссылка на документ
	URL    string `json:"url" db:"url"`
	Active bool   `json:"active" db:"active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UnsubmitReport описывает результат массовой деактивации сабмишенов.
// При частичном сбое вызывающая сторона видит, сколько записей удалось
// деактивировать и сколько осталось активными, и может безопасно повторить
// операцию (деактивация идемпотентна).
type UnsubmitReport struct {
	Deactivated int         `json:"deactivated"`
	Failed      int         `json:"failed"`
	FailedIDs   []uuid.UUID `json:"failed_ids,omitempty"`
}

// Complete сообщает, что ни одна деактивация не завершилась ошибкой.
func (r UnsubmitReport) Complete() bool {
	return r.Failed == 0
}

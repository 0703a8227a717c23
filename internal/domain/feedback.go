package domain

import (
	"errors"
	"time"
)

// Judgment хранит оценку пользователя для элемента ленты.
type Judgment string

const (
	JudgmentUp   Judgment = "up"
	JudgmentDown Judgment = "down"
	JudgmentSpam Judgment = "spam"
)

// ErrInvalidJudgment возвращается для оценки вне набора up/down/spam.
var ErrInvalidJudgment = errors.New("недопустимая оценка")

// ErrEmptyItemID возвращается, если не указан идентификатор элемента.
var ErrEmptyItemID = errors.New("пустой идентификатор элемента")

// ParseJudgment проверяет строковое значение оценки.
func ParseJudgment(raw string) (Judgment, error) {
	switch j := Judgment(raw); j {
	case JudgmentUp, JudgmentDown, JudgmentSpam:
		return j, nil
	default:
		return "", ErrInvalidJudgment
	}
}

// FeedbackRecord хранит последнюю оценку пользователя для элемента.
// Для одного ItemID хранится не больше одной записи.
type FeedbackRecord struct {
	ItemID       string   `json:"item_id"`
	Judgment     Judgment `json:"judgment"`
	Timestamp    int64    `json:"timestamp"`
	AuthorHandle string   `json:"author_handle"`
}

// RecordedAt возвращает момент оценки.
func (r FeedbackRecord) RecordedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// FeedbackEvent публикуется после сохранения оценки.
type FeedbackEvent struct {
	ID     string         `json:"event_id"`
	Record FeedbackRecord `json:"record"`
	Source string         `json:"source"`
}

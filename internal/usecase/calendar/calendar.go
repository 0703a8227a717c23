package calendar

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"
)

// DayLayout задаёт формат даты в именах документов сводки.
const DayLayout = "2006-01-02"

// ErrInvalidDate возвращается для строки не в формате YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// ErrFutureDate возвращается для дней позже сегодняшнего.
var ErrFutureDate = errors.New("date is in the future")

// ErrInvalidTimezone возвращается, если указан некорректный часовой пояс.
var ErrInvalidTimezone = errors.New("invalid timezone")

// Today возвращает начало текущего дня в часовом поясе зрителя.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Format возвращает имя документа за день.
func Format(day time.Time) string {
	return day.Format(DayLayout)
}

// ParseDay разбирает YYYY-MM-DD. Пустая строка означает сегодня.
func ParseDay(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Today(now, loc), nil
	}
	day, err := time.ParseInLocation(DayLayout, raw, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

// Validate запрещает дни позже сегодняшнего.
func Validate(day, now time.Time) error {
	if day.After(Today(now, day.Location())) {
		return ErrFutureDate
	}
	return nil
}

// Resolve разбирает и проверяет дату, выбранную пользователем.
func Resolve(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	day, err := ParseDay(raw, now, loc)
	if err != nil {
		return time.Time{}, err
	}
	if err := Validate(day, now); err != nil {
		return time.Time{}, err
	}
	return day, nil
}

// Prev возвращает предыдущий день.
func Prev(day time.Time) time.Time {
	return day.AddDate(0, 0, -1)
}

// Next возвращает следующий день, но не позже сегодняшнего.
func Next(day, now time.Time) time.Time {
	next := day.AddDate(0, 0, 1)
	if next.After(Today(now, day.Location())) {
		return day
	}
	return next
}

// Location загружает часовой пояс с нормализацией написания.
func Location(raw string) (*time.Location, error) {
	name, err := NormalizeTimezone(raw)
	if err != nil {
		return nil, err
	}
	return time.LoadLocation(name)
}

// NormalizeTimezone приводит название часового пояса к виду IANA: europe/moscow → Europe/Moscow.
func NormalizeTimezone(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", ErrInvalidTimezone
	}
	candidate = strings.ReplaceAll(candidate, " ", "_")
	if _, err := time.LoadLocation(candidate); err == nil {
		return candidate, nil
	}

	parts := strings.Split(strings.ToLower(candidate), "/")
	for i, part := range parts {
		segments := strings.Split(part, "_")
		for j, segment := range segments {
			pieces := strings.Split(segment, "-")
			for k, piece := range pieces {
				if piece == "" {
					continue
				}
				pieces[k] = strings.ToUpper(piece[:1]) + piece[1:]
			}
			segments[j] = strings.Join(pieces, "-")
		}
		parts[i] = strings.Join(segments, "_")
	}
	normalized := strings.Join(parts, "/")
	if _, err := time.LoadLocation(normalized); err == nil {
		return normalized, nil
	}
	return "", ErrInvalidTimezone
}

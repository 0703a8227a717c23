package telegram

import "strings"

// MessageLimit задаёт ограничение Telegram на длину одного сообщения в символах.
const MessageLimit = 4096

var separators = []string{"\n\n", "\n", " "}

// SplitMessage делит текст на части не длиннее limit символов.
// Сначала режет по границам секций, затем по строкам и пробелам,
// и только если их нет, посередине слова. limit <= 0 означает MessageLimit.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}
	rest := []rune(strings.TrimSpace(text))

	var parts []string
	for len(rest) > 0 {
		if len(rest) <= limit {
			parts = append(parts, string(rest))
			break
		}
		cut := cutPoint(rest[:limit+1], limit)
		if chunk := strings.TrimSpace(string(rest[:cut])); chunk != "" {
			parts = append(parts, chunk)
		}
		rest = []rune(strings.TrimLeft(string(rest[cut:]), " \n"))
	}
	return parts
}

func cutPoint(window []rune, limit int) int {
	s := string(window)
	for _, sep := range separators {
		if idx := strings.LastIndex(s, sep); idx > 0 {
			return len([]rune(s[:idx]))
		}
	}
	return limit
}

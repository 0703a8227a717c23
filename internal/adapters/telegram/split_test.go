package telegram

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"ai-daily/internal/domain"
	"ai-daily/internal/usecase/digest"
)

func TestSplitMessageRespectsLimit(t *testing.T) {
	var builder strings.Builder
	builder.WriteString(strings.Repeat("a", 3000))
	builder.WriteString("\n\n")
	builder.WriteString(strings.Repeat("b", 2000))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("c", 500))

	parts := SplitMessage(builder.String(), 0)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	for i, part := range parts {
		if length := len([]rune(part)); length > MessageLimit {
			t.Fatalf("part %d exceeds limit: %d", i, length)
		}
	}
	if parts[0] != strings.Repeat("a", 3000) {
		t.Fatalf("unexpected content in first part")
	}
	if !strings.HasPrefix(parts[1], "b") || !strings.HasSuffix(parts[1], strings.Repeat("c", 500)) {
		t.Fatalf("second part should hold the b and c blocks")
	}
}

func TestSplitMessagePrefersLineBreaks(t *testing.T) {
	parts := SplitMessage("aaaa bbbb\ncccc\n\ndddd", 10)
	want := []string{"aaaa bbbb", "cccc\n\ndddd"}
	if len(parts) != len(want) {
		t.Fatalf("expected %d parts, got %q", len(want), parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("part %d = %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestSplitMessageHardCut(t *testing.T) {
	parts := SplitMessage(strings.Repeat("🔥", 25), 10)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if len([]rune(parts[0])) != 10 || len([]rune(parts[2])) != 5 {
		t.Fatalf("unexpected part sizes: %q", parts)
	}
}

func TestSplitMessageShortText(t *testing.T) {
	text := "hello world"
	parts := SplitMessage(text, 0)
	if len(parts) != 1 || parts[0] != text {
		t.Fatalf("unexpected parts: %q", parts)
	}
}

func TestSplitMessageEmpty(t *testing.T) {
	if parts := SplitMessage("   \n  ", 0); len(parts) != 0 {
		t.Fatalf("expected no parts for empty input, got %d", len(parts))
	}
}

func TestSplitFormattedDigestKeepsTagsBalanced(t *testing.T) {
	long := strings.Repeat("agents ship evals\n\n", 300)
	d := domain.DailyDigest{
		Date: "2026-10-14",
		Brief: []domain.BriefItem{
			{Conclusion: long, WhyHot: long, EvidenceURLs: []string{"https://example.com/a"}, Category: domain.CategoryAI},
			{Conclusion: "short", EvidenceURLs: []string{"https://example.com/" + strings.Repeat("p", 5000)}},
		},
		TopTweets: []domain.SocialPost{{ID: "t-1", AuthorHandle: "dev", Text: long, URLs: []string{"https://x.com/1"}}},
		Clusters:  []domain.EventCluster{{ID: "c-1", Title: long, Theme: long}},
	}
	for i := 0; i < 40; i++ {
		d.Brief = append(d.Brief, domain.BriefItem{Conclusion: fmt.Sprintf("item %d %s", i, long[:900]), EvidenceURLs: []string{"https://example.com/b"}})
	}

	parts := SplitMessage(digest.FormatDigest(d, nil), MessageLimit)
	if len(parts) < 2 {
		t.Fatalf("ожидали несколько частей, получили %d", len(parts))
	}
	for i, part := range parts {
		if n := utf8.RuneCountInString(part); n > MessageLimit {
			t.Fatalf("часть %d длиннее лимита: %d", i, n)
		}
		for _, tag := range []string{"a", "b", "i"} {
			open := strings.Count(part, "<"+tag+">") + strings.Count(part, "<"+tag+" ")
			closed := strings.Count(part, "</"+tag+">")
			if open != closed {
				t.Fatalf("часть %d: <%s> открыто %d, закрыто %d", i, tag, open, closed)
			}
		}
	}
}

package digest

import (
	"fmt"
	"html"
	"strings"

	"ai-daily/internal/domain"
)

const (
	postsInMessage    = 5
	clustersInMessage = 5
	reposInMessage    = 8
	questsInMessage   = 5

	textLimit = 300
	urlLimit  = 1024
)

var judgmentMarks = map[domain.Judgment]string{
	domain.JudgmentUp:   "👍",
	domain.JudgmentDown: "👎",
	domain.JudgmentSpam: "🚫",
}

// FormatDigest формирует HTML-сообщение Telegram со сводкой за день.
// judgments помечает посты, уже оценённые пользователем; может быть nil.
func FormatDigest(d domain.DailyDigest, judgments map[string]domain.Judgment) string {
	sections := []string{"🗞 <b>AI Daily · " + escapeHTML(d.Date) + "</b>"}

	if banner := degradationBanner(d.Meta); banner != "" {
		sections = append(sections, banner)
	}
	for _, section := range []string{
		buildBriefSection(d.Brief),
		buildPostsSection(d.TopTweets, judgments),
		buildClustersSection(d),
		buildReposSection(d.Repositories()),
		buildWeb3Section(d.Quests, d.Markets),
	} {
		if section != "" {
			sections = append(sections, section)
		}
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

func degradationBanner(meta domain.Meta) string {
	if !meta.Degraded {
		return ""
	}
	msg := strings.TrimSpace(meta.Message)
	if msg == "" {
		msg = "Часть источников недоступна, сводка неполная."
	}
	line := "⚠️ " + escapeHTML(inline(msg, textLimit))
	if modules := filterNonEmptyStrings(meta.DegradedModules); len(modules) > 0 {
		line += "\n<i>" + escapeHTML(inline(strings.Join(modules, ", "), textLimit)) + "</i>"
	}
	return line
}

func buildBriefSection(items []domain.BriefItem) string {
	var lines []string
	for _, item := range items {
		conclusion := strings.TrimSpace(item.Conclusion)
		if conclusion == "" {
			continue
		}
		line := CategoryIcon(item.Category) + " " + link(item.PrimaryURL(), conclusion)
		if why := strings.TrimSpace(item.WhyHot); why != "" {
			line += " — " + escapeHTML(inline(why, textLimit))
		}
		lines = append(lines, line)
	}
	return section("📌 <b>Главное</b>", lines)
}

func buildPostsSection(posts []domain.SocialPost, judgments map[string]domain.Judgment) string {
	var lines []string
	for _, p := range posts {
		if len(lines) == postsInMessage {
			break
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		line := fmt.Sprintf("• <b>@%s</b> %s\n❤️ %s 🔁 %s",
			escapeHTML(inline(p.AuthorHandle, 64)), link(p.PrimaryURL(), truncate(text, 200)),
			FormatNumber(p.Likes), FormatNumber(p.Reposts))
		if p.HeatScore > 0 {
			line += fmt.Sprintf(" 🔥 %.1f", p.HeatScore)
		}
		if mark, ok := judgmentMarks[judgments[p.ID]]; ok {
			line += " " + mark
		}
		lines = append(lines, line)
	}
	return section("🔥 <b>Горячие посты</b>", lines)
}

func buildClustersSection(d domain.DailyDigest) string {
	var lines []string
	for _, c := range d.Clusters {
		if len(lines) == clustersInMessage {
			break
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			continue
		}
		view := ResolveCluster(d, c)
		line := fmt.Sprintf("• <b>%s</b>", escapeHTML(inline(title, textLimit)))
		if theme := strings.TrimSpace(c.Theme); theme != "" {
			line += " <i>" + escapeHTML(inline(theme, 64)) + "</i>"
		}
		line += fmt.Sprintf(" · постов: %d, репозиториев: %d", len(view.Posts), len(view.Repos))
		lines = append(lines, line)
	}
	return section("🧩 <b>События</b>", lines)
}

func buildReposSection(repos []domain.RepositorySignal) string {
	var lines []string
	for _, r := range repos {
		if len(lines) == reposInMessage {
			break
		}
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		line := "• " + link(RepoURL(r.Name), r.Name) + " ⭐ " + FormatNumber(r.Stars)
		if r.Stars24h > 0 {
			line += " (+" + FormatNumber(r.Stars24h) + ")"
		}
		if badge := TrendBadge(r); badge != "" {
			line += " [" + escapeHTML(badge) + "]"
		}
		if desc := strings.TrimSpace(r.Description); desc != "" {
			line += "\n" + escapeHTML(inline(desc, 160))
		}
		lines = append(lines, line)
	}
	return section("⭐ <b>Репозитории</b>", lines)
}

func buildWeb3Section(quests []domain.Quest, markets []domain.MarketSignal) string {
	var lines []string
	for i, q := range quests {
		if i == questsInMessage {
			break
		}
		meta := filterNonEmptyStrings([]string{q.Platform, q.TaskType, q.CostTag, q.RiskTag})
		line := "• " + link(q.URL, q.Title)
		if len(meta) > 0 {
			line += " · " + escapeHTML(inline(strings.Join(meta, " · "), textLimit))
		}
		if deadline := strings.TrimSpace(q.Deadline); deadline != "" {
			line += " · до " + escapeHTML(inline(deadline, 64))
		}
		lines = append(lines, line)
	}
	for _, m := range markets {
		line := "📈 " + link(m.URL, m.Title)
		if extra := filterNonEmptyStrings([]string{m.Volume, m.OddsChange}); len(extra) > 0 {
			line += " · " + escapeHTML(inline(strings.Join(extra, " · "), textLimit))
		}
		lines = append(lines, line)
	}
	return section("🌐 <b>Web3</b>", lines)
}

func section(header string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return header + "\n" + strings.Join(lines, "\n")
}

// link строит ссылку. Слишком длинный адрес отбрасывается, остаётся подпись.
func link(url, label string) string {
	label = escapeHTML(inline(label, textLimit))
	if url = strings.TrimSpace(url); url == "" || len([]rune(url)) > urlLimit {
		return label
	}
	return fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(url), label)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// inline сворачивает переводы строк и повторные пробелы и обрезает текст,
// чтобы каждая строка сообщения умещалась в одну часть при разбиении.
func inline(s string, limit int) string {
	return truncate(strings.Join(strings.Fields(s), " "), limit)
}

func filterNonEmptyStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}

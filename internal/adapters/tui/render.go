package tui

import (
	"fmt"
	"strings"
	"time"

	"ai-daily/internal/domain"
	"ai-daily/internal/usecase/digest"
)

const clustersInView = 20

var judgmentMarks = map[domain.Judgment]string{
	domain.JudgmentUp:   "[up]",
	domain.JudgmentDown: "[down]",
	domain.JudgmentSpam: "[spam]",
}

func renderDigest(d domain.DailyDigest, selected int, judgments map[string]domain.Judgment, s Styles, loc *time.Location) string {
	var b strings.Builder

	if d.Meta.Degraded {
		msg := d.Meta.Message
		if msg == "" {
			msg = "Some sources are unavailable; this digest may be incomplete."
		}
		if len(d.Meta.DegradedModules) > 0 {
			msg += " (" + strings.Join(d.Meta.DegradedModules, ", ") + ")"
		}
		b.WriteString(s.Banner.Render("! "+msg) + "\n")
	}

	b.WriteString(s.Section.Render("Morning brief") + "\n")
	for _, item := range d.Brief {
		fmt.Fprintf(&b, "%s %s\n", digest.CategoryIcon(item.Category), item.Conclusion)
		if item.WhyHot != "" {
			b.WriteString("   " + s.Muted.Render(item.WhyHot) + "\n")
		}
		if link := item.PrimaryURL(); link != "" {
			b.WriteString("   " + s.Muted.Render(digest.LinkHost(link)+" "+link) + "\n")
		}
	}

	b.WriteString(s.Section.Render("Hot posts") + "\n")
	for i, p := range d.TopTweets {
		line := fmt.Sprintf("@%s: %s", p.AuthorHandle, firstLine(p.Text))
		stats := fmt.Sprintf("♥ %s  ↻ %s  %s", digest.FormatNumber(p.Likes), digest.FormatNumber(p.Reposts), digest.FormatDate(p.CreatedAt, loc))
		if p.HeatScore > 0 {
			stats += fmt.Sprintf("  heat %.1f", p.HeatScore)
		}
		if mark, ok := judgmentMarks[judgments[p.ID]]; ok {
			stats += "  " + mark
		}
		if i == selected {
			b.WriteString(s.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("    " + s.Muted.Render(stats) + "\n")
	}

	b.WriteString(s.Section.Render("Events") + "\n")
	for i, c := range d.Clusters {
		if i == clustersInView {
			break
		}
		view := digest.ResolveCluster(d, c)
		fmt.Fprintf(&b, "%s %s %s\n",
			s.Theme(digest.ThemeANSI(c.Theme)).Render(c.Theme), c.Title,
			s.Muted.Render(fmt.Sprintf("(%d posts, %d repos)", len(view.Posts), len(view.Repos))))
	}

	b.WriteString(s.Section.Render("Repositories") + "\n")
	for _, r := range d.Repositories() {
		line := fmt.Sprintf("%s ★ %s", r.Name, digest.FormatNumber(r.Stars))
		if badge := digest.TrendBadge(r); badge != "" {
			line += " " + s.Badge.Render(badge)
		}
		b.WriteString(line + "\n")
		if r.Description != "" {
			b.WriteString("   " + s.Muted.Render(r.Description) + "\n")
		}
	}

	if len(d.Quests)+len(d.Markets) > 0 {
		b.WriteString(s.Section.Render("Web3") + "\n")
		for _, q := range d.Quests {
			fmt.Fprintf(&b, "%s · %s · %s · %s · %s\n", q.Title, q.Platform, q.TaskType, q.CostTag, q.RiskTag)
		}
		for _, m := range d.Markets {
			fmt.Fprintf(&b, "%s %s\n", m.Title, s.Muted.Render(strings.TrimSpace(m.Volume+" "+m.OddsChange)))
		}
	}

	if d.GeneratedAt != "" {
		b.WriteString("\n" + s.Muted.Render("Generated at "+digest.FormatDate(d.GeneratedAt, loc)))
	}
	return b.String()
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return line
}

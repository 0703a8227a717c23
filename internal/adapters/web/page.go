package web

import (
	"context"
	"html/template"
	"time"

	"ai-daily/internal/domain"
	"ai-daily/internal/usecase/calendar"
	"ai-daily/internal/usecase/digest"
)

const (
	clustersOnPage    = 20
	extraLinksInRow   = 2
	defaultDegradeMsg = "Some sources are unavailable; this digest may be incomplete."
)

type pageData struct {
	Result    domain.LoadResult
	Digest    *domain.DailyDigest
	Requested string
	Displayed string
	Today     string
	Prev      string
	Next      string
	Banner    string
	Modules   []string
	Clusters  []digest.ClusterView
	Repos     []domain.RepositorySignal
	Judgments map[string]domain.Judgment
}

func (h *Handler) newPage(ctx context.Context, day time.Time, result domain.LoadResult) pageData {
	now := h.now()
	data := pageData{
		Result:    result,
		Requested: calendar.Format(day),
		Today:     calendar.Format(calendar.Today(now, h.loc)),
		Prev:      calendar.Format(calendar.Prev(day)),
		Judgments: h.journal.Judgments(ctx),
	}
	if next := calendar.Next(day, now); !next.Equal(day) {
		data.Next = calendar.Format(next)
	}
	if !result.Succeeded() {
		return data
	}

	d := result.Digest
	data.Digest = d
	data.Displayed = d.Date
	data.Repos = d.Repositories()
	if d.Meta.Degraded || result.Degraded {
		data.Banner = firstNonEmpty(result.Note, d.Meta.Message, defaultDegradeMsg)
		data.Modules = d.Meta.DegradedModules
	}
	for i, c := range d.Clusters {
		if i == clustersOnPage {
			break
		}
		data.Clusters = append(data.Clusters, digest.ResolveCluster(*d, c))
	}
	return data
}

func (h *Handler) funcs() template.FuncMap {
	return template.FuncMap{
		"formatNumber":  digest.FormatNumber,
		"formatDate":    func(raw string) string { return digest.FormatDate(raw, h.loc) },
		"categoryIcon":  digest.CategoryIcon,
		"categoryLabel": digest.CategoryLabel,
		"themeColor":    digest.ThemeColor,
		"trendBadge":    digest.TrendBadge,
		"linkHost":      digest.LinkHost,
		"repoURL":       digest.RepoURL,
		"extraLinks":    extraLinks,
		"judged": func(judgments map[string]domain.Judgment, id, j string) bool {
			return judgments[id] == domain.Judgment(j)
		},
	}
}

func extraLinks(urls []string) []string {
	if len(urls) <= 1 {
		return nil
	}
	end := min(len(urls), 1+extraLinksInRow)
	return urls[1:end]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

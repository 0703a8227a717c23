package digest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ai-daily/internal/domain"
)

// FormatNumber сокращает числа от тысячи: 1500 → 1.5k, 12345 → 12.3k.
// Ветки для 1 000–9 999 и от 10 000 совпадают намеренно: так считает
// и веб-версия дашборда. Округление повторяет toFixed(1): точная середина
// в двоичном представлении округляется вверх.
func FormatNumber(n int64) string {
	if n >= 10000 {
		return thousands(n)
	}
	if n >= 1000 {
		return thousands(n)
	}
	return strconv.FormatInt(n, 10)
}

func thousands(n int64) string {
	if rem := n % 1000; rem == 250 || rem == 750 {
		return strconv.FormatFloat(float64(n/100+1)/10, 'f', 1, 64) + "k"
	}
	return strconv.FormatFloat(float64(n)/1000, 'f', 1, 64) + "k"
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// FormatDate показывает момент как «Oct 15 14:30» в часовом поясе зрителя.
// Нераспознанная строка возвращается как есть.
func FormatDate(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, trimmed, loc)
		if err == nil {
			return t.In(loc).Format("Jan 2 15:04")
		}
	}
	return raw
}

type categoryStyle struct {
	icon  string
	label string
}

var categories = map[domain.Category]categoryStyle{
	domain.CategoryAI:     {icon: "🤖", label: "AI"},
	domain.CategoryGitHub: {icon: "⭐", label: "GitHub"},
	domain.CategoryWeb3:   {icon: "🌐", label: "Web3"},
}

var defaultCategory = categoryStyle{icon: "📌", label: "Other"}

// CategoryIcon возвращает значок категории или 📌 для неизвестной.
func CategoryIcon(category domain.Category) string {
	if s, ok := categories[category]; ok {
		return s.icon
	}
	return defaultCategory.icon
}

// CategoryLabel возвращает подпись категории.
func CategoryLabel(category domain.Category) string {
	if s, ok := categories[category]; ok {
		return s.label
	}
	return defaultCategory.label
}

type themeStyle struct {
	class string
	ansi  string
}

var themes = map[string]themeStyle{
	"Coding Agents":            {class: "bg-purple-100 text-purple-800", ansi: "135"},
	"IDE / Copilot Tools":      {class: "bg-blue-100 text-blue-800", ansi: "33"},
	"Workflow Automation":      {class: "bg-green-100 text-green-800", ansi: "35"},
	"Model Releases & Updates": {class: "bg-red-100 text-red-800", ansi: "160"},
	"Tooling / Infra":          {class: "bg-yellow-100 text-yellow-800", ansi: "178"},
	"Evaluation / Evals":       {class: "bg-orange-100 text-orange-800", ansi: "208"},
	"RAG / Retrieval":          {class: "bg-teal-100 text-teal-800", ansi: "37"},
	"Demos / New Apps":         {class: "bg-pink-100 text-pink-800", ansi: "205"},
}

var defaultTheme = themeStyle{class: "bg-gray-100 text-gray-800", ansi: "245"}

// ThemeColor возвращает CSS-классы темы кластера.
func ThemeColor(theme string) string {
	if s, ok := themes[theme]; ok {
		return s.class
	}
	return defaultTheme.class
}

// ThemeANSI возвращает цвет темы для терминала (ANSI 256).
func ThemeANSI(theme string) string {
	if s, ok := themes[theme]; ok {
		return s.ansi
	}
	return defaultTheme.ansi
}

// TrendBadge возвращает метку динамики репозитория или пустую строку.
func TrendBadge(repo domain.RepositorySignal) string {
	days := repo.TrendingDays
	if days == 0 {
		days = 1
	}
	switch {
	case days > 1 && repo.TrendStatus == domain.TrendRising:
		return fmt.Sprintf("%dd ↑", days)
	case days > 1 && repo.TrendStatus == domain.TrendSteady:
		return fmt.Sprintf("%dd", days)
	case repo.TrendStatus == domain.TrendNew:
		return "NEW"
	}
	return ""
}

// LinkHost возвращает хост ссылки без www. или "link".
func LinkHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return "link"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// RepoURL возвращает страницу репозитория на GitHub.
func RepoURL(name string) string {
	return "https://github.com/" + name
}

// ClusterView описывает кластер с найденными в сводке постами и репозиториями.
type ClusterView struct {
	Cluster domain.EventCluster
	Posts   []domain.SocialPost
	Repos   []domain.RepositorySignal
	Missing int
}

// ResolveCluster сопоставляет ссылки кластера с элементами сводки.
// Отсутствующие элементы пропускаются и учитываются в Missing.
func ResolveCluster(d domain.DailyDigest, cluster domain.EventCluster) ClusterView {
	posts := make(map[string]domain.SocialPost, len(d.TopTweets))
	for _, p := range d.TopTweets {
		posts[p.ID] = p
	}
	repos := make(map[string]domain.RepositorySignal)
	for _, r := range d.Repositories() {
		repos[r.Name] = r
	}

	view := ClusterView{Cluster: cluster}
	for _, id := range cluster.TweetIDs {
		if p, ok := posts[id]; ok {
			view.Posts = append(view.Posts, p)
			continue
		}
		view.Missing++
	}
	for _, name := range cluster.RepoNames {
		if r, ok := repos[name]; ok {
			view.Repos = append(view.Repos, r)
			continue
		}
		view.Missing++
	}
	return view
}

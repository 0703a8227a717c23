package digest

import (
	"testing"
	"time"

	"ai-daily/internal/domain"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 0, want: "0"},
		{in: 999, want: "999"},
		{in: 1000, want: "1.0k"},
		{in: 1250, want: "1.3k"},
		{in: 1500, want: "1.5k"},
		{in: 1750, want: "1.8k"},
		{in: 1049, want: "1.0k"},
		{in: 9999, want: "10.0k"},
		{in: 10000, want: "10.0k"},
		{in: 12345, want: "12.3k"},
		{in: 12250, want: "12.3k"},
		{in: 250000, want: "250.0k"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	tests := []struct {
		name string
		raw  string
		loc  *time.Location
		want string
	}{
		{name: "utc to moscow", raw: "2026-10-14T08:30:00Z", loc: moscow, want: "Oct 14 11:30"},
		{name: "offset", raw: "2026-10-14T08:30:00+02:00", loc: time.UTC, want: "Oct 14 06:30"},
		{name: "fractional", raw: "2026-10-14T08:30:00.123456Z", loc: time.UTC, want: "Oct 14 08:30"},
		{name: "naive is local", raw: "2026-10-14T08:30:00", loc: moscow, want: "Oct 14 08:30"},
		{name: "garbage", raw: "yesterday", loc: time.UTC, want: "yesterday"},
		{name: "empty", raw: "", loc: time.UTC, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.raw, tt.loc); got != tt.want {
				t.Fatalf("FormatDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCategoryFallback(t *testing.T) {
	if CategoryIcon(domain.CategoryAI) != "🤖" || CategoryIcon(domain.CategoryGitHub) != "⭐" || CategoryIcon(domain.CategoryWeb3) != "🌐" {
		t.Fatalf("неожиданные значки категорий")
	}
	if CategoryIcon("defi") != "📌" || CategoryLabel("defi") != "Other" {
		t.Fatalf("неизвестная категория должна получать значок по умолчанию")
	}
}

func TestThemeColor(t *testing.T) {
	if got := ThemeColor("Coding Agents"); got != "bg-purple-100 text-purple-800" {
		t.Fatalf("ThemeColor = %q", got)
	}
	if got := ThemeColor("Something new"); got != "bg-gray-100 text-gray-800" {
		t.Fatalf("ThemeColor для неизвестной темы = %q", got)
	}
	if ThemeANSI("Something new") != ThemeANSI("") {
		t.Fatalf("ожидали одинаковый цвет по умолчанию")
	}
}

func TestTrendBadge(t *testing.T) {
	tests := []struct {
		name string
		repo domain.RepositorySignal
		want string
	}{
		{name: "rising", repo: domain.RepositorySignal{TrendingDays: 4, TrendStatus: domain.TrendRising}, want: "4d ↑"},
		{name: "steady", repo: domain.RepositorySignal{TrendingDays: 3, TrendStatus: domain.TrendSteady}, want: "3d"},
		{name: "new", repo: domain.RepositorySignal{TrendStatus: domain.TrendNew}, want: "NEW"},
		{name: "first day rising", repo: domain.RepositorySignal{TrendingDays: 1, TrendStatus: domain.TrendRising}, want: ""},
		{name: "declining", repo: domain.RepositorySignal{TrendingDays: 5, TrendStatus: domain.TrendDeclining}, want: ""},
		{name: "no status", repo: domain.RepositorySignal{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendBadge(tt.repo); got != tt.want {
				t.Fatalf("TrendBadge = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinkHost(t *testing.T) {
	tests := map[string]string{
		"https://www.example.com/a/b": "example.com",
		"https://arxiv.org/abs/1":     "arxiv.org",
		"not a url":                   "link",
		"":                            "link",
	}
	for in, want := range tests {
		if got := LinkHost(in); got != want {
			t.Fatalf("LinkHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveClusterSkipsDanglingReferences(t *testing.T) {
	d := domain.DailyDigest{
		TopTweets:      []domain.SocialPost{{ID: "t-1"}, {ID: "t-2"}},
		GitHubTrending: []domain.RepositorySignal{{Name: "acme/agent-kit"}},
		GitHubNew:      []domain.RepositorySignal{{Name: "acme/fresh"}},
	}
	cluster := domain.EventCluster{
		ID:        "c-1",
		TweetIDs:  []string{"t-2", "t-missing", "t-1"},
		RepoNames: []string{"ghost/repo", "acme/fresh"},
	}

	view := ResolveCluster(d, cluster)

	if len(view.Posts) != 2 || view.Posts[0].ID != "t-2" || view.Posts[1].ID != "t-1" {
		t.Fatalf("неожиданные посты: %+v", view.Posts)
	}
	if len(view.Repos) != 1 || view.Repos[0].Name != "acme/fresh" {
		t.Fatalf("неожиданные репозитории: %+v", view.Repos)
	}
	if view.Missing != 2 {
		t.Fatalf("ожидали 2 пропущенные ссылки, получили %d", view.Missing)
	}
}

package domain

// Category задаёт тематическую метку пункта утренней сводки.
type Category string

const (
	CategoryAI     Category = "ai"
	CategoryGitHub Category = "github"
	CategoryWeb3   Category = "web3"
)

// TrendStatus описывает динамику репозитория в трендах GitHub.
type TrendStatus string

const (
	TrendNew       TrendStatus = "new"
	TrendRising    TrendStatus = "rising"
	TrendSteady    TrendStatus = "steady"
	TrendDeclining TrendStatus = "declining"
	TrendNone      TrendStatus = ""
)

// LatestArtifact называет документ с последним сгенерированным днём.
const LatestArtifact = "latest"

// DailyDigest содержит сводку за один календарный день. Генерируется внешним
// пайплайном и внутри системы только читается.
type DailyDigest struct {
	Date           string             `json:"date"`
	GeneratedAt    string             `json:"generated_at"`
	Brief          []BriefItem        `json:"brief"`
	TopTweets      []SocialPost       `json:"top_tweets"`
	GitHubTrending []RepositorySignal `json:"github_trending"`
	GitHubNew      []RepositorySignal `json:"github_new"`
	Clusters       []EventCluster     `json:"clusters"`
	Quests         []Quest            `json:"quests"`
	Markets        []MarketSignal     `json:"markets"`
	Leaderboards   Leaderboards       `json:"leaderboards,omitempty"`
	Meta           Meta               `json:"meta"`
}

// BriefItem описывает один вывод утренней сводки. Первая ссылка из EvidenceURLs основная.
type BriefItem struct {
	Conclusion   string   `json:"conclusion"`
	WhyHot       string   `json:"why_hot"`
	EvidenceURLs []string `json:"evidence_urls"`
	Category     Category `json:"category"`
}

// PrimaryURL возвращает основную ссылку или пустую строку.
func (b BriefItem) PrimaryURL() string {
	if len(b.EvidenceURLs) == 0 {
		return ""
	}
	return b.EvidenceURLs[0]
}

// SocialPost описывает пост из соцсетей, ранжированный по «горячести».
type SocialPost struct {
	ID           string   `json:"id"`
	AuthorName   string   `json:"author_name"`
	AuthorHandle string   `json:"author_handle"`
	Text         string   `json:"text"`
	Lang         string   `json:"lang"`
	CreatedAt    string   `json:"created_at"`
	Likes        int64    `json:"likes"`
	Reposts      int64    `json:"reposts"`
	Replies      int64    `json:"replies"`
	Bookmarks    int64    `json:"bookmarks"`
	URLs         []string `json:"urls"`
	Tags         []string `json:"tags"`
	IsAdSuspect  bool     `json:"is_ad_suspect"`
	ClusterID    string   `json:"cluster_id,omitempty"`
	HeatScore    float64  `json:"heat_score"`
}

// PrimaryURL возвращает первую ссылку поста.
func (p SocialPost) PrimaryURL() string {
	if len(p.URLs) == 0 {
		return ""
	}
	return p.URLs[0]
}

// RepositorySignal описывает репозиторий из GitHub Trending или новых проектов.
type RepositorySignal struct {
	Name          string      `json:"name"`
	Owner         string      `json:"owner"`
	Description   string      `json:"description"`
	Stars         int64       `json:"stars"`
	Forks         int64       `json:"forks"`
	Stars24h      int64       `json:"stars_24h"`
	CreatedAt     string      `json:"created_at"`
	Language      string      `json:"language"`
	Topics        []string    `json:"topics"`
	ReadmeSummary string      `json:"readme_summary"`
	RelevanceTags []string    `json:"relevance_tags"`
	IsNew         bool        `json:"is_new"`
	TrendingDays  int         `json:"trending_days"`
	TrendStatus   TrendStatus `json:"trend_status"`
	Watchers      int64       `json:"watchers"`
	OpenIssues    int64       `json:"open_issues"`
}

// EventCluster группирует посты и репозитории вокруг одного события.
// Ссылки TweetIDs и RepoNames носят справочный характер и могут указывать
// на отсутствующие в сводке элементы.
type EventCluster struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Theme     string   `json:"theme"`
	HeatScore float64  `json:"heat_score"`
	Keywords  []string `json:"keywords"`
	TweetIDs  []string `json:"tweet_ids"`
	RepoNames []string `json:"repo_names"`
}

// Quest описывает задание Web3-платформы.
type Quest struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	TaskType string `json:"task_type"`
	CostTag  string `json:"cost_tag"`
	RiskTag  string `json:"risk_tag"`
	Deadline string `json:"deadline,omitempty"`
	URL      string `json:"url"`
	Note     string `json:"note"`
}

// MarketSignal описывает сигнал с рынка предсказаний.
type MarketSignal struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Volume     string `json:"volume,omitempty"`
	OddsChange string `json:"odds_change,omitempty"`
	URL        string `json:"url"`
}

// LeaderboardEntry описывает строку рейтинга репозиториев за период.
type LeaderboardEntry struct {
	Name   string  `json:"name"`
	Stars  int64   `json:"stars"`
	Growth float64 `json:"growth"`
}

// Leaderboards индексируется периодом: daily, weekly, monthly, 3month, 6month, 9month, yearly.
type Leaderboards map[string][]LeaderboardEntry

// Meta содержит признаки деградации сводки.
type Meta struct {
	Degraded        bool     `json:"degraded,omitempty"`
	DegradedModules []string `json:"degraded_modules,omitempty"`
	Message         string   `json:"message,omitempty"`
}

// Normalize заменяет отсутствующие списки пустыми, чтобы отрисовка
// не различала null и [].
func (d *DailyDigest) Normalize() {
	d.Brief = nonNil(d.Brief)
	d.TopTweets = nonNil(d.TopTweets)
	d.GitHubTrending = nonNil(d.GitHubTrending)
	d.GitHubNew = nonNil(d.GitHubNew)
	d.Clusters = nonNil(d.Clusters)
	d.Quests = nonNil(d.Quests)
	d.Markets = nonNil(d.Markets)
	d.Meta.DegradedModules = nonNil(d.Meta.DegradedModules)
	for i := range d.Brief {
		d.Brief[i].EvidenceURLs = nonNil(d.Brief[i].EvidenceURLs)
	}
	for i := range d.TopTweets {
		d.TopTweets[i].URLs = nonNil(d.TopTweets[i].URLs)
		d.TopTweets[i].Tags = nonNil(d.TopTweets[i].Tags)
	}
	for _, repos := range [][]RepositorySignal{d.GitHubTrending, d.GitHubNew} {
		for i := range repos {
			repos[i].Topics = nonNil(repos[i].Topics)
			repos[i].RelevanceTags = nonNil(repos[i].RelevanceTags)
		}
	}
	for i := range d.Clusters {
		d.Clusters[i].Keywords = nonNil(d.Clusters[i].Keywords)
		d.Clusters[i].TweetIDs = nonNil(d.Clusters[i].TweetIDs)
		d.Clusters[i].RepoNames = nonNil(d.Clusters[i].RepoNames)
	}
}

// Repositories возвращает trending и новые репозитории одним списком в порядке отображения.
func (d DailyDigest) Repositories() []RepositorySignal {
	out := make([]RepositorySignal, 0, len(d.GitHubTrending)+len(d.GitHubNew))
	out = append(out, d.GitHubTrending...)
	return append(out, d.GitHubNew...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

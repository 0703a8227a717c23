// Package web отдаёт дашборд сводки: HTML-страницу и JSON API.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"ai-daily/internal/domain"
	"ai-daily/internal/usecase/calendar"
)

//go:embed templates/*.html
var templatesFS embed.FS

// LoaderFactory создаёт загрузчик на один запрос: вытеснение устаревших
// загрузок относится к одному зрителю, а не ко всем клиентам сервера.
type LoaderFactory func() domain.DigestLoader

// Handler обслуживает страницу дашборда и API оценок.
type Handler struct {
	newLoader LoaderFactory
	journal   domain.FeedbackJournal
	loc       *time.Location
	now       func() time.Time
	log       zerolog.Logger
	page      *template.Template
}

// NewHandler создаёт обработчики. loc задаёт часовой пояс зрителя.
func NewHandler(newLoader LoaderFactory, journal domain.FeedbackJournal, loc *time.Location, logger zerolog.Logger) (*Handler, error) {
	if loc == nil {
		loc = time.UTC
	}
	h := &Handler{
		newLoader: newLoader,
		journal:   journal,
		loc:       loc,
		now:       time.Now,
		log:       logger.With().Str("component", "web").Logger(),
	}
	page, err := template.New("index.html").Funcs(h.funcs()).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	h.page = page
	return h, nil
}

// Register подключает маршруты к роутеру.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.index)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/digest", h.getDigest)
		r.Get("/feedback", h.listFeedback)
		r.Post("/feedback", h.postFeedback)
		r.Get("/feedback/{itemID}", h.getFeedback)
	})
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	day, err := calendar.Resolve(r.URL.Query().Get("date"), h.now(), h.loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.newLoader().Load(r.Context(), day)
	if err != nil {
		h.log.Warn().Err(err).Str("requested", calendar.Format(day)).Msg("загрузка прервана")
		http.Error(w, "digest load interrupted", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, h.newPage(r.Context(), day, result)); err != nil {
		h.log.Error().Err(err).Msg("не удалось отрисовать страницу")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) getDigest(w http.ResponseWriter, r *http.Request) {
	day, err := calendar.Resolve(r.URL.Query().Get("date"), h.now(), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.newLoader().Load(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "digest load interrupted")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type feedbackRequest struct {
	ItemID       string `json:"item_id"`
	Judgment     string `json:"judgment"`
	AuthorHandle string `json:"author_handle"`
}

type feedbackResponse struct {
	ItemID   string          `json:"item_id"`
	Judgment domain.Judgment `json:"judgment"`
}

func (h *Handler) postFeedback(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	fromForm := !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

	var req feedbackRequest
	if fromForm {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		req = feedbackRequest{
			ItemID:       r.PostForm.Get("item_id"),
			Judgment:     r.PostForm.Get("judgment"),
			AuthorHandle: r.PostForm.Get("author_handle"),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	judgment, err := domain.ParseJudgment(req.Judgment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "judgment must be one of up, down, spam")
		return
	}
	if err := h.journal.Record(r.Context(), req.ItemID, judgment, req.AuthorHandle); err != nil {
		if errors.Is(err, domain.ErrEmptyItemID) {
			writeError(w, http.StatusBadRequest, "item_id is required")
			return
		}
		h.log.Error().Err(err).Str("item_id", req.ItemID).Msg("не удалось сохранить оценку")
		writeError(w, http.StatusServiceUnavailable, "feedback storage unavailable")
		return
	}

	if fromForm {
		http.Redirect(w, r, h.dayURL(r.PostForm.Get("date")), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getFeedback(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	judgment, ok := h.journal.Lookup(r.Context(), itemID)
	if !ok {
		writeError(w, http.StatusNotFound, "no judgment recorded")
		return
	}
	writeJSON(w, http.StatusOK, feedbackResponse{ItemID: itemID, Judgment: judgment})
}

// listFeedback отдаёт весь набор оценок для выгрузки.
func (h *Handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"records": h.journal.Records(r.Context())})
}

// dayURL возвращает ссылку на страницу дня; некорректная дата ведёт на сегодня.
func (h *Handler) dayURL(raw string) string {
	day, err := calendar.Resolve(raw, h.now(), h.loc)
	if err != nil || strings.TrimSpace(raw) == "" {
		return "/"
	}
	return "/?date=" + url.QueryEscape(calendar.Format(day))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

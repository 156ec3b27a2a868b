package httpapi

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Priyanshut972/Weatherapp/internal/display"
	"github.com/Priyanshut972/Weatherapp/internal/models"
	"github.com/Priyanshut972/Weatherapp/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

const sessionCookie = "weatherapp_session"

//go:embed templates/page.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

type Server struct {
	sessions *session.Controller
	resolver session.Resolver
	weather  session.Fetcher
}

func NewServer(sessions *session.Controller, resolver session.Resolver, weather session.Fetcher) *Server {
	return &Server{sessions: sessions, resolver: resolver, weather: weather}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/", s.handlePage)
	r.Post("/search", s.handleSearchForm)
	r.Post("/suggestion", s.handleSuggestionForm)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Get("/state", s.handleState)
		r.Post("/search", s.handleSearch)
		r.Post("/suggestion", s.handleSuggestion)
		r.Get("/weather", s.handleWeather)
	})
}

type stateResponse struct {
	State models.UIState `json:"state"`
	Panel *display.Panel `json:"panel,omitempty"`
}

type pageData stateResponse

func newStateResponse(st models.UIState) stateResponse {
	resp := stateResponse{State: st}
	if st.Result != nil {
		p := display.NewPanel(*st.Result)
		resp.Panel = &p
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none or an invalid one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	st, err := s.sessions.Open(r.Context(), id)
	if err != nil {
		slog.Error("load session failed", "session", id, "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTmpl.Execute(w, pageData(newStateResponse(st))); err != nil {
		slog.Error("render page failed", "error", err)
	}
}

func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if _, err := s.sessions.Submit(r.Context(), id, r.PostFormValue("city")); err != nil && !errors.Is(err, session.ErrEmptyCity) {
		slog.Error("submit failed", "session", id, "error", err)
		http.Error(w, "failed to update session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSuggestionForm(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if _, err := s.sessions.AcceptSuggestion(r.Context(), id); err != nil && !errors.Is(err, session.ErrNoSuggestion) {
		slog.Error("suggestion retry failed", "session", id, "error", err)
		http.Error(w, "failed to update session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	st, err := s.sessions.Open(r.Context(), id)
	if err != nil {
		slog.Error("load session failed", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

type searchRequest struct {
	City string `json:"city"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	st, err := s.sessions.Submit(r.Context(), id, req.City)
	switch {
	case errors.Is(err, session.ErrEmptyCity):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "field 'city' is required"})
	case err != nil:
		slog.Error("submit failed", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update session"})
	default:
		writeJSON(w, http.StatusOK, newStateResponse(st))
	}
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	st, err := s.sessions.AcceptSuggestion(r.Context(), id)
	switch {
	case errors.Is(err, session.ErrNoSuggestion):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no suggested correction pending"})
	case err != nil:
		slog.Error("suggestion retry failed", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update session"})
	default:
		writeJSON(w, http.StatusOK, newStateResponse(st))
	}
}

type weatherResponse struct {
	Query  string               `json:"query"`
	Result models.WeatherResult `json:"result"`
	Panel  display.Panel        `json:"panel"`
}

// handleWeather is a one-shot lookup that does not touch any session.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("city")
	if strings.TrimSpace(raw) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'city' is required"})
		return
	}
	city := s.resolver.CorrectedNameFor(raw)
	result, err := s.weather.FetchCurrentWeather(r.Context(), city)
	if err != nil {
		msg, suggestion := session.FailureMessage(s.resolver, city)
		resp := map[string]string{"error": msg}
		if suggestion != "" {
			resp["suggestion"] = suggestion
		}
		writeJSON(w, http.StatusNotFound, resp)
		return
	}
	writeJSON(w, http.StatusOK, weatherResponse{Query: city, Result: result, Panel: display.NewPanel(result)})
}

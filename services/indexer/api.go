package indexer

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// API serves read-only event queries over HTTP.
type API struct {
	store     *Store
	jwtSecret []byte
	router    http.Handler
}

// NewAPI builds the query router. An empty secret disables authentication.
func NewAPI(store *Store, jwtSecret string) *API {
	api := &API{store: store}
	if trimmed := strings.TrimSpace(jwtSecret); trimmed != "" {
		api.jwtSecret = []byte(trimmed)
	}
	api.router = api.buildRouter()
	return api
}

// Handler exposes the configured HTTP router.
func (a *API) Handler() http.Handler {
	return a.router
}

func (a *API) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if a.jwtSecret != nil {
		r.Use(a.authenticate)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/events", a.listEvents)
		api.Get("/events/count", a.countEvents)
		api.Get("/healthz", a.health)
	})
	return r
}

func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.jwtSecret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			writeJSONError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}
	records, err := a.store.List(Query{
		Type:   r.URL.Query().Get("type"),
		Symbol: r.URL.Query().Get("symbol"),
		Limit:  limit,
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": records})
}

func (a *API) countEvents(w http.ResponseWriter, r *http.Request) {
	count, err := a.store.Count()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ba_dashboard/internal/app"
	"ba_dashboard/internal/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type optionsResponse struct {
	Field   domain.Field    `json:"field"`
	All     string          `json:"all"`
	Options []domain.Option `json:"options"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/dataset", h.getDataset)
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/options/{field}", h.listOptions)
	s.mux.Get("/v1/countries/counts", h.countryCounts)
	s.mux.Get("/v1/countries/counts.xlsx", h.countryCountsXLSX)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps pipeline errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownField):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrLoad):
		writeProblem(w, http.StatusServiceUnavailable, "Input Unavailable", err.Error())
	case errors.Is(err, domain.ErrData):
		writeProblem(w, http.StatusInternalServerError, "Invalid Input Data", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) getDataset(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Q.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, sum)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := domain.PageQuery{Limit: defaultLimit}
	if ls := q.Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 1000")
			return
		}
		page.Limit = l
	}
	if off := q.Get("offset"); off != "" {
		o, err := strconv.Atoi(off)
		if err != nil || o < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
			return
		}
		page.Offset = o
	}

	out, err := h.Q.ListReviews(r.Context(), domain.ParseFilterState(q), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) listOptions(w http.ResponseWriter, r *http.Request) {
	field := domain.Field(chi.URLParam(r, "field"))
	opts, err := h.Q.Options(r.Context(), field, domain.ParseFilterState(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if opts == nil {
		opts = []domain.Option{}
	}
	writeJSON(w, r, optionsResponse{Field: field, All: domain.All, Options: opts})
}

func (h *Handlers) countryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Q.CountByCountry(r.Context(), domain.ParseFilterState(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if counts == nil {
		counts = []domain.CountryCount{}
	}
	writeJSON(w, r, counts)
}

func (h *Handlers) countryCountsXLSX(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Q.CountByCountry(r.Context(), domain.ParseFilterState(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := countsWorkbook(counts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="reviews_per_country.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write workbook")
	}
}

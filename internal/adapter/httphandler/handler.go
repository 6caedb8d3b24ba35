package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
)

// GET v1/items?tags=&categories=&companies=&price=&page= (200 OK, 400 Bad request, 503 Service unavailable)
// GET v1/tags (200 OK, 503 Service unavailable)
// GET v1/catalog (200 OK, degrades to an empty catalog)

type CatalogHandler struct {
	catalog port.CatalogQuerier
}

func RegisterCatalog(mux *http.ServeMux, catalog port.CatalogQuerier) {
	h := CatalogHandler{catalog}
	mux.HandleFunc("GET /v1/items", h.GetItems)
	mux.HandleFunc("GET /v1/tags", h.GetTags)
	mux.HandleFunc("GET /v1/catalog", h.GetCatalog)
}

func (h CatalogHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetItems"
	log := slog.With("op", op)

	f, err := domain.FilterFromValues(r.URL.Query())
	if err != nil {
		http.Error(w, "invalid filter", http.StatusBadRequest)
		log.Warn("failed to parse filter", "err", err)
		return
	}

	page, err := h.catalog.Query(r.Context(), f)
	if err != nil {
		log.Error("failed to query catalog", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, ItemsResponse{
			Items: []Item{},
			Error: "catalog is unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, ItemsResponse{
		Items:   toItems(page.Items),
		HasMore: page.HasMore,
	})
	log.Debug("items served", "nItems", len(page.Items), "page", f.Page)
}

func (h CatalogHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetTags"

	tags, err := h.catalog.AvailableTags(r.Context())
	if err != nil {
		slog.Error("failed to load tags", "op", op, "err", err)
		writeJSON(w, http.StatusServiceUnavailable, TagsResponse{Tags: []string{}})
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

func (h CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	view := h.catalog.Initial(r.Context())
	writeJSON(w, http.StatusOK, CatalogResponse{
		Items:         toItems(view.Items),
		Total:         view.Total,
		AvailableTags: view.AvailableTags,
	})
}

// GET v1/companies (200 OK, 503 Service unavailable)

type CompaniesHandler struct {
	stats     port.CompanyStatsReader
	companies []string
}

func RegisterCompanies(
	mux *http.ServeMux, stats port.CompanyStatsReader, companies []string,
) {
	h := CompaniesHandler{stats, companies}
	mux.HandleFunc("GET /v1/companies", h.GetCompanies)
}

func (h CompaniesHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	const op = "CompaniesHandler.GetCompanies"

	counts, err := h.stats.CompanyCounts(r.Context(), h.companies)
	if err != nil {
		slog.Error("failed to read company stats", "op", op, "err", err)
		http.Error(w, "company stats are unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, CompaniesResponse{Companies: counts})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil &&
		!errors.Is(err, http.ErrHandlerTimeout) {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

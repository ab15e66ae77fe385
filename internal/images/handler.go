package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coffeepress/coffeepress/internal/metrics"
	"github.com/coffeepress/coffeepress/internal/middleware"
	"github.com/coffeepress/coffeepress/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type searchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	ImageURL string `json:"imageUrl"`
}

type imageSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type Handler struct {
	searcher imageSearcher
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewHandler(searcher imageSearcher, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		searcher: searcher,
		metrics:  metricsManager,
		now:      time.Now,
	}
}

// SetupRoutes registers the search endpoint, rate limited when a limiter
// is given; the upstream free-plan quota is tiny.
func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	searchHandler := http.Handler(http.HandlerFunc(handler.handleSearch))
	if rateLimiter != nil {
		searchHandler = middleware.RateLimit(rateLimiter, "image-search", allowedPerMin)(searchHandler)
	}
	router.Handle("/unsplash", searchHandler).Methods("POST", "OPTIONS").Name("image-search")
}

// handleSearch always hands back some image URL for a non-empty query.
// When the upstream is down, over quota, or finds nothing, a random
// placeholder takes its place so composing a post never blocks.
func (handler *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("image search, unmarshal json params: %s", err)
		http.Error(w, "image search failed", http.StatusBadRequest)
		return
	}

	if req.Query == "" {
		http.Error(w, "error, query empty", http.StatusBadRequest)
		return
	}

	handler.metrics.CounterImageSearches.Inc()

	imageURL, err := handler.searcher.Search(r.Context(), req.Query)
	if err != nil {
		log.Warnf("image search [%s] failed, using placeholder: %s", req.Query, err)
		imageURL = handler.placeholderURL()
	}

	resp, err := json.Marshal(SearchResponse{ImageURL: imageURL})
	if err != nil {
		log.Errorf("marshal image search response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) placeholderURL() string {
	return fmt.Sprintf("https://picsum.photos/400/300?random=%d", handler.now().UnixNano())
}

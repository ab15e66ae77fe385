package prefs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coffeepress/coffeepress/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type themeRequest struct {
	Theme string `json:"theme"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}

type Handler struct {
	store        Store
	defaultTheme string
}

// NewHandler wires the preference endpoints. The default theme stands in
// until a reader saves an explicit choice.
func NewHandler(store Store, defaultTheme string) *Handler {
	if defaultTheme == "" {
		defaultTheme = ThemeLight
	}
	return &Handler{
		store:        store,
		defaultTheme: defaultTheme,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/prefs/theme", handler.handleGetTheme).Methods("GET").Name("get-theme")
	router.HandleFunc("/prefs/theme", handler.handleSetTheme).Methods("PUT", "OPTIONS").Name("set-theme")
}

func (handler *Handler) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := handler.store.GetTheme(r.Context())
	if errors.Is(err, ErrNotSet) {
		theme = handler.defaultTheme
	} else if err != nil {
		log.Errorf("get theme: %s", err)
		theme = handler.defaultTheme
	}

	handler.writeTheme(w, theme)
}

func (handler *Handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("set theme, unmarshal json params: %s", err)
		http.Error(w, "set theme failed", http.StatusBadRequest)
		return
	}

	if req.Theme != ThemeLight && req.Theme != ThemeDark {
		http.Error(w, "error, unknown theme", http.StatusBadRequest)
		return
	}

	if err := handler.store.SetTheme(r.Context(), req.Theme); err != nil {
		log.Errorf("set theme: %s", err)
		http.Error(w, "set theme failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("theme set to %s", req.Theme)
	handler.writeTheme(w, req.Theme)
}

func (handler *Handler) writeTheme(w http.ResponseWriter, theme string) {
	resp, err := json.Marshal(ThemeResponse{Theme: theme})
	if err != nil {
		log.Errorf("marshal theme response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

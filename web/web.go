// Package web exposes the command surface over HTTP for serve mode: list
// commands with availability, invoke them, read and toggle the session's
// matching flag, and inspect the loaded scene.
package web

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/maylog/bonealign/adapters/memory"
	"github.com/maylog/bonealign/app"
)

// Handler provides the HTTP endpoints.
//
// Command invocations are serialized with a mutex: the scene host guarantees
// exclusive access for one invocation at a time, and concurrent HTTP callers
// must not interleave mutations.
type Handler struct {
	mu      sync.RWMutex
	service *app.Service
	scene   *memory.SceneHost
	logger  zerolog.Logger

	invokeMu sync.Mutex
}

// New creates a new HTTP handler.
func New(service *app.Service, scene *memory.SceneHost, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		scene:   scene,
		logger:  logger,
	}
}

// Swap replaces the service and scene host, used when the scene file is
// reloaded from disk.
func (h *Handler) Swap(service *app.Service, scene *memory.SceneHost) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.service = service
	h.scene = scene
}

func (h *Handler) current() (*app.Service, *memory.SceneHost) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.service, h.scene
}

// Router builds the chi router for all endpoints.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.health)
	r.Get("/commands", h.listCommands)
	r.Post("/commands/{id}", h.invokeCommand)
	r.Get("/settings/case_sensitive", h.getCaseSensitive)
	r.Put("/settings/case_sensitive", h.putCaseSensitive)
	r.Get("/scene", h.getScene)
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// commandView is one row of the command listing.
type commandView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

func (h *Handler) listCommands(w http.ResponseWriter, r *http.Request) {
	_, scene := h.current()

	var list []commandView
	for _, c := range app.Commands() {
		list = append(list, commandView{
			ID:        string(c.ID),
			Label:     c.Label,
			Available: c.Available(scene),
		})
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) invokeCommand(w http.ResponseWriter, r *http.Request) {
	service, _ := h.current()
	id := app.CommandID(chi.URLParam(r, "id"))

	h.invokeMu.Lock()
	outcome, err := service.Invoke(r.Context(), id)
	h.invokeMu.Unlock()

	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	status := http.StatusOK
	if outcome.Status == app.StatusCancelled {
		status = http.StatusConflict
	}
	respondJSON(w, status, outcome)
}

func (h *Handler) getCaseSensitive(w http.ResponseWriter, r *http.Request) {
	service, _ := h.current()
	respondJSON(w, http.StatusOK, map[string]bool{
		"case_sensitive": service.CaseSensitive(r.Context()),
	})
}

func (h *Handler) putCaseSensitive(w http.ResponseWriter, r *http.Request) {
	service, _ := h.current()

	var body struct {
		CaseSensitive *bool `json:"case_sensitive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CaseSensitive == nil {
		respondError(w, http.StatusBadRequest, "body must be {\"case_sensitive\": true|false}")
		return
	}
	if err := service.SetCaseSensitive(r.Context(), *body.CaseSensitive); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"case_sensitive": *body.CaseSensitive})
}

// sceneView is the read-only scene summary.
type sceneView struct {
	Mode         string         `json:"mode"`
	Active       string         `json:"active,omitempty"`
	SelectedRigs []string       `json:"selected_rigs,omitempty"`
	Rigs         []sceneRigView `json:"rigs"`
}

type sceneRigView struct {
	Name  string `json:"name"`
	Bones int    `json:"bones"`
}

func (h *Handler) getScene(w http.ResponseWriter, r *http.Request) {
	_, scene := h.current()

	view := sceneView{Mode: string(scene.Mode())}
	if active, ok := scene.ActiveRig(); ok {
		view.Active = active.Name
	}
	for _, rg := range scene.SelectedRigs() {
		view.SelectedRigs = append(view.SelectedRigs, rg.Name)
	}
	for _, rg := range scene.Rigs() {
		view.Rigs = append(view.Rigs, sceneRigView{Name: rg.Name, Bones: rg.Len()})
	}
	respondJSON(w, http.StatusOK, view)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

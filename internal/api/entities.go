package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/likelyhq/reckon/internal/events"
	"github.com/likelyhq/reckon/internal/store"
)

type EntitiesHandler struct {
	store  store.Store
	events events.Client
}

func NewEntitiesHandler(s store.Store, ev events.Client) *EntitiesHandler {
	return &EntitiesHandler{store: s, events: ev}
}

func (h *EntitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.store.ListEntities(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entities)
}

type CreateEntityRequest struct {
	Name string `json:"name"`
}

func (h *EntitiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	category := chi.URLParam(r, "category")
	entity, err := h.store.CreateEntity(r.Context(), category, req.Name)
	if errors.Is(err, store.ErrAlreadyExists) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "entity already exists"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectEntityCreated(entity.ID.String()), events.EntityCreatedEvent{
			EntityID: entity.ID.String(),
			Category: category,
			Name:     entity.Name,
		})
	}

	writeJSON(w, http.StatusCreated, entity)
}

func (h *EntitiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")

	var deletedID string
	if h.events != nil {
		if entities, err := h.store.ListEntities(r.Context(), category); err == nil {
			if e, ok := entities[name]; ok {
				deletedID = e.ID.String()
			}
		}
	}

	if err := h.store.DeleteEntity(r.Context(), category, name); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil && deletedID != "" {
		_ = h.events.Publish(events.SubjectEntityDeleted(deletedID), events.EntityDeletedEvent{
			EntityID: deletedID,
			Category: category,
			Name:     name,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EntitiesHandler) SaveResult(w http.ResponseWriter, r *http.Request) {
	var res store.Result
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")
	profile := chi.URLParam(r, "profile")

	if err := h.store.SaveResult(r.Context(), category, name, profile, res); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	resultsSavedTotal.Inc()

	if h.events != nil {
		var entityID string
		if entities, err := h.store.ListEntities(r.Context(), category); err == nil {
			if e, ok := entities[name]; ok {
				entityID = e.ID.String()
			}
		}
		_ = h.events.Publish(events.SubjectResultSaved(entityID), events.ResultSavedEvent{
			EntityID:             entityID,
			Category:             category,
			Entity:               name,
			Profile:              profile,
			PercentageLikelihood: res.PercentageLikelihood,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EntitiesHandler) LoadResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.LoadResult(r.Context(),
		chi.URLParam(r, "category"), chi.URLParam(r, "name"), chi.URLParam(r, "profile"))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no saved result"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type SetImageRequest struct {
	Image string `json:"image"`
}

func (h *EntitiesHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	var req SetImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	err := h.store.SetEntityImage(r.Context(),
		chi.URLParam(r, "category"), chi.URLParam(r, "name"), req.Image)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntitiesHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.store.GetEntityImage(r.Context(),
		chi.URLParam(r, "category"), chi.URLParam(r, "name"))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entity not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": image})
}

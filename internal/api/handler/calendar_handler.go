package handler

import (
	"encoding/json"
	"net/http"
	"thesis_hub/internal/api/middleware"
	"thesis_hub/internal/app/service"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(cs *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: cs}
}

func (h *CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireAnyRole(
			string(model.RoleAdmin),
			string(model.RoleCoordinator),
			string(model.RoleSupervisor),
		))
		staff.Post("/add", h.create)
		staff.Put("/update/{id}", h.update)
		staff.Delete("/remove/{id}", h.delete)
	})
}

func (h *CalendarHandler) list(w http.ResponseWriter, r *http.Request) {
	events, err := h.calendarService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}

func (h *CalendarHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	event, err := h.calendarService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *CalendarHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CalendarEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	event, err := h.calendarService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *CalendarHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	var req service.CalendarEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.calendarService.Update(r.Context(), id, req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Calendar event successfully updated")
}

func (h *CalendarHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid event id")
		return
	}
	if err := h.calendarService.Remove(r.Context(), id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Calendar event successfully removed")
}

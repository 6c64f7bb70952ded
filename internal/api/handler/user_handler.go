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

type UserHandler struct {
	userService        *service.UserService
	supervisionService *service.SupervisionService
}

func NewUserHandler(us *service.UserService, ss *service.SupervisionService) *UserHandler {
	return &UserHandler{userService: us, supervisionService: ss}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.list)
	r.Get("/user/{id}", h.get)
	r.Get("/supervisors", h.listSupervisors)
	r.Get("/students", h.listStudents)
	r.Post("/supervise/{studentId}/{supervisorId}", h.requestSupervision)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAnyRole(string(model.RoleAdmin), string(model.RoleCoordinator)))
		admin.Delete("/delete/{id}", h.delete)
		admin.Post("/roles/{id}", h.setRoles)
		admin.Post("/supervise/confirm/{studentId}/{supervisorId}", h.confirmSupervision)
		admin.Get("/coordinator/supervision", h.supervisionBoard)
	})
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.FindAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	details, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, details)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if err := h.userService.Delete(r.Context(), id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "User successfully removed")
}

func (h *UserHandler) listSupervisors(w http.ResponseWriter, r *http.Request) {
	sups, err := h.userService.AllSupervisors(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sups)
}

func (h *UserHandler) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.userService.AllStudents(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, students)
}

type setRolesRequest struct {
	Roles []model.Role `json:"roles"`
}

// setRoles reads the migration mode from the "action" header, as the
// original API did: none, student, supervisor or coordinator.
func (h *UserHandler) setRoles(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req setRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	mode := service.RoleMode(r.Header.Get("action"))
	if mode == "" {
		mode = service.ModeNone
	}
	if err := h.userService.SetRoles(r.Context(), id, req.Roles, mode); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Roles successfully updated")
}

func (h *UserHandler) requestSupervision(w http.ResponseWriter, r *http.Request) {
	studentID, supervisorID, ok := h.supervisionParams(w, r)
	if !ok {
		return
	}
	msg, err := h.supervisionService.Request(r.Context(), studentID, supervisorID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, msg)
}

func (h *UserHandler) confirmSupervision(w http.ResponseWriter, r *http.Request) {
	studentID, supervisorID, ok := h.supervisionParams(w, r)
	if !ok {
		return
	}
	msg, err := h.supervisionService.Confirm(r.Context(), studentID, supervisorID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, msg)
}

func (h *UserHandler) supervisionBoard(w http.ResponseWriter, r *http.Request) {
	students, err := h.userService.StudentsWithSupervisors(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, students)
}

func (h *UserHandler) supervisionParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	studentID, err := idParam(r, "studentId")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid student id")
		return 0, 0, false
	}
	supervisorID, err := idParam(r, "supervisorId")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid supervisor id")
		return 0, 0, false
	}
	return studentID, supervisorID, true
}

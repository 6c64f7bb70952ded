package handler

import (
	"fmt"
	"io"
	"net/http"
	"thesis_hub/internal/api/middleware"
	"thesis_hub/internal/app/service"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"
	"thesis_hub/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All submission routes require auth
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/file/{id}", h.getFile)
	r.Get("/view", h.statusBoard)
	r.Post("/create", h.create)
	r.Put("/update/{id}", h.update)
	r.Delete("/remove/{id}", h.remove)

	r.Group(func(graders chi.Router) {
		graders.Use(middleware.RequireAnyRole(string(model.RoleSupervisor), string(model.RoleCoordinator), string(model.RoleAdmin)))
		graders.Put("/grade/{id}", h.grade)
	})
}

func (h *SubmissionHandler) list(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissionService.FindAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *SubmissionHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}
	sub, err := h.submissionService.FindByID(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) getFile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}
	sub, err := h.submissionService.GetFile(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", sub.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", sub.FileName))
	w.Header().Set("Cache-Control", "must-revalidate, post-check=0, pre-check=0")
	w.WriteHeader(http.StatusOK)
	w.Write(sub.Data)
}

func (h *SubmissionHandler) statusBoard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.submissionService.StatusBoard(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *SubmissionHandler) create(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing principal")
		return
	}

	req, err := parseSubmissionForm(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart payload: "+err.Error())
		return
	}
	createReq := service.CreateSubmissionRequest{
		Title:       req.Title,
		Description: req.Description,
		Stage:       model.SubmissionStage(r.FormValue("type")),
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Data:        req.Data,
	}

	sub, err := h.submissionService.Create(r.Context(), email, createReq)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, fmt.Sprintf("Submission %s successfully saved", sub.Stage))
}

func (h *SubmissionHandler) update(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing principal")
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}

	req, err := parseSubmissionForm(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart payload: "+err.Error())
		return
	}

	if err := h.submissionService.Update(r.Context(), email, id, *req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Submission successfully updated")
}

func (h *SubmissionHandler) remove(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing principal")
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}
	if err := h.submissionService.Remove(r.Context(), email, id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Submission successfully removed")
}

func (h *SubmissionHandler) grade(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}
	grade := model.Grade(r.URL.Query().Get("grade"))
	if grade == "" {
		grade = model.Grade(r.FormValue("grade"))
	}
	if err := h.submissionService.Grade(r.Context(), id, grade); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Submission successfully graded")
}

// parseSubmissionForm reads the multipart upload shared by create and update.
func parseSubmissionForm(r *http.Request) (*service.UpdateSubmissionRequest, error) {
	if err := r.ParseMultipartForm(config.AppConfig.MaxUploadBytes); err != nil {
		return nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &service.UpdateSubmissionRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

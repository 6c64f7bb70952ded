package handler

import (
	"encoding/json"
	"net/http"
	"thesis_hub/internal/api/middleware"
	"thesis_hub/internal/app/service"
	"thesis_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(cs *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: cs}
}

func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/{id}", h.get)
	r.Post("/add/{id}", h.post)
	r.Put("/update/{id}", h.update)
	r.Delete("/delete/{id}", h.delete)
}

func (h *CommentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	comment, err := h.commentService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) post(w http.ResponseWriter, r *http.Request) {
	submissionID, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req service.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	comment, err := h.commentService.Post(r.Context(), email, submissionID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req service.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.commentService.Update(r.Context(), email, id, req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Comment successfully updated")
}

func (h *CommentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	if err := h.commentService.Delete(r.Context(), id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Comment successfully removed")
}

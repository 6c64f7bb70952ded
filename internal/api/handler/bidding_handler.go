package handler

import (
	"net/http"
	"thesis_hub/internal/api/middleware"
	"thesis_hub/internal/app/service"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type BiddingHandler struct {
	biddingService *service.BiddingService
}

func NewBiddingHandler(bs *service.BiddingService) *BiddingHandler {
	return &BiddingHandler{biddingService: bs}
}

func (h *BiddingHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/request/reader/{id}", h.requestReader)

	r.Group(func(coord chi.Router) {
		coord.Use(middleware.RequireAnyRole(string(model.RoleCoordinator), string(model.RoleAdmin)))
		coord.Post("/confirm/reader/{studentId}/{submissionId}", h.confirmReader)
		coord.Post("/set/opponent/{studentId}/{submissionId}", h.setOpponent)
		coord.Delete("/remove/opponent/{studentId}/{submissionId}", h.removeOpponent)
	})
}

func (h *BiddingHandler) requestReader(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing principal")
		return
	}
	submissionID, err := idParam(r, "id")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}
	if err := h.biddingService.RequestToRead(r.Context(), email, submissionID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Request successfully sent")
}

func (h *BiddingHandler) confirmReader(w http.ResponseWriter, r *http.Request) {
	studentID, submissionID, ok := h.pairParams(w, r)
	if !ok {
		return
	}
	if err := h.biddingService.ConfirmReader(r.Context(), studentID, submissionID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Reader successfully confirmed")
}

func (h *BiddingHandler) setOpponent(w http.ResponseWriter, r *http.Request) {
	studentID, submissionID, ok := h.pairParams(w, r)
	if !ok {
		return
	}
	if err := h.biddingService.SetOpponent(r.Context(), studentID, submissionID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Opponent successfully set")
}

func (h *BiddingHandler) removeOpponent(w http.ResponseWriter, r *http.Request) {
	studentID, submissionID, ok := h.pairParams(w, r)
	if !ok {
		return
	}
	if err := h.biddingService.RemoveOpponent(r.Context(), studentID, submissionID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Opponent successfully removed")
}

func (h *BiddingHandler) pairParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	studentID, err := idParam(r, "studentId")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid student id")
		return 0, 0, false
	}
	submissionID, err := idParam(r, "submissionId")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return 0, 0, false
	}
	return studentID, submissionID, true
}

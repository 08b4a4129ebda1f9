package nudge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bigredmatch/bigredmatch-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateNudge(w http.ResponseWriter, r *http.Request) {
	netid, ok := r.Context().Value("netid").(string)
	if !ok || netid == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing caller identity")
		return
	}

	var dto CreateNudgeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	nudge, err := h.service.CreateNudge(r.Context(), netid, dto.To, dto.PromptID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyNudged), errors.Is(err, ErrSelfNudge):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create nudge")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, nudge)
}

func (h *Handler) GetNudgeStatus(w http.ResponseWriter, r *http.Request) {
	netid, ok := r.Context().Value("netid").(string)
	if !ok || netid == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing caller identity")
		return
	}

	vars := mux.Vars(r)
	params := NudgeStatusParams{Other: vars["other"], PromptID: vars["promptId"]}
	if err := utils.ValidateStruct(params); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.service.GetNudgeStatus(r.Context(), netid, params.Other, params.PromptID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get nudge status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}

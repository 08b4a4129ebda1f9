package matching

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

func (h *Handler) GenerateMatches(w http.ResponseWriter, r *http.Request) {
	var dto GenerateMatchesDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		promptID = dto.PromptID
		count    int
		err      error
	)
	if promptID == "" {
		promptID, count, err = h.service.GenerateMatchesForCurrentPrompt(r.Context())
	} else {
		count, err = h.service.GenerateMatchesForPrompt(r.Context(), promptID)
	}
	if err != nil {
		if errors.Is(err, ErrAlreadyMatched) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, GenerateMatchesResponseDTO{
		PromptID:     promptID,
		MatchedUsers: count,
	})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	netid, ok := r.Context().Value("netid").(string)
	if !ok || netid == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing caller identity")
		return
	}
	promptID := mux.Vars(r)["promptId"]

	record, err := h.service.GetMatch(r.Context(), netid, promptID)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get match")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, record)
}

func (h *Handler) RevealMatch(w http.ResponseWriter, r *http.Request) {
	netid, ok := r.Context().Value("netid").(string)
	if !ok || netid == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing caller identity")
		return
	}
	promptID := mux.Vars(r)["promptId"]

	var dto RevealMatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.RevealMatch(r.Context(), netid, promptID, *dto.Index)
	if err != nil {
		switch {
		case errors.Is(err, ErrMatchNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrIndexOutOfRange), errors.Is(err, ErrIndexOutOfBounds):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reveal match")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, record)
}

func (h *Handler) ValidateMutuality(w http.ResponseWriter, r *http.Request) {
	promptID := mux.Vars(r)["promptId"]

	report, err := h.service.ValidateMatchMutuality(r.Context(), promptID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to validate matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

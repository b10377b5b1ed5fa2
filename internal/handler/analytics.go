package handler

import (
	"errors"
	"net/http"

	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/response"
	"github.com/emrekip/wellbeing-survey/internal/service"
	"github.com/google/uuid"
)

// AnalyticsHandler exposes the read-side wellbeing aggregates.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(analytics service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetPair godoc
// @Summary     Participant analytics
// @Description Returns rating averages and the response history for one participant in one campaign.
// @Tags        analytics
// @Produce     json
// @Param       participantID path string true "Participant id"
// @Param       campaignID    path string true "Campaign id"
// @Success     200 {object} response.JSONResponse
// @Failure     400 {object} response.JSONResponse
// @Failure     404 {object} response.JSONResponse
// @Router      /api/analytics/{participantID}/{campaignID} [get]
func (h *AnalyticsHandler) GetPair(w http.ResponseWriter, r *http.Request) {
	participantID, err := uuid.Parse(r.PathValue("participantID"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid participant id")
		return
	}

	campaignID, err := uuid.Parse(r.PathValue("campaignID"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	a, err := h.analytics.ForPair(r.Context(), participantID, campaignID)
	if err != nil {
		if errors.Is(err, participant.ErrNotFound) || errors.Is(err, campaign.ErrNotFound) {
			response.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to get analytics")
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromAnalytics(a))
}

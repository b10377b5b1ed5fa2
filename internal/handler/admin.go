package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emrekip/wellbeing-survey/internal/domain/campaign"
	"github.com/emrekip/wellbeing-survey/internal/domain/participant"
	"github.com/emrekip/wellbeing-survey/internal/request"
	"github.com/emrekip/wellbeing-survey/internal/response"
	"github.com/emrekip/wellbeing-survey/internal/service"
	"github.com/google/uuid"
)

// defaultCampaignWindow is applied when a campaign is created without dates.
const defaultCampaignWindow = 365 * 24 * time.Hour

// AdminHandler wires the roster management endpoints to the roster service.
type AdminHandler struct {
	roster service.RosterService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(roster service.RosterService) *AdminHandler {
	return &AdminHandler{roster: roster}
}

// AddParticipant godoc
// @Summary     Enroll a participant
// @Description Registers a new participant with a unique phone number.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body request.ParticipantRequest true "Participant name and phone"
// @Success     201 {object} response.JSONResponse
// @Failure     400 {object} response.JSONResponse
// @Router      /admin/participants [post]
func (h *AdminHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req request.ParticipantRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		response.RespondError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	p, err := h.roster.RegisterParticipant(r.Context(), req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, participant.ErrPhoneNumberTaken) || errors.Is(err, participant.ErrEmptyPhoneNumber) {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, response.FromDomainParticipant(p))
}

// ListParticipants godoc
// @Summary     List participants
// @Tags        admin
// @Produce     json
// @Success     200 {object} response.JSONResponse
// @Router      /admin/participants [get]
func (h *AdminHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ps, err := h.roster.ListParticipants(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromDomainParticipants(ps))
}

// SetParticipantActive godoc
// @Summary     Enable or disable a participant
// @Description Flips the active flag; inactive participants receive no surveys.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       id      path string                           true "Participant id"
// @Param       request body request.ParticipantActiveRequest true "Desired active state"
// @Success     200 {object} response.JSONResponse
// @Failure     400 {object} response.JSONResponse
// @Failure     404 {object} response.JSONResponse
// @Router      /admin/participants/{id} [patch]
func (h *AdminHandler) SetParticipantActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid participant id")
		return
	}

	var req request.ParticipantActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.roster.SetParticipantActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, participant.ErrNotFound) {
			response.RespondError(w, http.StatusNotFound, "participant not found")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

// AddCampaign godoc
// @Summary     Create a campaign
// @Description Creates an active campaign; omitting both dates defaults to a one-year window starting today.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body request.CampaignRequest true "Campaign definition"
// @Success     201 {object} response.JSONResponse
// @Failure     400 {object} response.JSONResponse
// @Router      /admin/campaigns [post]
func (h *AdminHandler) AddCampaign(w http.ResponseWriter, r *http.Request) {
	var req request.CampaignRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		response.RespondError(w, http.StatusBadRequest, "campaign name is required")
		return
	}

	var start, end time.Time
	if req.StartDate == "" && req.EndDate == "" {
		start = time.Now()
		end = start.Add(defaultCampaignWindow)
	} else {
		var err error
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
			return
		}
		end, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
			return
		}
	}

	c, err := h.roster.CreateCampaign(r.Context(), req.Name, req.Description, start, end)
	if err != nil {
		if errors.Is(err, campaign.ErrInvalidWindow) || errors.Is(err, campaign.ErrEmptyName) {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, response.FromDomainCampaign(c))
}

// ListCampaigns godoc
// @Summary     List campaigns
// @Tags        admin
// @Produce     json
// @Success     200 {object} response.JSONResponse
// @Router      /admin/campaigns [get]
func (h *AdminHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := h.roster.ListCampaigns(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromDomainCampaigns(cs))
}

// TestSMS godoc
// @Summary     Send a test survey
// @Description Dispatches an ad hoc survey to the given phone number, creating a test participant and campaign if needed. A second call on the same day returns the original instance.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body request.TestSMSRequest true "Target phone number"
// @Success     200 {object} response.JSONResponse
// @Failure     400 {object} response.JSONResponse
// @Router      /admin/test-sms [post]
func (h *AdminHandler) TestSMS(w http.ResponseWriter, r *http.Request) {
	var req request.TestSMSRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Phone) == "" {
		response.RespondError(w, http.StatusBadRequest, "phone number is required")
		return
	}

	in, err := h.roster.TestSend(r.Context(), strings.TrimSpace(req.Phone), time.Now())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload := response.TestSMSPayload{
		Message:  "Test SMS dispatched",
		Instance: response.FromDomainInstance(in),
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

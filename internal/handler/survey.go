package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/emrekip/wellbeing-survey/internal/request"
	"github.com/emrekip/wellbeing-survey/internal/response"
	"github.com/emrekip/wellbeing-survey/internal/scheduler"
	"github.com/emrekip/wellbeing-survey/internal/service"
)

// SurveyHandler wires the survey read endpoints and the background
// scheduler control to HTTP.
type SurveyHandler struct {
	dispatch service.DispatchService
	schSvc   scheduler.SchedulerService
}

// NewSurveyHandler constructs a new SurveyHandler with its dependencies.
func NewSurveyHandler(dispatch service.DispatchService, schSvc scheduler.SchedulerService) *SurveyHandler {
	return &SurveyHandler{
		dispatch: dispatch,
		schSvc:   schSvc,
	}
}

// StartStopScheduler godoc
// @Summary     Control scheduler
// @Description Starts or stops the background dispatch/purge scheduler based on the given action.
// @Tags        scheduler
// @Accept      json
// @Produce     json
// @Param       request body request.SchedulerRequest true "Scheduler action (start|stop)"
// @Success     200 {object} response.JSONResponse
// @Failure     400 {object} response.JSONResponse
// @Router      /scheduler [post]
func (h *SurveyHandler) StartStopScheduler(w http.ResponseWriter, r *http.Request) {
	var req request.SchedulerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Action {
	case "start":
		if err := h.schSvc.Start(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{
			Message: "scheduler started",
		})

	case "stop":
		if err := h.schSvc.Stop(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{
			Message: "scheduler stopped",
		})

	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'start' or 'stop'")
	}
}

// GetSentSurveys godoc
// @Summary     List sent surveys
// @Description Returns a paginated list of successfully sent survey instances.
// @Tags        surveys
// @Produce     json
// @Param       page  query int false "Page number"         default(1)
// @Param       limit query int false "Page size (max 100)" default(20)
// @Success     200 {object} response.JSONResponse
// @Failure     500 {object} response.JSONResponse
// @Router      /surveys/sent [get]
func (h *SurveyHandler) GetSentSurveys(w http.ResponseWriter, r *http.Request) {
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	page := 1
	limit := 20

	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}

	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	items, total, err := h.dispatch.ListSent(r.Context(), page, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload := response.SentInstancesPayload{
		Items: response.FromDomainInstances(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emrekip/wellbeing-survey/internal/response"
	"github.com/emrekip/wellbeing-survey/internal/service"
)

// WebhookHandler receives inbound SMS callbacks from the delivery provider
// and hands them to the reconciliation engine.
type WebhookHandler struct {
	reconcile service.ReconcileService
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(reconcile service.ReconcileService) *WebhookHandler {
	return &WebhookHandler{reconcile: reconcile}
}

// InboundSMS godoc
// @Summary     Inbound SMS webhook
// @Description Accepts a provider callback with the sender address and raw reply body, parses the joy/achievement/meaningfulness/influence payload and persists a response.
// @Tags        webhook
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       From body string true "Sender phone number"
// @Param       Body body string true "Raw reply body"
// @Success     200 {object} response.JSONResponse
// @Failure     400 {object} response.JSONResponse
// @Failure     404 {object} response.JSONResponse
// @Failure     409 {object} response.JSONResponse
// @Router      /webhook/sms [post]
func (h *WebhookHandler) InboundSMS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	body := strings.TrimSpace(r.PostFormValue("Body"))

	if from == "" || body == "" {
		response.RespondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	result, err := h.reconcile.Ingest(r.Context(), from, body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownSender):
			response.RespondError(w, http.StatusNotFound, "participant not found")
		case errors.Is(err, service.ErrMalformedResponse):
			response.RespondError(w, http.StatusBadRequest, "invalid response format")
		case errors.Is(err, service.ErrNoActiveCampaign):
			response.RespondError(w, http.StatusNotFound, "no active campaign")
		case errors.Is(err, service.ErrAmbiguousCampaign):
			response.RespondError(w, http.StatusConflict, "multiple campaigns are running")
		default:
			response.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	payload := response.WebhookPayload{
		Message:          "Response processed and feedback sent",
		ResponseID:       result.Response.ID.String(),
		FeedbackURL:      result.FeedbackURL,
		ConfirmationSent: result.ConfirmationErr == nil,
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

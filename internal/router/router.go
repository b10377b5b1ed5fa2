package routes

import (
	"net/http"

	_ "github.com/emrekip/wellbeing-survey/internal/docs" // swagger docs
	"github.com/emrekip/wellbeing-survey/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home      HomeHandler
	Webhook   WebhookHandler
	Survey    SurveyHandler
	Admin     AdminHandler
	Analytics AnalyticsHandler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	InboundSMS(w http.ResponseWriter, r *http.Request)
}

type SurveyHandler interface {
	GetSentSurveys(w http.ResponseWriter, r *http.Request)
	StartStopScheduler(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	AddParticipant(w http.ResponseWriter, r *http.Request)
	ListParticipants(w http.ResponseWriter, r *http.Request)
	SetParticipantActive(w http.ResponseWriter, r *http.Request)
	AddCampaign(w http.ResponseWriter, r *http.Request)
	ListCampaigns(w http.ResponseWriter, r *http.Request)
	TestSMS(w http.ResponseWriter, r *http.Request)
}

type AnalyticsHandler interface {
	GetPair(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	// Inbound provider callback
	mux.HandleFunc("POST /webhook/sms", d.Webhook.InboundSMS)

	// Survey read side + scheduler control
	mux.HandleFunc("GET /surveys/sent", d.Survey.GetSentSurveys)
	mux.HandleFunc("POST /scheduler", d.Survey.StartStopScheduler)

	// Analytics read side
	mux.HandleFunc("GET /api/analytics/{participantID}/{campaignID}", d.Analytics.GetPair)

	// Roster administration
	mux.HandleFunc("POST /admin/participants", d.Admin.AddParticipant)
	mux.HandleFunc("GET /admin/participants", d.Admin.ListParticipants)
	mux.HandleFunc("PATCH /admin/participants/{id}", d.Admin.SetParticipantActive)
	mux.HandleFunc("POST /admin/campaigns", d.Admin.AddCampaign)
	mux.HandleFunc("GET /admin/campaigns", d.Admin.ListCampaigns)
	mux.HandleFunc("POST /admin/test-sms", d.Admin.TestSMS)

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}

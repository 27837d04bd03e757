package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"silentaid/middleware"
	"silentaid/models"
	"silentaid/store"

	"github.com/gorilla/mux"
)

type JSONResponse map[string]interface{}

const (
	alertsCollection   = "alerts"
	contactsCollection = "contacts"

	// List responses are capped; there is no pagination beyond this.
	alertListLimit = 50
)

type APIHandler struct {
	store store.DocumentStore
}

func NewAPIHandler(documentStore store.DocumentStore) *APIHandler {
	return &APIHandler{store: documentStore}
}

type sosRequest struct {
	UserID        string   `json:"userId"`
	UserName      string   `json:"userName"`
	Phone         string   `json:"phone"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Accuracy      *float64 `json:"accuracy"`
	EmergencyType string   `json:"emergencyType"`
	ExtraMessage  string   `json:"extraMessage"`
}

// CreateAlertHandler handles POST /api/sos. Every field except userId is
// defaulted; the record is stamped with status NEW and a server timestamp.
func (h *APIHandler) CreateAlertHandler(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	var req sosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Invalid request payload", err)
	}

	if req.UserID == "" {
		return middleware.NewAppError(http.StatusBadRequest, "userId is required", nil)
	}

	emergencyType := req.EmergencyType
	if emergencyType == "" {
		emergencyType = models.EmergencyTypeGeneral
	}

	doc := store.Document{
		"userId":        req.UserID,
		"userName":      req.UserName,
		"phone":         req.Phone,
		"lat":           optionalNumber(req.Lat),
		"lng":           optionalNumber(req.Lng),
		"accuracy":      optionalNumber(req.Accuracy),
		"emergencyType": emergencyType,
		"extraMessage":  req.ExtraMessage,
		"status":        models.AlertStatusNew,
	}

	alertID, err := h.store.Insert(r.Context(), alertsCollection, doc)
	if err != nil {
		log.Printf("Error inserting alert: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
	}

	log.Printf("SOS alert saved id=%s user=%s type=%s", alertID, req.UserID, emergencyType)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(JSONResponse{
		"message": "SOS alert stored successfully",
		"alertId": alertID,
	})
	return nil
}

// ListAlertsHandler handles GET /api/alerts: the latest alerts, newest first.
func (h *APIHandler) ListAlertsHandler(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	alerts, err := h.store.List(r.Context(), alertsCollection, store.Query{Limit: alertListLimit})
	if err != nil {
		log.Printf("Error listing alerts: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
	}

	json.NewEncoder(w).Encode(alerts)
	return nil
}

// GetAlertHandler handles GET /api/alerts/{id}.
func (h *APIHandler) GetAlertHandler(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	id := mux.Vars(r)["id"]
	alert, err := h.store.Get(r.Context(), alertsCollection, id)
	if err != nil {
		if err == store.ErrNotFound {
			return middleware.NewAppError(http.StatusNotFound, "Alert not found", err)
		}
		log.Printf("Error loading alert %s: %v", id, err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
	}

	json.NewEncoder(w).Encode(alert)
	return nil
}

func optionalNumber(value *float64) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

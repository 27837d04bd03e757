package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"silentaid/middleware"
	"silentaid/store"
)

type contactRequest struct {
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	IsEmergency bool    `json:"isEmergency"`
	Photo       *string `json:"photo"`
}

// CreateContactHandler handles POST /api/contacts.
func (h *APIHandler) CreateContactHandler(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Invalid request payload", err)
	}

	if req.UserID == "" || req.Name == "" || req.Phone == "" {
		return middleware.NewAppError(http.StatusBadRequest, "userId, name, and phone are required", nil)
	}

	var photo interface{}
	if req.Photo != nil {
		photo = *req.Photo
	}

	doc := store.Document{
		"userId":      req.UserID,
		"name":        req.Name,
		"phone":       req.Phone,
		"isEmergency": req.IsEmergency,
		"photo":       photo,
	}

	contactID, err := h.store.Insert(r.Context(), contactsCollection, doc)
	if err != nil {
		log.Printf("Error inserting contact: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
	}

	log.Printf("Contact saved id=%s user=%s", contactID, req.UserID)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(JSONResponse{
		"message":   "Contact saved successfully",
		"contactId": contactID,
	})
	return nil
}

// ListContactsHandler handles GET /api/contacts?userId=. Contacts come back
// newest first; an unknown user yields an empty list, not an error.
func (h *APIHandler) ListContactsHandler(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		return middleware.NewAppError(http.StatusBadRequest, "userId query param is required", nil)
	}

	contacts, err := h.store.List(r.Context(), contactsCollection, store.Query{Field: "userId", Value: userID})
	if err != nil {
		log.Printf("Error listing contacts: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
	}

	json.NewEncoder(w).Encode(contacts)
	return nil
}

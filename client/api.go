package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SOSRequest is the POST /api/sos body. Geo fields are pointers so an
// unknown location goes over the wire as null.
type SOSRequest struct {
	UserID        string   `json:"userId"`
	UserName      string   `json:"userName"`
	Phone         string   `json:"phone"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Accuracy      *float64 `json:"accuracy"`
	EmergencyType string   `json:"emergencyType"`
	ExtraMessage  string   `json:"extraMessage"`
}

// ContactRequest is the POST /api/contacts body.
type ContactRequest struct {
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	IsEmergency bool    `json:"isEmergency"`
	Photo       *string `json:"photo"`
}

// APIClient talks to the Alert Service backend.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateAlert posts an SOS alert and returns the server-assigned alert id.
func (c *APIClient) CreateAlert(ctx context.Context, req SOSRequest) (string, error) {
	response, err := c.post(ctx, "/api/sos", req)
	if err != nil {
		return "", err
	}
	return response["alertId"], nil
}

// CreateContact posts an emergency contact and returns the server-assigned
// contact id.
func (c *APIClient) CreateContact(ctx context.Context, req ContactRequest) (string, error) {
	response, err := c.post(ctx, "/api/contacts", req)
	if err != nil {
		return "", err
	}
	return response["contactId"], nil
}

func (c *APIClient) post(ctx context.Context, path string, body interface{}) (map[string]string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	response := map[string]string{}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		if message := response["error"]; message != "" {
			return nil, fmt.Errorf("backend rejected request: %s", message)
		}
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return response, nil
}

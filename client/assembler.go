package client

import (
	"context"
	"fmt"
	"log"
	"time"

	"silentaid/models"
)

var timeNow = time.Now

const (
	defaultUserID       = "demoUser"
	defaultExtraMessage = "SilentAid SOS triggered from web app"
)

// Assembler builds alert records from the current profile, location and
// contact list, persists them locally and forwards them to the backend.
//
// Delivery is best-effort and at-most-once: the local record is committed
// before any network attempt, the send happens in the background, and a
// failed send is logged but never rolled back or retried.
type Assembler struct {
	// EmergencyType stamps every assembled alert; defaults to MEDICAL, the
	// only trigger the app exposes today.
	EmergencyType string

	store *LocalStore
	api   *APIClient
}

func NewAssembler(store *LocalStore, api *APIClient) *Assembler {
	return &Assembler{
		EmergencyType: "MEDICAL",
		store:         store,
		api:           api,
	}
}

// AssembleAndTrigger snapshots the given state into a fresh AlertRecord,
// saves it to local storage, and fires off the backend notification without
// waiting for it.
func (a *Assembler) AssembleAndTrigger(profile models.UserProfile, location *models.LocationSample, contacts []models.Contact) (models.AlertRecord, error) {
	now := timeNow()
	record := models.AlertRecord{
		ID:            newAlertID(now),
		Time:          now.UTC(),
		UserID:        profileUserID(profile),
		UserName:      profile.Name,
		Phone:         profile.Phone,
		Location:      location,
		EmergencyType: a.EmergencyType,
		ExtraMessage:  defaultExtraMessage,
		Status:        models.AlertStatusNew,
		Contacts:      contacts,
	}

	// Local persistence is guaranteed before any network attempt.
	if err := a.store.SaveLastAlert(record); err != nil {
		return models.AlertRecord{}, err
	}

	go a.send(record)

	return record, nil
}

// TriggerFromStore assembles an alert from whatever is currently in local
// storage. This is what the hold trigger's complete callback invokes.
func (a *Assembler) TriggerFromStore() (models.AlertRecord, error) {
	profile, _ := a.store.LoadProfile()
	contacts := a.store.LoadContacts()

	var location *models.LocationSample
	if cached, found := a.store.LoadLastLocation(); found {
		location = &cached
	}

	return a.AssembleAndTrigger(profile, location, contacts)
}

func (a *Assembler) send(record models.AlertRecord) {
	req := SOSRequest{
		UserID:        record.UserID,
		UserName:      record.UserName,
		Phone:         record.Phone,
		EmergencyType: record.EmergencyType,
		ExtraMessage:  record.ExtraMessage,
	}
	if record.Location != nil {
		req.Lat = &record.Location.Lat
		req.Lng = &record.Location.Lng
		if record.Location.Accuracy > 0 {
			req.Accuracy = &record.Location.Accuracy
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := a.api.CreateAlert(ctx, req); err != nil {
		log.Printf("Error sending SOS to backend: %v", err)
	}
}

func profileUserID(profile models.UserProfile) string {
	if profile.ID != "" {
		return profile.ID
	}
	return defaultUserID
}

func newAlertID(now time.Time) string {
	return fmt.Sprintf("ALERT-%d", now.UnixMilli())
}

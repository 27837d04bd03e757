package models

import "time"

// Alert status values. ACKNOWLEDGED and RESOLVED are reserved for future
// operator tooling; nothing transitions an alert past NEW today.
const (
	AlertStatusNew          = "NEW"
	AlertStatusAcknowledged = "ACKNOWLEDGED"
	AlertStatusResolved     = "RESOLVED"
)

const EmergencyTypeGeneral = "GENERAL"

// AlertRecord is a snapshot of the user, their last known location and their
// contact list at trigger time. The server never mutates a record after
// creation.
type AlertRecord struct {
	ID            string          `json:"id"`
	Time          time.Time       `json:"time"`
	UserID        string          `json:"userId"`
	UserName      string          `json:"userName"`
	Phone         string          `json:"phone"`
	Location      *LocationSample `json:"location"`
	EmergencyType string          `json:"emergencyType"`
	ExtraMessage  string          `json:"extraMessage,omitempty"`
	Status        string          `json:"status"`
	Contacts      []Contact       `json:"contacts"`
}

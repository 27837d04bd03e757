package models

import "time"

type Contact struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId,omitempty"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	IsPrimary   bool      `json:"isPrimary,omitempty"`
	IsEmergency bool      `json:"isEmergency"`
	Photo       *string   `json:"photo"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

package models

import "time"

// LocationSample is the single most-recent geolocation reading. It is
// overwritten on every successful sample, never merged or averaged.
type LocationSample struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

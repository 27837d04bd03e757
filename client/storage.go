package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"silentaid/models"
)

// Storage keys, one JSON blob each. No schema versioning or migration;
// last write wins.
const (
	KeyUser         = "sa_user"
	KeyContacts     = "sa_contacts"
	KeyLastAlert    = "sa_lastAlert"
	KeyLastLocation = "sa_lastLocation"
)

// LocalStore is the client-side persistent key-value store: one JSON file per
// key under a directory. It is the device-local analog of browser storage.
type LocalStore struct {
	mu  sync.Mutex
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating storage directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(key), payload, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", key, err)
	}
	return nil
}

// Load reads a key into target. A missing or unreadable blob reports absent
// rather than failing, so callers fall back to their zero value.
func (s *LocalStore) Load(key string, target interface{}) bool {
	s.mu.Lock()
	payload, err := os.ReadFile(s.path(key))
	s.mu.Unlock()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return false
	}
	return true
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *LocalStore) SaveProfile(profile models.UserProfile) error {
	return s.Save(KeyUser, profile)
}

func (s *LocalStore) LoadProfile() (models.UserProfile, bool) {
	var profile models.UserProfile
	found := s.Load(KeyUser, &profile)
	return profile, found
}

func (s *LocalStore) SaveContacts(contacts []models.Contact) error {
	return s.Save(KeyContacts, contacts)
}

func (s *LocalStore) LoadContacts() []models.Contact {
	contacts := []models.Contact{}
	s.Load(KeyContacts, &contacts)
	return contacts
}

// AddContact appends a contact to the local list.
func (s *LocalStore) AddContact(contact models.Contact) error {
	contacts := s.LoadContacts()
	contacts = append(contacts, contact)
	return s.SaveContacts(contacts)
}

// RemoveContact deletes exactly one contact by id, preserving the order of
// the remaining entries. It reports whether a contact was removed.
func (s *LocalStore) RemoveContact(id string) (bool, error) {
	contacts := s.LoadContacts()
	for i, contact := range contacts {
		if contact.ID == id {
			remaining := append(contacts[:i:i], contacts[i+1:]...)
			if err := s.SaveContacts(remaining); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *LocalStore) SaveLastAlert(alert models.AlertRecord) error {
	return s.Save(KeyLastAlert, alert)
}

func (s *LocalStore) LoadLastAlert() (models.AlertRecord, bool) {
	var alert models.AlertRecord
	found := s.Load(KeyLastAlert, &alert)
	return alert, found
}

func (s *LocalStore) SaveLastLocation(location models.LocationSample) error {
	return s.Save(KeyLastLocation, location)
}

func (s *LocalStore) LoadLastLocation() (models.LocationSample, bool) {
	var location models.LocationSample
	found := s.Load(KeyLastLocation, &location)
	return location, found
}

package config

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
)

// Profile is what the connect prompt remembers between launches. It holds
// no game state.
type Profile struct {
	Username string `json:"username"`
	Address  string `json:"address"`
}

const profileKey = "profile"

// ProfileStore loads and saves the Profile through gdata.
type ProfileStore struct {
	m *gdata.Manager
}

// OpenProfileStore initializes the gdata manager for profile storage
func OpenProfileStore(appName string) (*ProfileStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	return &ProfileStore{m: m}, nil
}

// Load returns the saved profile, or a zero Profile when nothing was saved.
func (s *ProfileStore) Load() (Profile, error) {
	if s == nil || s.m == nil {
		return Profile{}, nil
	}

	data, err := s.m.LoadItem(profileKey)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if len(data) == 0 {
		return Profile{}, nil
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// Save writes the profile to disk.
func (s *ProfileStore) Save(p Profile) error {
	if s == nil || s.m == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}
	if err := s.m.SaveItem(profileKey, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

package domain

import (
	"context"
	"errors"
)

// SettingsKey is the fixed key the credentials blob is stored under.
const SettingsKey = "wpCredsGlobal"

// ErrCorruptSettings is returned when the stored blob cannot be decoded.
var ErrCorruptSettings = errors.New("stored settings are corrupt")

// Credentials address a (simulated) WordPress installation.
type Credentials struct {
	SiteURL  string `json:"siteUrl"`
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// Complete reports whether every field is set. No remote operation is attempted otherwise.
func (c *Credentials) Complete() bool {
	return c != nil && c.SiteURL != "" && c.Username != "" && c.Secret != ""
}

// SettingsRepository persists a single credentials record.
// Save always replaces the whole record; there are no partial updates.
type SettingsRepository interface {
	// Load returns nil, nil when nothing has been saved yet.
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds *Credentials) error
}

package models

import "time"

// CredentialType identifies what a stored credential connects to.
type CredentialType string

const (
	CredentialTypePostgres CredentialType = "postgres"
	CredentialTypeSMTP     CredentialType = "smtp"
	CredentialTypeAPIKey   CredentialType = "api_key"
)

// Credential is a stored connection secret referenced by id from step
// configuration. Executors read credentials, never write them.
type Credential struct {
	ID        string         `json:"id"         validate:"required"`
	Name      string         `json:"name"       validate:"required"`
	Type      CredentialType `json:"type"       validate:"required"`
	DSN       string         `json:"dsn,omitempty"`
	Secret    string         `json:"secret,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Package entity defines identity-provider webhook payloads.
package entity

import (
	"encoding/json"
	"strings"
)

// Event types dispatched by the webhook usecase. Other types are ignored.
const (
	TypeUserCreated         = "user.created"
	TypeUserUpdated         = "user.updated"
	TypeUserDeleted         = "user.deleted"
	TypeOrganizationCreated = "organization.created"
	TypeOrganizationUpdated = "organization.updated"
	TypeOrganizationDeleted = "organization.deleted"
)

// Event is the verified webhook envelope. Data is decoded according to Type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EmailAddress is one of a user's addresses.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData is the payload of user.created and user.updated.
type UserData struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
}

// FullName joins first and last name, skipping empty parts.
func (u UserData) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// PrimaryEmail returns the primary address, falling back to the first one.
func (u UserData) PrimaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID != "" && e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// OrganizationData is the payload of organization.created and organization.updated.
type OrganizationData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url"`
}

// DeletedData is the payload of *.deleted events.
type DeletedData struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

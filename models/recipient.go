package models

import (
	"fmt"
	"strings"
)

// RecipientRole identifies which party a notification is addressed to.
type RecipientRole string

const (
	RoleCustomer   RecipientRole = "CUSTOMER"
	RoleChauffeur  RecipientRole = "CHAUFFEUR"
	RoleFleetOwner RecipientRole = "FLEET_OWNER"
)

// Recipient is an immutable description of a contact target. At least one of
// Email/Phone must be present; values are trimmed on construction and equality
// is structural.
type Recipient struct {
	ID    string        `bson:"id" json:"id"`
	Name  string        `bson:"name" json:"name"`
	Role  RecipientRole `bson:"role" json:"role"`
	Email string        `bson:"email,omitempty" json:"email,omitempty"`
	Phone string        `bson:"phone,omitempty" json:"phone,omitempty"`
}

// NewRecipient builds a Recipient, trimming all values. It fails when neither
// an email address nor a phone number is supplied.
func NewRecipient(id, name string, role RecipientRole, email, phone string) (Recipient, error) {
	r := Recipient{
		ID:    strings.TrimSpace(id),
		Name:  strings.TrimSpace(name),
		Role:  role,
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	if r.Email == "" && r.Phone == "" {
		return Recipient{}, fmt.Errorf("recipient %s (%s) has no contact channel", r.ID, r.Role)
	}
	return r, nil
}

// HasEmail reports whether the recipient can be reached by email.
func (r Recipient) HasEmail() bool {
	return r.Email != ""
}

// HasPhone reports whether the recipient can be reached by SMS.
func (r Recipient) HasPhone() bool {
	return r.Phone != ""
}

// Equal reports structural equality.
func (r Recipient) Equal(other Recipient) bool {
	return r == other
}

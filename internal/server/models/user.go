package models

import "maps"

// User is the working copy of a person known to the system, either as a
// device owner, a guest or a host.
type User struct {
	Email     string
	FirstName string
	LastName  string
	Company   string

	Devices SerialSet

	WebexRoomID        string
	WebexWebhookID     string
	WebexWebhookTarget string

	// MerakiAuthUserIDs maps a segment key to the controller credential id
	// issued on it.
	MerakiAuthUserIDs map[string]string

	AccessRequestID string
	Secret          string
	Password        string
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// StoredUser is a persisted user record. Nil fields were absent from the
// stored payload and must not override the working copy's defaults.
type StoredUser struct {
	Email              string            `dynamodbav:"email"`
	FirstName          *string           `dynamodbav:"firstName,omitempty"`
	LastName           *string           `dynamodbav:"lastName,omitempty"`
	Company            *string           `dynamodbav:"company,omitempty"`
	Devices            []string          `dynamodbav:"devices"`
	WebexRoomID        *string           `dynamodbav:"webexRoomId,omitempty"`
	WebexWebhookID     *string           `dynamodbav:"webexWebhookId,omitempty"`
	WebexWebhookTarget *string           `dynamodbav:"webexWebhookTarget,omitempty"`
	MerakiAuthUserIDs  map[string]string `dynamodbav:"merakiAuthUserIds"`
	AccessRequestID    *string           `dynamodbav:"accessRequestId,omitempty"`
	Secret             *string           `dynamodbav:"secret,omitempty"`
	Password           *string           `dynamodbav:"password,omitempty"`
}

// Overlay copies every field present in s onto u.
func (u *User) Overlay(s *StoredUser) {
	if s == nil {
		return
	}
	overlay(&u.FirstName, s.FirstName)
	overlay(&u.LastName, s.LastName)
	overlay(&u.Company, s.Company)
	overlay(&u.WebexRoomID, s.WebexRoomID)
	overlay(&u.WebexWebhookID, s.WebexWebhookID)
	overlay(&u.WebexWebhookTarget, s.WebexWebhookTarget)
	overlay(&u.AccessRequestID, s.AccessRequestID)
	overlay(&u.Secret, s.Secret)
	overlay(&u.Password, s.Password)

	if s.Devices != nil {
		u.Devices = NewSerialSet(s.Devices...)
	}
	if s.MerakiAuthUserIDs != nil {
		u.MerakiAuthUserIDs = maps.Clone(s.MerakiAuthUserIDs)
	}
}

// Stored is the full record for u. Empty strings are persisted as absent.
func (u *User) Stored() *StoredUser {
	ids := maps.Clone(u.MerakiAuthUserIDs)
	if ids == nil {
		ids = map[string]string{}
	}
	return &StoredUser{
		Email:              u.Email,
		FirstName:          present(u.FirstName),
		LastName:           present(u.LastName),
		Company:            present(u.Company),
		Devices:            u.Devices.Sorted(),
		WebexRoomID:        present(u.WebexRoomID),
		WebexWebhookID:     present(u.WebexWebhookID),
		WebexWebhookTarget: present(u.WebexWebhookTarget),
		MerakiAuthUserIDs:  ids,
		AccessRequestID:    present(u.AccessRequestID),
		Secret:             present(u.Secret),
		Password:           present(u.Password),
	}
}

func overlay(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func present(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

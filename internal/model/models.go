package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ID = string

type Role string

const (
	RolePatient      Role = "PATIENT"
	RolePsychologist Role = "PSYCHOLOGIST"
	RoleAdmin        Role = "ADMIN"
)

type SessionStatus string

const (
	StatusPending   SessionStatus = "PENDING"
	StatusScheduled SessionStatus = "SCHEDULED"
	StatusLive      SessionStatus = "LIVE"
	StatusCompleted SessionStatus = "COMPLETED"
	StatusCancelled SessionStatus = "CANCELLED"
)

type SessionType string

const (
	TypeOneOnOne SessionType = "ONE_ON_ONE"
	TypeGroup    SessionType = "GROUP"
)

type PresenceStatus string

const (
	PresenceOnline   PresenceStatus = "ONLINE"
	PresenceAway     PresenceStatus = "AWAY"
	PresenceBusy     PresenceStatus = "BUSY"
	PresenceSleeping PresenceStatus = "SLEEPING"
	PresenceOffline  PresenceStatus = "OFFLINE"
)

type User struct {
	ID    ID     `json:"id"`
	Alias string `json:"alias"`
	Role  Role   `json:"role"`

	// SessionTimeout is the inactivity logout threshold in minutes.
	// Zero means the account has no inactivity limit.
	SessionTimeout int `json:"sessionTimeout,omitempty"`
}

// UserRef is the nested shape the backend embeds inside sessions.
type UserRef struct {
	ID    ID     `json:"id"`
	Alias string `json:"alias"`
}

type Session struct {
	ID        ID        `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PsychologistID ID       `json:"psychologistId"`
	Psychologist   *UserRef `json:"psychologist,omitempty"`

	// PatientID is nil for an open one-on-one slot awaiting booking.
	PatientID    *ID       `json:"patientId,omitempty"`
	Patient      *UserRef  `json:"patient,omitempty"`
	Participants []UserRef `json:"participants,omitempty"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	Status SessionStatus `json:"status"`
	Type   SessionType   `json:"type"`

	Price           decimal.Decimal `json:"price"`
	MaxParticipants int             `json:"maxParticipants,omitempty"`
}

// Duration is always derived from the timestamps, never stored.
func (s Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// HasPatient reports whether a one-on-one session has been booked.
func (s Session) HasPatient() bool {
	return s.PatientID != nil && *s.PatientID != ""
}

// PsychologistAlias falls back to "Unknown" when the nested reference is
// absent, so display code never has to null-check it.
func (s Session) PsychologistAlias() string {
	if s.Psychologist == nil || s.Psychologist.Alias == "" {
		return "Unknown"
	}
	return s.Psychologist.Alias
}

// DemoMinutes is the per (patient, psychologist) allotment of free or
// discounted session time not yet consumed.
type DemoMinutes struct {
	Remaining float64 `json:"remaining"`
}

// VideoToken is the credential handed off to the external conferencing SDK.
type VideoToken struct {
	Token    string `json:"token"`
	RoomName string `json:"roomName"`
}

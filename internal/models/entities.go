// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// SessionStatus represents the lifecycle state of a beer session.
type SessionStatus string

const (
	// SessionStatusActive indicates a session that is currently running.
	SessionStatusActive SessionStatus = "active"
	// SessionStatusCompleted indicates a session that has been ended.
	SessionStatusCompleted SessionStatus = "completed"
)

// SessionDuration is the planned length of a beer session.
type SessionDuration string

const (
	Duration30Minutes SessionDuration = "30_minutes"
	Duration1Hour     SessionDuration = "1_hour"
	Duration2Hours    SessionDuration = "2_hours"
	Duration3Hours    SessionDuration = "3_hours"
)

// UserProfile represents one registered person's app profile. It is created
// at registration and mutated by profile edits, never deleted locally.
type UserProfile struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  *string   `json:"last_name,omitempty"`
	Username  *string   `json:"username,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// DisplayName returns "FirstName LastName" when a last name is present,
// otherwise just the first name.
func (p UserProfile) DisplayName() string {
	if p.LastName != nil {
		return p.FirstName + " " + *p.LastName
	}
	return p.FirstName
}

// Friendship represents a directed friendship edge: UserID is the requester,
// FriendID the recipient at creation time. Once accepted the relationship is
// symmetric for query purposes; either side may appear as the current user in
// a lookup and the other id resolves as "the friend".
type Friendship struct {
	ID        uuid.UUID        `gorm:"type:text;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:text;not null;index" json:"user_id"`
	FriendID  uuid.UUID        `gorm:"type:text;not null;index" json:"friend_id"`
	Status    FriendshipStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// Involves reports whether the given user is on either side of the edge.
func (f Friendship) Involves(userID uuid.UUID) bool {
	return f.UserID == userID || f.FriendID == userID
}

// OtherSide resolves "the friend" relative to the given user id.
func (f Friendship) OtherSide(userID uuid.UUID) uuid.UUID {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// BeerSession is a time-boxed drinking session with a location, a planned
// duration and a beer counter.
type BeerSession struct {
	ID         uuid.UUID       `gorm:"type:text;primaryKey" json:"id"`
	UserID     uuid.UUID       `gorm:"type:text;not null;index" json:"user_id"`
	LocationID uuid.UUID       `gorm:"type:text;not null" json:"location_id"`
	Duration   SessionDuration `gorm:"type:varchar(20)" json:"duration"`
	StartedAt  time.Time       `json:"started_at"`
	EndsAt     time.Time       `json:"ends_at"`
	Status     SessionStatus   `gorm:"type:varchar(20);default:'active';index" json:"status"`
	Message    *string         `json:"message,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Latitude   *float64        `json:"latitude,omitempty"`
	Longitude  *float64        `json:"longitude,omitempty"`
	BeerCount  int             `gorm:"default:0" json:"beer_count"`
}

// TableName specifies the table name for GORM
func (BeerSession) TableName() string {
	return "beer_sessions"
}

// Event is a public or private meetup created by a user.
type Event struct {
	ID            uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   *string   `json:"description,omitempty"`
	Location      *string   `json:"location,omitempty"`
	StartDate     time.Time `gorm:"index" json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsPublic      bool      `gorm:"default:true" json:"is_public"`
	MaxAttendees  *int      `json:"max_attendees,omitempty"`
	AttendeeCount int       `gorm:"default:0" json:"attendee_count"`
	CreatedBy     uuid.UUID `gorm:"type:text;not null" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// KoelschLocation is a venue from the read-only Kölsch pub directory.
type KoelschLocation struct {
	ID         uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	Address    string     `json:"address"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	PriceRange string     `json:"price_range"`
	Phone      string     `json:"phone"`
	Website    string     `json:"website"`
	Tags       StringList `gorm:"type:text" json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM
func (KoelschLocation) TableName() string {
	return "koelsch_locations"
}

// OTPPurpose says which flow requested a one-time code.
type OTPPurpose string

const (
	OTPPurposeLogin    OTPPurpose = "login"
	OTPPurposeRegister OTPPurpose = "register"
)

// AuthUser is the auth-provider identity, distinct from UserProfile but keyed
// by the same id.
type AuthUser struct {
	ID        uuid.UUID  `json:"id"`
	Phone     string     `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

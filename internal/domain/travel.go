package domain

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is a planned group trip that companions can ask to join.
// Style is the single optional travel-style tag ("" means none); Interests
// holds the remaining free-form interest tags.
type Itinerary struct {
	ID            uuid.UUID  `json:"id"`
	CreatorID     uuid.UUID  `json:"creator_id"`
	Title         string     `json:"title"`
	Destination   string     `json:"destination"`
	Description   string     `json:"description,omitempty"`
	Window        TimeWindow `json:"window"`
	MaxPeople     int        `json:"max_people"`
	ApprovedJoins int        `json:"approved_joins"`
	Style         string     `json:"travel_style,omitempty"`
	Interests     []string   `json:"interests"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SeatsRemaining returns how many more companions the itinerary can accept,
// never negative.
func (i Itinerary) SeatsRemaining() int {
	if s := i.MaxPeople - i.ApprovedJoins; s > 0 {
		return s
	}
	return 0
}

// JoinRole distinguishes the itinerary creator from joining members.
type JoinRole string

const (
	JoinHost   JoinRole = "HOST"
	JoinMember JoinRole = "MEMBER"
)

// JoinStatus is the lifecycle of a join request. Only APPROVED rows count
// toward an itinerary's taken seats.
type JoinStatus string

const (
	JoinPending  JoinStatus = "PENDING"
	JoinApproved JoinStatus = "APPROVED"
	JoinRejected JoinStatus = "REJECTED"
)

// ItineraryJoin is one user's membership in an itinerary. The creator gets a
// HOST row approved at creation; everyone else requests a MEMBER row that the
// creator approves or rejects.
type ItineraryJoin struct {
	ID          uuid.UUID  `json:"id"`
	ItineraryID uuid.UUID  `json:"itinerary_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Role        JoinRole   `json:"role"`
	Status      JoinStatus `json:"status"`
	Message     string     `json:"message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CompanionRequest is a solo traveller's ask to be matched with itineraries
// headed the same way. Style and Interests follow the same convention as
// Itinerary.
type CompanionRequest struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Destination string     `json:"destination"`
	Window      TimeWindow `json:"window"`
	Flexibility string     `json:"flexibility,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Style       string     `json:"travel_style,omitempty"`
	Interests   []string   `json:"interests"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

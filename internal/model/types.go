package model

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user
type Account struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	Email        string
	Phone        string
	CreatedAt    time.Time
}

// Doctor represents an entry in the doctor directory
type Doctor struct {
	ID          uuid.UUID
	JobTitle    string
	Latitude    float64
	Longitude   float64
	IsAvailable bool
	Email       string
	Phone       string
	CreatedAt   time.Time
}

// Message is a single entry of the message log. Timestamp is seconds since epoch,
// assigned by the store at insert; Seq breaks ties in insertion order.
type Message struct {
	ID        uuid.UUID
	Seq       int64
	Content   string
	Sender    uuid.UUID
	Receiver  uuid.UUID
	Timestamp int64
}

// Exchange is the sender/receiver pair of a logged message
type Exchange struct {
	Sender   uuid.UUID
	Receiver uuid.UUID
}

// Identity is the caller resolved from a verified bearer token
type Identity struct {
	AccountID uuid.UUID
	Email     string
}

// NearbyDoctor pairs a doctor with its distance from the query point
type NearbyDoctor struct {
	Doctor        Doctor
	DistanceMiles float64
}

package validate

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/carelink/server/internal/geo"
)

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

// Gate validates request fields per endpoint
type Gate struct {
	// PhoneLength, when positive, is the exact number of characters a phone must have.
	PhoneLength int
}

// New creates a Gate
func New(phoneLength int) *Gate {
	return &Gate{PhoneLength: phoneLength}
}

// AccountInput is a validated account registration
type AccountInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput is a validated login attempt
type LoginInput struct {
	Email    string
	Password string
}

// DoctorInput is a validated doctor registration
type DoctorInput struct {
	JobTitle    string
	Latitude    float64
	Longitude   float64
	IsAvailable bool
	Email       string
	Phone       string
}

// NearbyInput is a validated proximity query
type NearbyInput struct {
	Latitude  float64
	Longitude float64
	Distance  int
}

// MessageInput is a validated message to send
type MessageInput struct {
	Content  string
	Receiver uuid.UUID
}

// Account validates name, email, phone and password
func (g *Gate) Account(f Fields) (AccountInput, error) {
	var in AccountInput
	var err error
	if in.Name, err = f.required("name"); err != nil {
		return AccountInput{}, err
	}
	if in.Email, err = email(f); err != nil {
		return AccountInput{}, err
	}
	if in.Phone, err = g.phone(f); err != nil {
		return AccountInput{}, err
	}
	if in.Password, err = f.required("password"); err != nil {
		return AccountInput{}, err
	}
	if len(in.Password) > maxPasswordBytes {
		return AccountInput{}, fieldErrorf("password", "must be at most %d bytes", maxPasswordBytes)
	}
	return in, nil
}

// Login validates email and password presence
func (g *Gate) Login(f Fields) (LoginInput, error) {
	var in LoginInput
	var err error
	if in.Email, err = f.required("email"); err != nil {
		return LoginInput{}, err
	}
	if in.Password, err = f.required("password"); err != nil {
		return LoginInput{}, err
	}
	return in, nil
}

// Doctor validates a doctor registration
func (g *Gate) Doctor(f Fields) (DoctorInput, error) {
	var in DoctorInput
	var err error
	if in.JobTitle, err = f.required("jobTitle"); err != nil {
		return DoctorInput{}, err
	}
	if in.Latitude, in.Longitude, err = point(f); err != nil {
		return DoctorInput{}, err
	}
	if in.IsAvailable, err = boolean(f, "isAvailable"); err != nil {
		return DoctorInput{}, err
	}
	if in.Email, err = email(f); err != nil {
		return DoctorInput{}, err
	}
	if in.Phone, err = g.phone(f); err != nil {
		return DoctorInput{}, err
	}
	return in, nil
}

// DoctorID validates the id of a doctor lookup
func (g *Gate) DoctorID(f Fields) (uuid.UUID, error) {
	return id(f, "id")
}

// Nearby validates a proximity query
func (g *Gate) Nearby(f Fields) (NearbyInput, error) {
	var in NearbyInput
	var err error
	if in.Latitude, in.Longitude, err = point(f); err != nil {
		return NearbyInput{}, err
	}
	raw, err := f.required("distance")
	if err != nil {
		return NearbyInput{}, err
	}
	in.Distance, err = strconv.Atoi(raw)
	if err != nil || in.Distance <= 0 {
		return NearbyInput{}, fieldErrorf("distance", "must be a positive integer")
	}
	return in, nil
}

// Message validates content and receiver
func (g *Gate) Message(f Fields) (MessageInput, error) {
	var in MessageInput
	var err error
	if in.Content, err = f.required("content"); err != nil {
		return MessageInput{}, err
	}
	if in.Receiver, err = id(f, "receiver"); err != nil {
		return MessageInput{}, err
	}
	return in, nil
}

// Participant validates the counterpart of a message history lookup
func (g *Gate) Participant(f Fields) (uuid.UUID, error) {
	return id(f, "participant")
}

func email(f Fields) (string, error) {
	v, err := f.required("email")
	if err != nil {
		return "", err
	}
	if !strings.Contains(v, "@") || !strings.Contains(v, ".") {
		return "", fieldErrorf("email", "must be a valid email address")
	}
	return v, nil
}

func (g *Gate) phone(f Fields) (string, error) {
	v, err := f.required("phone")
	if err != nil {
		return "", err
	}
	if g.PhoneLength > 0 && utf8.RuneCountInString(v) != g.PhoneLength {
		return "", fieldErrorf("phone", "must be exactly %d characters", g.PhoneLength)
	}
	return v, nil
}

func point(f Fields) (float64, float64, error) {
	lat, err := number(f, "latitude")
	if err != nil {
		return 0, 0, err
	}
	lon, err := number(f, "longitude")
	if err != nil {
		return 0, 0, err
	}
	if !geo.ValidPoint(lat, lon) {
		return 0, 0, fieldErrorf("latitude", "and longitude must be within [-90,90] and [-180,180]")
	}
	return lat, lon, nil
}

// number parses a finite float; ParseFloat accepts "NaN" and "Inf" so those are rejected here.
func number(f Fields, name string) (float64, error) {
	raw, err := f.required(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fieldErrorf(name, "must be a finite number")
	}
	return v, nil
}

func boolean(f Fields, name string) (bool, error) {
	raw, err := f.required(name)
	if err != nil {
		return false, err
	}
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fieldErrorf(name, "must be true or false")
}

func id(f Fields, name string) (uuid.UUID, error) {
	raw, err := f.required(name)
	if err != nil {
		return uuid.Nil, err
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fieldErrorf(name, "must be a valid id")
	}
	return v, nil
}

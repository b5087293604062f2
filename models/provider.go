package models

import "time"

// Provider is a bookable artist.
type Provider struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"passwordHash" json:"-"`
	Category       string    `bson:"category" json:"category"`
	PricePerHour   float64   `bson:"pricePerHour" json:"pricePerHour"`
	Bio            string    `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePicture string    `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	OfferedSlots   []Slot    `bson:"availability" json:"availability"`
	Bookings       []Booking `bson:"bookings" json:"bookings"`
	Version        int64     `bson:"version" json:"version"` // bumped on every slot-list change
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookedSlots returns the slots held by bookings, in booking order.
func (p *Provider) BookedSlots() []Slot {
	out := make([]Slot, 0, len(p.Bookings))
	for _, b := range p.Bookings {
		out = append(out, b.Slot())
	}
	return out
}

// Clone returns a deep copy so callers cannot alias stored slot lists.
func (p *Provider) Clone() *Provider {
	if p == nil {
		return nil
	}
	cp := *p
	cp.OfferedSlots = append([]Slot(nil), p.OfferedSlots...)
	cp.Bookings = append([]Booking(nil), p.Bookings...)
	return &cp
}

// ProviderProfileUpdate carries the optional profile fields an update may change.
// Slot lists are never part of a profile update.
type ProviderProfileUpdate struct {
	Name           *string  `json:"name,omitempty"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Password       *string  `json:"password,omitempty" validate:"omitempty,min=8"`
	Category       *string  `json:"category,omitempty"`
	PricePerHour   *float64 `json:"pricePerHour,omitempty" validate:"omitempty,gte=0"`
	Bio            *string  `json:"bio,omitempty"`
	ProfilePicture *string  `json:"profilePicture,omitempty"`
}

// CreateProviderRequest is the admin payload for adding an artist.
type CreateProviderRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Category       string  `json:"category" validate:"required"`
	PricePerHour   float64 `json:"pricePerHour" validate:"gte=0"`
	Bio            string  `json:"bio,omitempty"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
	Availability   []Slot  `json:"availability,omitempty"`
}

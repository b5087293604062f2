package models

// Slot is a dated time window offered by an artist.
// Values are stored canonical: Date "YYYY-MM-DD", StartTime/EndTime "HH:MM".
type Slot struct {
	Date      string `bson:"date" json:"date"`
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}

// Key identifies a canonical slot.
func (s Slot) Key() string {
	return s.Date + "|" + s.StartTime + "|" + s.EndTime
}

// UpdateSlotsRequest replaces an artist's offered slots wholesale.
type UpdateSlotsRequest struct {
	Availability []Slot `json:"availability"`
}

// CheckAvailabilityRequest asks whether one slot can be booked.
type CheckAvailabilityRequest struct {
	ArtistID  string `json:"artistId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type CheckAvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

package models

// Booking is a reserved slot held on the artist record, pointing back at its order.
type Booking struct {
	OrderID    string      `bson:"orderId" json:"orderId"`
	Date       string      `bson:"date" json:"date"`           // "YYYY-MM-DD"
	StartTime  string      `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime    string      `bson:"endTime" json:"endTime"`     // "HH:MM"
	Location   string      `bson:"location" json:"location"`
	TotalPrice float64     `bson:"totalPrice" json:"totalPrice"`
	Status     OrderStatus `bson:"status" json:"status"`
}

func (b Booking) Slot() Slot {
	return Slot{Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime}
}

// NewBooking builds the booking entry for an order.
func NewBooking(order *Order) Booking {
	return Booking{
		OrderID:    order.ID,
		Date:       order.Date,
		StartTime:  order.StartTime,
		EndTime:    order.EndTime,
		Location:   order.Location,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
	}
}

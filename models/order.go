package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a customer's purchase of one artist slot.
type Order struct {
	ID         string      `bson:"id" json:"id"`
	CustomerID string      `bson:"customerId" json:"customerId"`
	ProviderID string      `bson:"artistId" json:"artistId"`
	Date       string      `bson:"date" json:"date"`
	StartTime  string      `bson:"startTime" json:"startTime"`
	EndTime    string      `bson:"endTime" json:"endTime"`
	Location   string      `bson:"location" json:"location"`
	TotalPrice float64     `bson:"totalPrice" json:"totalPrice"`
	Status     OrderStatus `bson:"status" json:"status"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time   `bson:"updatedAt" json:"updatedAt"`
}

func (o Order) Slot() Slot {
	return Slot{Date: o.Date, StartTime: o.StartTime, EndTime: o.EndTime}
}

// PlaceOrderRequest is the customer-facing order payload.
type PlaceOrderRequest struct {
	ArtistID   string   `json:"artistId"`
	Date       string   `json:"date"`
	StartTime  string   `json:"startTime"`
	EndTime    string   `json:"endTime"`
	Location   string   `json:"location"`
	TotalPrice *float64 `json:"totalPrice"`
}

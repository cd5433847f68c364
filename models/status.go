package models

import "strings"

// Order status
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
)

// Booking status
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

// Payment status, unset until a verified gateway callback
const (
	PaymentStatusPaid     = "PAID"
	PaymentStatusRefunded = "REFUNDED"

	PaymentMethodRazorpay = "RAZORPAY"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusConfirmed: true,
	OrderStatusPreparing: true,
	OrderStatusReady:     true,
	OrderStatusDelivered: true,
	OrderStatusCompleted: true,
	OrderStatusPaid:      true,
	OrderStatusCancelled: true,
}

var bookingStatuses = map[string]bool{
	BookingStatusPending:   true,
	BookingStatusConfirmed: true,
	BookingStatusCompleted: true,
	BookingStatusCancelled: true,
}

// NormalizeOrderStatus returns the canonical form of s and whether admins may set it.
func NormalizeOrderStatus(s string) (string, bool) {
	status := strings.ToUpper(strings.TrimSpace(s))
	return status, orderStatuses[status]
}

// NormalizeBookingStatus is NormalizeOrderStatus for bookings.
func NormalizeBookingStatus(s string) (string, bool) {
	status := strings.ToUpper(strings.TrimSpace(s))
	return status, bookingStatuses[status]
}

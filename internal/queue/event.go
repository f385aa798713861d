// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into booking log lines.
package queue

// ReservationQueueName is the durable queue confirmed reservations are
// published to.
const ReservationQueueName = "booking.confirmed"

// ReservationConfirmedEvent is published when a reservation has been
// committed to the catalog.  It carries enough information for downstream
// consumers to log or notify without reading the catalog.
type ReservationConfirmedEvent struct {
	ReservationID int      `json:"reservation_id"`
	ScreeningID   int      `json:"screening_id"`
	MovieTitle    string   `json:"movie_title"`
	RoomName      string   `json:"room_name"`
	StartsAt      string   `json:"starts_at"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	SeatLabels    []string `json:"seats"`
	TotalPrice    float64  `json:"total_price"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

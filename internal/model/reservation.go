package model

import "time"

// TimestampLayout is the stored format of a reservation timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Reservation records a customer's booking of one or more seats for a
// single screening.  The price is not stored: TotalPrice always uses the
// screening's current price.
//
// Fields:
//  ID            - unique identifier, increasing in creation order.
//  ScreeningID   - screening being booked.
//  CustomerName  - name given at booking time.
//  CustomerEmail - contact address given at booking time.
//  Seats         - booked seats in the order they were requested.
//  Timestamp     - creation time (second precision when stored).
type Reservation struct {
	ID            int
	ScreeningID   int
	CustomerName  string
	CustomerEmail string
	Seats         []Seat
	Timestamp     time.Time
}

// TotalPrice is the seat count times the screening's price.
func (r Reservation) TotalPrice(screening *Screening) float64 {
	return float64(len(r.Seats)) * screening.Price
}

// Clone returns a copy with its own seat slice.
func (r Reservation) Clone() Reservation {
	r.Seats = append([]Seat(nil), r.Seats...)
	return r
}

package entity

// Passenger is created fresh for every successful booking, there is
// no deduplication across bookings.
type Passenger struct {
	BaseSimple
	Name         string `db:"name"`
	MobileNumber string `db:"mobile_number"`
}

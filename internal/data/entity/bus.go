package entity

type Bus struct {
	Base
	Name        string `db:"name"`
	CompanyName string `db:"company_name"`
	TotalSeats  int    `db:"total_seats"`
}

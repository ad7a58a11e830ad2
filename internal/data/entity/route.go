package entity

type Route struct {
	Base
	FromCity string `db:"from_city"`
	ToCity   string `db:"to_city"`
}

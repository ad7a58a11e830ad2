package request

type BookSeatsRequest struct {
	ScheduleID      string   `json:"schedule_id" validate:"required,uuid4"`
	SeatNumbers     []string `json:"seat_numbers" validate:"required,min=1,unique,dive,required"`
	PassengerName   string   `json:"passenger_name" validate:"required,min=2,max=100"`
	PassengerMobile string   `json:"passenger_mobile" validate:"required,min=6,max=20"`
	BoardingPoint   string   `json:"boarding_point" validate:"required,max=100"`
	DroppingPoint   string   `json:"dropping_point" validate:"required,max=100"`
}

package response

import "bus-reservation/internal/data/entity"

type AvailableBusResponse struct {
	ScheduleID  string  `json:"schedule_id"`
	BusName     string  `json:"bus_name"`
	CompanyName string  `json:"company_name"`
	FromCity    string  `json:"from_city"`
	ToCity      string  `json:"to_city"`
	JourneyDate string  `json:"journey_date"`
	StartTime   string  `json:"start_time"`
	ArrivalTime string  `json:"arrival_time"`
	Price       float64 `json:"price"`
	SeatsLeft   int     `json:"seats_left"`
}

func AvailableScheduleToResponse(s *entity.AvailableSchedule) *AvailableBusResponse {
	return &AvailableBusResponse{
		ScheduleID:  s.ScheduleID.String(),
		BusName:     s.BusName,
		CompanyName: s.CompanyName,
		FromCity:    s.FromCity,
		ToCity:      s.ToCity,
		JourneyDate: s.JourneyDate.Format("2006-01-02"),
		StartTime:   s.StartTime,
		ArrivalTime: s.ArrivalTime,
		Price:       s.Price,
		SeatsLeft:   s.SeatsLeft,
	}
}

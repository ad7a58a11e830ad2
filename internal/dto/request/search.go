package request

type SearchBusesRequest struct {
	From        string `json:"from" validate:"required,min=2,max=100"`
	To          string `json:"to" validate:"required,min=2,max=100"`
	JourneyDate string `json:"journey_date" validate:"required,datetime=2006-01-02"`
}

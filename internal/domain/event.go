package domain

const (
	EventNewApplication    = "new_application"
	EventApplicationStatus = "application_status"
)

// Event is what the API publishes to the event queue for the mail worker.
type Event struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type NewApplicationEventData struct {
	EmployerName  string `json:"employerName"`
	ApplicantName string `json:"applicantName"`
	JobTitle      string `json:"jobTitle"`
	Message       string `json:"message"`
}

type ApplicationStatusEventData struct {
	WorkerName string `json:"workerName"`
	JobTitle   string `json:"jobTitle"`
	Status     string `json:"status"`
}

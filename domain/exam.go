package domain

// Exam is a static catalog entry describing a test type. The catalog is
// read-only from the service layer's perspective.
type Exam struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ShortName     string `json:"shortName"`
	ScheduledDays int    `json:"scheduledDays"`
}

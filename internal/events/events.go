package events

import "time"

type EntityCreatedEvent struct {
	EntityID string `json:"entity_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

type EntityDeletedEvent struct {
	EntityID string `json:"entity_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

type ResultSavedEvent struct {
	EntityID             string `json:"entity_id"`
	Category             string `json:"category"`
	Entity               string `json:"entity"`
	Profile              string `json:"profile"`
	PercentageLikelihood string `json:"percentage_likelihood"`
}

type VisitEvent struct {
	VisitCount int       `json:"visit_count"`
	Timestamp  time.Time `json:"timestamp"`
}

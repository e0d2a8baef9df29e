package events

const (
	SubjectVisit = "reckon.session.visit"

	StreamName   = "RECKON_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectEntityCreated(entityID string) string { return "reckon.entity." + entityID + ".created" }
func SubjectEntityDeleted(entityID string) string { return "reckon.entity." + entityID + ".deleted" }
func SubjectResultSaved(entityID string) string   { return "reckon.result." + entityID + ".saved" }

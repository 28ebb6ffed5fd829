// Package connector implements one fetcher per ATS vendor plus the
// generic careers-page fallback, all normalizing into model.JobPosting.
package connector

import (
	"github.com/amishk599/careerwatch/internal/model"
)

// Registry maps each source to its connector. Closed set: the orchestrator
// treats a missing key as "unknown source" and skips the row.
type Registry map[model.Source]model.Connector

// NewRegistry wires every connector against the given relay. The generic
// connector gets the registry itself so it can delegate to a vendor
// connector when it finds an embedded board link.
func NewRegistry(relay model.Relay) Registry {
	reg := Registry{
		model.SourceGreenhouse:      NewGreenhouse(relay),
		model.SourceLever:           NewLever(relay),
		model.SourceAshby:           NewAshby(relay),
		model.SourceSmartRecruiters: NewSmartRecruiters(relay),
		model.SourceWorkable:        NewWorkable(relay),
		model.SourceWorkday:         NewWorkday(relay),
	}
	reg[model.SourceGeneric] = NewGeneric(relay, reg)
	return reg
}

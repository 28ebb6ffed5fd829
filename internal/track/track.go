// Package track computes "new since last check" against the persisted
// first-seen map.
package track

import (
	"fmt"
	"time"

	"github.com/amishk599/careerwatch/internal/model"
)

// Tracker stamps each posting's first-seen time and derives IsNew relative
// to a recency window. The injected store is the only thing that may hold
// the id -> first-seen map; only the tracker mutates it.
type Tracker struct {
	store model.SeenStore
	now   func() time.Time
}

func NewTracker(store model.SeenStore) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// Annotate processes one aggregation pass. For each posting: an id already
// in the store keeps its recorded first-seen unchanged; an unseen id gets
// firstSeen = postedAt when known, else now, and the mapping is recorded.
// IsNew = the id was absent from the store before this pass AND the posting
// (by postedAt, falling back to firstSeen) falls inside window. A posting
// observed in pass N stays not-new in every later pass regardless of its
// posted date.
func (t *Tracker) Annotate(postings []model.JobPosting, window time.Duration) ([]model.JobPosting, error) {
	now := t.now().UTC()

	// Ids recorded during this pass still count as unseen for IsNew: the
	// snapshot the flag is judged against is the store state before the
	// pass started.
	type seenEntry struct {
		firstSeen  time.Time
		seenBefore bool
	}
	inPass := make(map[string]seenEntry)

	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		var firstSeen time.Time
		var seenBefore bool

		if e, ok := inPass[p.ID]; ok {
			firstSeen, seenBefore = e.firstSeen, e.seenBefore
		} else {
			var err error
			firstSeen, seenBefore, err = t.store.FirstSeen(p.ID)
			if err != nil {
				return nil, fmt.Errorf("tracking %s: %w", p.ID, err)
			}
			if !seenBefore {
				firstSeen = now
				if p.PostedAt != nil {
					firstSeen = p.PostedAt.UTC()
				}
				if err := t.store.Record(p.ID, firstSeen); err != nil {
					return nil, fmt.Errorf("tracking %s: %w", p.ID, err)
				}
			}
			inPass[p.ID] = seenEntry{firstSeen: firstSeen, seenBefore: seenBefore}
		}

		reference := firstSeen
		if p.PostedAt != nil {
			reference = p.PostedAt.UTC()
		}

		p.FirstSeen = firstSeen
		p.IsNew = !seenBefore && withinWindow(now, reference, window)
		out = append(out, p)
	}

	return out, nil
}

func withinWindow(now, t time.Time, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	return now.Sub(t) <= window
}

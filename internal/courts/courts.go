// internal/courts/courts.go

// Package courts maps court identifiers to their physical-exclusivity
// resource type. Half, full and cricket resources share the same ground at
// this venue, so the type decides which combinations may coexist.
package courts

import "github.com/Jyotishka27/GODs/internal/config"

type ResourceType string

const (
	ResourceHalf    ResourceType = "half"
	ResourceFull    ResourceType = "full"
	ResourceCricket ResourceType = "cricket"
	ResourceUnknown ResourceType = "unknown"
)

// Court is one classified court. For unknown identifiers the label falls
// back to the identifier itself and the price is zero.
type Court struct {
	ID    string       `json:"id"`
	Type  ResourceType `json:"type"`
	Label string       `json:"label"`
	Price int64        `json:"price"`
}

// Classifier resolves court identifiers against the configured court table.
type Classifier struct {
	courts    map[string]Court
	ordered   []Court
	halfLimit int
}

// NewClassifier builds a classifier from the configured courts. The half
// limit is the number of configured half courts; with fewer than two
// configured it stays at two, matching a ground split into two halves.
func NewClassifier(configured []config.CourtConfig) *Classifier {
	c := &Classifier{courts: make(map[string]Court, len(configured))}
	halves := 0
	for _, cc := range configured {
		court := Court{
			ID:    cc.ID,
			Type:  ResourceType(cc.Type),
			Label: cc.Label,
			Price: cc.Price,
		}
		if court.Label == "" {
			court.Label = court.ID
		}
		c.courts[court.ID] = court
		c.ordered = append(c.ordered, court)
		if court.Type == ResourceHalf {
			halves++
		}
	}
	c.halfLimit = halves
	if c.halfLimit < 2 {
		c.halfLimit = 2
	}
	return c
}

// Classify is total over any identifier: unknown ids come back with
// ResourceUnknown and the id as the display label, never an error.
func (c *Classifier) Classify(courtID string) Court {
	if court, ok := c.courts[courtID]; ok {
		return court
	}
	return Court{ID: courtID, Type: ResourceUnknown, Label: courtID}
}

// Known reports whether the identifier is a configured court.
func (c *Classifier) Known(courtID string) bool {
	_, ok := c.courts[courtID]
	return ok
}

// HalfLimit is how many half courts may hold the same slot concurrently.
func (c *Classifier) HalfLimit() int {
	return c.halfLimit
}

// Courts returns the configured courts in configuration order.
func (c *Classifier) Courts() []Court {
	out := make([]Court, len(c.ordered))
	copy(out, c.ordered)
	return out
}

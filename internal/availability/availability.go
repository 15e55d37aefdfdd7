// internal/availability/availability.go

// Package availability folds a date's bookings into per-slot occupancy and
// decides whether a target court may still be booked for a slot. Both
// functions are pure: they never read the store or any ambient state, so a
// caller holding a transaction can re-evaluate against fresh rows.
package availability

import (
	"github.com/Jyotishka27/GODs/internal/courts"
	"github.com/Jyotishka27/GODs/internal/db"
)

// Reason strings surfaced verbatim to the user when a slot is denied.
const (
	ReasonFullAlreadyBooked    = "Blocked — full ground already booked."
	ReasonCricketBooked        = "Blocked — cricket booked."
	ReasonBothHalvesBooked     = "Blocked — both halves already booked."
	ReasonOwnHalfBooked        = "You already booked this half for this slot."
	ReasonHalvesBlockFull      = "Blocked — one or more halves already booked."
	ReasonHalvesBlockCricket   = "Blocked — halves already booked."
	ReasonFullBlocksCricket    = "Blocked — full ground booked."
	ReasonCricketAlreadyBooked = "Blocked — cricket already booked."
	ReasonSlotAlreadyBooked    = "Blocked — slot already booked."
)

// OccupancyState summarizes one slot. All carries every booking for the slot
// regardless of status so callers can show who holds it; the occupancy
// markers only reflect active bookings.
type OccupancyState struct {
	OccupiedHalves map[string]struct{}
	FullTaken      bool
	CricketTaken   bool
	All            []db.Booking
}

func newOccupancyState() *OccupancyState {
	return &OccupancyState{OccupiedHalves: make(map[string]struct{})}
}

// ActiveHolder returns the first active booking for the slot, if any.
func (s *OccupancyState) ActiveHolder() (db.Booking, bool) {
	for _, b := range s.All {
		if b.IsActive() {
			return b, true
		}
	}
	return db.Booking{}, false
}

// Compute folds bookings into per-slot occupancy. The fold is associative:
// input order never changes the result.
func Compute(classifier *courts.Classifier, bookings []db.Booking) map[string]*OccupancyState {
	occupancy := make(map[string]*OccupancyState)
	for _, b := range bookings {
		state, ok := occupancy[b.SlotID]
		if !ok {
			state = newOccupancyState()
			occupancy[b.SlotID] = state
		}
		state.All = append(state.All, b)
		if !b.IsActive() {
			continue
		}
		switch classifier.Classify(b.Court).Type {
		case courts.ResourceHalf:
			state.OccupiedHalves[b.Court] = struct{}{}
		case courts.ResourceFull:
			state.FullTaken = true
		case courts.ResourceCricket:
			state.CricketTaken = true
		}
	}
	return occupancy
}

// Decision is the rule engine's verdict for one (slot, court) pair.
type Decision struct {
	Allowed bool
	Reason  string
}

var allowed = Decision{Allowed: true}

func denied(reason string) Decision {
	return Decision{Reason: reason}
}

// Evaluate applies the mutual-exclusion rules for targetCourt against the
// slot's occupancy. A slot absent from the map is an empty slot. Rules are
// checked in order; the first match wins.
func Evaluate(classifier *courts.Classifier, occupancy map[string]*OccupancyState, slotID, targetCourt string) Decision {
	state, ok := occupancy[slotID]
	if !ok {
		state = newOccupancyState()
	}

	switch classifier.Classify(targetCourt).Type {
	case courts.ResourceHalf:
		switch {
		case state.FullTaken:
			return denied(ReasonFullAlreadyBooked)
		case state.CricketTaken:
			return denied(ReasonCricketBooked)
		case len(state.OccupiedHalves) >= classifier.HalfLimit():
			return denied(ReasonBothHalvesBooked)
		default:
			if _, taken := state.OccupiedHalves[targetCourt]; taken {
				return denied(ReasonOwnHalfBooked)
			}
			return allowed
		}

	case courts.ResourceFull:
		switch {
		case len(state.OccupiedHalves) > 0:
			return denied(ReasonHalvesBlockFull)
		case state.CricketTaken:
			return denied(ReasonCricketBooked)
		case state.FullTaken:
			return denied(ReasonFullAlreadyBooked)
		default:
			return allowed
		}

	case courts.ResourceCricket:
		switch {
		case len(state.OccupiedHalves) > 0:
			return denied(ReasonHalvesBlockCricket)
		case state.FullTaken:
			return denied(ReasonFullBlocksCricket)
		case state.CricketTaken:
			return denied(ReasonCricketAlreadyBooked)
		default:
			return allowed
		}

	default:
		// Exclusion semantics for unrecognized courts are undefined, so any
		// booking history at all, cancelled included, blocks the slot.
		if len(state.All) > 0 {
			return denied(ReasonSlotAlreadyBooked)
		}
		return allowed
	}
}

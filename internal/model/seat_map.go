package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
)

// Occupancy is the state of a single seat: Vacant (0) or Booked (1).
type Occupancy uint8

const (
	Vacant Occupancy = 0
	Booked Occupancy = 1
)

// MaxLabelLen is the longest room number or seat label, in bytes, that
// the rooms and room_seats columns hold.
const MaxLabelLen = 64

// SeatMap maps caller-supplied seat labels to their occupancy.  The set
// of labels is fixed when the map is created; only the occupancy of an
// existing label can change afterwards.  Labels are compared exactly
// (case-sensitive, no trimming).
//
// A SeatMap is a value type around a Go map, so copies share state.  Use
// Clone when an independent snapshot is needed.
type SeatMap struct {
	seats map[string]Occupancy
}

// NewSeatMap builds a seat map with every label vacant.  It fails with a
// validation error when labels is empty, contains an empty label, a label
// longer than MaxLabelLen bytes or the same label twice.
func NewSeatMap(labels []string) (SeatMap, error) {
	if len(labels) == 0 {
		return SeatMap{}, apperr.Validation("at least one seat label is required")
	}
	seats := make(map[string]Occupancy, len(labels))
	for _, l := range labels {
		if l == "" {
			return SeatMap{}, apperr.Validation("seat labels cannot be empty")
		}
		if len(l) > MaxLabelLen {
			return SeatMap{}, apperr.Validation(fmt.Sprintf("seat labels cannot exceed %d characters", MaxLabelLen))
		}
		if _, dup := seats[l]; dup {
			return SeatMap{}, apperr.Validation("duplicate seat label: " + l)
		}
		seats[l] = Vacant
	}
	return SeatMap{seats: seats}, nil
}

// RestoreSeatMap rebuilds a seat map from persisted state.  Any non-zero
// value is treated as booked.
func RestoreSeatMap(state map[string]Occupancy) SeatMap {
	seats := make(map[string]Occupancy, len(state))
	for l, o := range state {
		if o != Vacant {
			o = Booked
		}
		seats[l] = o
	}
	return SeatMap{seats: seats}
}

// Has reports whether label is one of the map's seats.
func (m SeatMap) Has(label string) bool {
	_, ok := m.seats[label]
	return ok
}

// IsVacant reports whether the seat is free.  Unknown labels yield a
// not-found error.
func (m SeatMap) IsVacant(label string) (bool, error) {
	o, ok := m.seats[label]
	if !ok {
		return false, apperr.NotFound("seat not found: " + label)
	}
	return o == Vacant, nil
}

// SetOccupancy overwrites the occupancy of an existing seat.  It does not
// guard against double booking; the allocation service does that.
func (m SeatMap) SetOccupancy(label string, o Occupancy) error {
	if _, ok := m.seats[label]; !ok {
		return apperr.NotFound("seat not found: " + label)
	}
	m.seats[label] = o
	return nil
}

// Occupancy returns the state of label and whether it exists.
func (m SeatMap) Occupancy(label string) (Occupancy, bool) {
	o, ok := m.seats[label]
	return o, ok
}

func (m SeatMap) CountBooked() int {
	n := 0
	for _, o := range m.seats {
		if o == Booked {
			n++
		}
	}
	return n
}

func (m SeatMap) CountVacant() int { return len(m.seats) - m.CountBooked() }

// Len returns the number of seats.
func (m SeatMap) Len() int { return len(m.seats) }

// Labels returns every seat label in ascending order.
func (m SeatMap) Labels() []string {
	out := make([]string, 0, len(m.seats))
	for l := range m.seats {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// VacantLabels returns the labels of free seats in ascending order.
func (m SeatMap) VacantLabels() []string {
	out := make([]string, 0, len(m.seats))
	for l, o := range m.seats {
		if o == Vacant {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (m SeatMap) Clone() SeatMap {
	return RestoreSeatMap(m.seats)
}

// MarshalJSON encodes the map as {"A1":0,"A2":1}.
func (m SeatMap) MarshalJSON() ([]byte, error) {
	if m.seats == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.seats)
}

// UnmarshalJSON decodes the {"label":bit} form.
func (m *SeatMap) UnmarshalJSON(b []byte) error {
	var raw map[string]Occupancy
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = RestoreSeatMap(raw)
	return nil
}

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
)

func TestNewSeatMap_AllVacant(t *testing.T) {
	m, err := NewSeatMap([]string{"A1", "A2"})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 0, m.CountBooked())
	assert.Equal(t, 2, m.CountVacant())
	assert.Equal(t, []string{"A1", "A2"}, m.VacantLabels())
}

func TestNewSeatMap_Rejects(t *testing.T) {
	cases := map[string][]string{
		"empty":     {},
		"duplicate": {"A1", "A1"},
		"blank":     {"A1", ""},
		"too long":  {"A1", strings.Repeat("A", MaxLabelLen+1)},
	}
	for name, labels := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSeatMap(labels)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
		})
	}
}

func TestSeatMap_LabelsAreCaseSensitive(t *testing.T) {
	m, err := NewSeatMap([]string{"a1", "A1", " A1"})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	require.NoError(t, m.SetOccupancy("A1", Booked))
	free, err := m.IsVacant("a1")
	require.NoError(t, err)
	assert.True(t, free)
	free, err = m.IsVacant(" A1")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestSeatMap_SetOccupancy(t *testing.T) {
	m, err := NewSeatMap([]string{"A1", "A2"})
	require.NoError(t, err)

	require.NoError(t, m.SetOccupancy("A1", Booked))
	assert.Equal(t, 1, m.CountBooked())
	assert.Equal(t, []string{"A2"}, m.VacantLabels())

	free, err := m.IsVacant("A1")
	require.NoError(t, err)
	assert.False(t, free)

	require.NoError(t, m.SetOccupancy("A1", Vacant))
	assert.Equal(t, 0, m.CountBooked())
}

func TestSeatMap_UnknownLabel(t *testing.T) {
	m, err := NewSeatMap([]string{"A1"})
	require.NoError(t, err)

	_, err = m.IsVacant("B1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	err = m.SetOccupancy("B1", Booked)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, 1, m.Len())
}

func TestSeatMap_CloneIsIndependent(t *testing.T) {
	m, err := NewSeatMap([]string{"A1"})
	require.NoError(t, err)
	c := m.Clone()
	require.NoError(t, c.SetOccupancy("A1", Booked))

	free, _ := m.IsVacant("A1")
	assert.True(t, free)
}

func TestSeatMap_JSON(t *testing.T) {
	m := RestoreSeatMap(map[string]Occupancy{"A1": Booked, "A2": Vacant})
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"A1":1,"A2":0}`, string(b))

	var back SeatMap
	require.NoError(t, json.Unmarshal([]byte(`{"B1":0,"B2":7}`), &back))
	assert.Equal(t, 1, back.CountBooked())
	o, ok := back.Occupancy("B2")
	assert.True(t, ok)
	assert.Equal(t, Booked, o)

	b, err = json.Marshal(SeatMap{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestBoarderQueryOffset(t *testing.T) {
	assert.Equal(t, 0, BoarderQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, BoarderQuery{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, BoarderQuery{Page: 0, Limit: 10}.Offset())
}

package mocks

import (
	"cmp"
	"context"
	"dogwalking/internal/domains/booking/model"
	"dogwalking/internal/domains/booking/repository"
	"dogwalking/shared/constant"
	repoMocks "dogwalking/shared/repository/mocks"
	"slices"
)

var _ repository.Booking = (*MemoryBooking)(nil)

// MemoryBooking keeps bookings in memory.
type MemoryBooking struct {
	*repoMocks.Table[model.Booking]
}

func NewMemoryBooking() *MemoryBooking {
	return &MemoryBooking{Table: repoMocks.NewTable[model.Booking](model.FieldID)}
}

// Booking returns a stored booking by id, or false.
func (m *MemoryBooking) Booking(id string) (model.Booking, bool) {
	rows := m.Select(func(b model.Booking) bool { return b.ID == id })
	if len(rows) == 0 {
		return model.Booking{}, false
	}

	return rows[0], true
}

func (m *MemoryBooking) FirstCompletedBookingID(_ context.Context, ownerID string) (string, error) {
	rows := m.Select(func(b model.Booking) bool {
		return b.OwnerID == ownerID && b.Status == model.StatusCompleted && b.CompletedAt != nil
	})
	if len(rows) == 0 {
		return constant.Empty, nil
	}

	first := slices.MinFunc(rows, func(a, b model.Booking) int {
		if c := a.CompletedAt.Compare(*b.CompletedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return first.ID, nil
}

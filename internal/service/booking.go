package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/camaron/internal/database"
	"github.com/jask/camaron/internal/database/repository"
)

var (
	ErrProviderNotFound = errors.New("El proveedor no existe")
	ErrSlotInPast       = errors.New("El horario ya pasó")
	ErrSlotOutsideHours = errors.New("Horario fuera de servicio (08:00 a 18:00)")
	ErrSlotMisaligned   = errors.New("Los horarios empiezan cada media hora")
	ErrSlotTaken        = errors.New("Ese horario ya está reservado")
	ErrBookingNotFound  = errors.New("Reserva no encontrada")
	ErrNotCancellable   = errors.New("La reserva ya no se puede cancelar")
)

const (
	openHour        = 8
	closeHour       = 18
	slotStep        = 30 * time.Minute
	maxSpan         = (closeHour - openHour) * time.Hour
	defaultDuration = 60
)

// BookingRequest is what the review screen submits.
type BookingRequest struct {
	ClientID        string
	ProviderID      string
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           string
}

// BookingService is the local stand-in for the remote bookings API.
type BookingService struct {
	Bookings  *repository.BookingRepo
	Providers *repository.ProviderRepo
	Now       func() time.Time
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Slots lists the start times of day in loc that are still in the future and
// do not overlap an active booking of providerID. An empty providerID skips
// the booking check.
func (s *BookingService) Slots(ctx context.Context, providerID string, day time.Time, loc *time.Location, durationMinutes int) ([]time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if durationMinutes <= 0 {
		durationMinutes = defaultDuration
	}
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, openHour, 0, 0, 0, loc)
	end := time.Date(y, m, d, closeHour, 0, 0, 0, loc)
	dur := time.Duration(durationMinutes) * time.Minute

	var booked []repository.Booking
	if providerID != "" && s.Bookings != nil {
		var err error
		booked, err = s.Bookings.ActiveForProvider(ctx, providerID, start.Add(-maxSpan), end)
		if err != nil {
			return nil, fmt.Errorf("load provider bookings: %w", err)
		}
	}
	now := s.now()
	var out []time.Time
	for t := start; !t.Add(dur).After(end); t = t.Add(slotStep) {
		if t.After(now) && !overlapsAny(booked, t, dur) {
			out = append(out, t)
		}
	}
	return out, nil
}

func overlapsAny(booked []repository.Booking, at time.Time, dur time.Duration) bool {
	for _, b := range booked {
		bEnd := b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
		if b.ScheduledAt.Before(at.Add(dur)) && bEnd.After(at) {
			return true
		}
	}
	return false
}

// Quote returns the price in cents for a provider and duration.
func Quote(p repository.Provider, durationMinutes int) int64 {
	return p.HourlyRateCents * int64(durationMinutes) / 60
}

func (s *BookingService) Create(ctx context.Context, req BookingRequest) (repository.Booking, error) {
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = defaultDuration
	}
	if err := s.checkSlot(req.ScheduledAt, req.DurationMinutes); err != nil {
		return repository.Booking{}, err
	}
	p, err := s.Providers.Get(ctx, req.ProviderID)
	if err != nil {
		return repository.Booking{}, fmt.Errorf("load provider: %w", err)
	}
	if p == nil {
		return repository.Booking{}, ErrProviderNotFound
	}
	dur := time.Duration(req.DurationMinutes) * time.Minute
	booked, err := s.Bookings.ActiveForProvider(ctx, p.ID, req.ScheduledAt.Add(-maxSpan), req.ScheduledAt.Add(dur))
	if err != nil {
		return repository.Booking{}, fmt.Errorf("load provider bookings: %w", err)
	}
	if overlapsAny(booked, req.ScheduledAt, dur) {
		return repository.Booking{}, ErrSlotTaken
	}
	now := database.Stamp(s.now())
	b := repository.Booking{
		ID:              uuid.NewString(),
		ClientID:        req.ClientID,
		ProviderID:      p.ID,
		CategoryID:      p.CategoryID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          repository.BookingPending,
		TotalCents:      Quote(*p, req.DurationMinutes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		b.Notes = &notes
	}
	if err := s.Bookings.Insert(ctx, b); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return repository.Booking{}, ErrSlotTaken
		}
		return repository.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (s *BookingService) ListForUser(ctx context.Context, clientID string) ([]repository.Booking, error) {
	list, err := s.Bookings.ListForClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return list, nil
}

// Cancel cancels a pending or confirmed booking owned by clientID.
func (s *BookingService) Cancel(ctx context.Context, clientID, bookingID string) error {
	b, err := s.Bookings.Get(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if b == nil || b.ClientID != clientID {
		return ErrBookingNotFound
	}
	if b.Status != repository.BookingPending && b.Status != repository.BookingConfirmed {
		return ErrNotCancellable
	}
	if _, err := s.Bookings.UpdateStatus(ctx, bookingID, repository.BookingCancelled, database.Stamp(s.now())); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}

func (s *BookingService) checkSlot(at time.Time, durationMinutes int) error {
	if !at.After(s.now()) {
		return ErrSlotInPast
	}
	if at.Minute()%30 != 0 || at.Second() != 0 || at.Nanosecond() != 0 {
		return ErrSlotMisaligned
	}
	startMin := at.Hour()*60 + at.Minute()
	if at.Hour() < openHour || startMin+durationMinutes > closeHour*60 {
		return ErrSlotOutsideHours
	}
	return nil
}

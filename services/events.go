package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"mingle/client"
	"mingle/models"
)

// EventFilter narrows the event list.
type EventFilter string

const (
	// EventsHosting selects events the current user hosts.
	EventsHosting EventFilter = "HOSTING"
	// EventsGoing selects events the current user is going to or interested in.
	EventsGoing EventFilter = "GOING"
)

// EventService builds requests against the event endpoints.
type EventService struct {
	api *client.Client
}

// CreateEventInput is the event create/update payload.
type CreateEventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// List returns events, optionally filtered by the user's relationship to them.
func (s *EventService) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", string(filter))
	}
	var events []models.Event
	if err := s.api.Get(ctx, "/events", q, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, eventID uint) (*models.Event, error) {
	var e models.Event
	if err := s.api.Get(ctx, fmt.Sprintf("/events/%d", eventID), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	var e models.Event
	if err := s.api.Post(ctx, "/events", input, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventService) Update(ctx context.Context, eventID uint, input CreateEventInput) (*models.Event, error) {
	var e models.Event
	if err := s.api.Put(ctx, fmt.Sprintf("/events/%d", eventID), input, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventService) Delete(ctx context.Context, eventID uint) error {
	return s.api.Delete(ctx, fmt.Sprintf("/events/%d", eventID), nil)
}

// RSVP records the current user's attendance answer.
func (s *EventService) RSVP(ctx context.Context, eventID uint, status models.RSVPStatus) (*models.EventParticipant, error) {
	body := map[string]any{"status": status}
	var p models.EventParticipant
	if err := s.api.Post(ctx, fmt.Sprintf("/events/%d/rsvp", eventID), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Participants lists who responded to the event, optionally by status.
func (s *EventService) Participants(ctx context.Context, eventID uint, statusFilter models.RSVPStatus) ([]models.EventParticipant, error) {
	q := url.Values{}
	if statusFilter != "" {
		q.Set("status", string(statusFilter))
	}
	var participants []models.EventParticipant
	if err := s.api.Get(ctx, fmt.Sprintf("/events/%d/participants", eventID), q, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

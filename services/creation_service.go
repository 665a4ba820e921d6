// File: /services/creation_service.go
package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"fiesta-api/models"
	"fiesta-api/utils"
)

// Session yields the current user id, or "" when nobody is signed in.
type Session interface {
	CurrentUserID() string
}

// SessionFunc adapts a plain function to the Session interface.
type SessionFunc func() string

func (f SessionFunc) CurrentUserID() string { return f() }

// EventAppender is the slice of the event store Submit needs.
type EventAppender interface {
	Append(event *models.Event) (string, error)
}

// ChangeNotifier is poked after a successful append so feed subscribers
// re-snapshot the collection.
type ChangeNotifier interface {
	EventsChanged()
}

// Draft field names accepted by SetField.
const (
	FieldName        = "name"
	FieldDate        = "date"
	FieldStartTime   = "start_time"
	FieldLocation    = "location"
	FieldDressCode   = "dress_code"
	FieldDescription = "description"
)

// Draft is the transient state of an in-progress event form. It is never
// partially persisted: Submit writes the whole record or nothing.
type Draft struct {
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	Location    string  `json:"location"`
	EventType   string  `json:"event_type"`
	DressCode   string  `json:"dress_code"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	MapClicked  bool    `json:"map_clicked"`
	Image       *string `json:"image"`
	Amount      *int64  `json:"amount"`
}

// EventCreation owns one user's draft and dialog state. Open, Close and
// Cancel are the only mutators of the dialog flag; Submit is the only path
// that touches the wallet or the store.
type EventCreation struct {
	mu           sync.Mutex
	draft        Draft
	open         bool
	lastActivity time.Time

	session  Session
	wallet   *WalletService
	events   EventAppender
	notifier ChangeNotifier
}

func NewEventCreation(session Session, wallet *WalletService, events EventAppender, notifier ChangeNotifier) *EventCreation {
	return &EventCreation{
		session:      session,
		wallet:       wallet,
		events:       events,
		notifier:     notifier,
		lastActivity: time.Now(),
	}
}

func (ec *EventCreation) Open() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()
	ec.open = true
}

func (ec *EventCreation) Close() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()
	ec.open = false
}

// Cancel discards the draft and closes the dialog. It cannot abort a Submit
// whose remote calls have already started.
func (ec *EventCreation) Cancel() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()
	ec.draft = Draft{}
	ec.open = false
}

func (ec *EventCreation) IsOpen() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.open
}

// Snapshot returns a copy of the current draft.
func (ec *EventCreation) Snapshot() Draft {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.draft
}

// SetField updates one free-text draft field.
func (ec *EventCreation) SetField(field, value string) error {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()

	switch field {
	case FieldName:
		ec.draft.Name = value
	case FieldDate:
		ec.draft.Date = value
	case FieldStartTime:
		ec.draft.StartTime = value
	case FieldLocation:
		ec.draft.Location = value
	case FieldDressCode:
		ec.draft.DressCode = value
	case FieldDescription:
		ec.draft.Description = value
	default:
		return fmt.Errorf("unknown draft field %q", field)
	}
	return nil
}

// SetEventType stores the type and resolves its catalog cover image.
func (ec *EventCreation) SetEventType(eventType string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()
	ec.draft.EventType = eventType
	ec.draft.Image = utils.EventImage(eventType)
}

func (ec *EventCreation) SetAmount(amount int64) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()
	ec.draft.Amount = &amount
}

// HandleMapClick records the picked coordinates. Last click wins.
func (ec *EventCreation) HandleMapClick(lat, lng float64) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()
	ec.draft.Lat = lat
	ec.draft.Lng = lng
	ec.draft.MapClicked = true
}

// Submit validates the draft, reserves the creator's funds and appends the
// event record. Checks run in a fixed order and the first failure wins; the
// wallet and the store are only reached once all local checks have passed.
// Every failure leaves the draft intact; success clears it and closes the
// dialog.
func (ec *EventCreation) Submit() (string, error) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.touch()

	d := ec.draft

	if !d.MapClicked {
		return "", ErrLocationNotSet
	}

	if d.Name == "" || d.Date == "" || d.StartTime == "" || d.Location == "" ||
		d.EventType == "" || d.DressCode == "" || d.Description == "" || d.Amount == nil {
		return "", ErrMissingFields
	}

	if *d.Amount < 1 {
		return "", ErrAmountTooLow
	}

	userID := ec.session.CurrentUserID()
	if userID == "" {
		return "", ErrNotAuthenticated
	}

	if err := ec.wallet.Reserve(userID, *d.Amount); err != nil {
		return "", err
	}

	event := &models.Event{
		Name:        d.Name,
		Date:        d.Date,
		StartTime:   d.StartTime,
		Location:    d.Location,
		Coordinates: models.Coordinates{Lat: d.Lat, Lng: d.Lng},
		EventType:   d.EventType,
		DressCode:   d.DressCode,
		Description: d.Description,
		CreatorID:   userID,
		Image:       d.Image,
		Amount:      *d.Amount,
	}

	id, err := ec.events.Append(event)
	if err != nil {
		// Compensate the debit before surfacing the failure
		if refundErr := ec.wallet.Refund(userID, *d.Amount); refundErr != nil {
			log.Printf("Failed to refund %d units to %s after append failure: %v", *d.Amount, userID, refundErr)
		}
		return "", fmt.Errorf("failed to persist event: %w", err)
	}

	if ec.notifier != nil {
		ec.notifier.EventsChanged()
	}

	ec.draft = Draft{}
	ec.open = false

	return id, nil
}

// touch must be called with the mutex held.
func (ec *EventCreation) touch() {
	ec.lastActivity = time.Now()
}

func (ec *EventCreation) idleSince() time.Time {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.lastActivity
}

// DraftRegistry hands out one EventCreation per user and drops the ones that
// have gone idle.
type DraftRegistry struct {
	mu       sync.Mutex
	drafts   map[string]*EventCreation
	wallet   *WalletService
	events   EventAppender
	notifier ChangeNotifier
}

func NewDraftRegistry(wallet *WalletService, events EventAppender, notifier ChangeNotifier) *DraftRegistry {
	return &DraftRegistry{
		drafts:   make(map[string]*EventCreation),
		wallet:   wallet,
		events:   events,
		notifier: notifier,
	}
}

// For returns the draft controller for a user, creating it on first use. The
// controller's session always resolves to that user.
func (r *DraftRegistry) For(userID string) *EventCreation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ec, ok := r.drafts[userID]; ok {
		return ec
	}

	ec := NewEventCreation(SessionFunc(func() string { return userID }), r.wallet, r.events, r.notifier)
	r.drafts[userID] = ec
	return ec
}

// Sweep drops controllers idle for longer than ttl and reports how many were
// removed.
func (r *DraftRegistry) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for userID, ec := range r.drafts {
		if ec.idleSince().Before(cutoff) {
			delete(r.drafts, userID)
			removed++
		}
	}
	return removed
}

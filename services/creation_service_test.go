// File: /services/creation_service_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"fiesta-api/models"
	"fiesta-api/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifierRecorder struct {
	calls int
}

func (n *notifierRecorder) EventsChanged() { n.calls++ }

type failingStore struct{}

func (failingStore) Append(*models.Event) (string, error) {
	return "", errors.New("store is down")
}

func session(userID string) Session {
	return SessionFunc(func() string { return userID })
}

// fillDraft populates every required field plus the map click.
func fillDraft(ec *EventCreation, amount int64) {
	ec.SetField(FieldName, "Rooftop Halloween")
	ec.SetField(FieldDate, "2026-10-31")
	ec.SetField(FieldStartTime, "20:00")
	ec.SetField(FieldLocation, "Downtown rooftop")
	ec.SetEventType("Halloween")
	ec.SetField(FieldDressCode, "Costume required")
	ec.SetField(FieldDescription, "Costumes and music")
	ec.SetAmount(amount)
	ec.HandleMapClick(3.405, -76.49)
}

func TestEventCreation_SubmitValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(ec *EventCreation)
		wantErr error
	}{
		{
			name:    "location first, even with everything else missing",
			prepare: func(ec *EventCreation) {},
			wantErr: ErrLocationNotSet,
		},
		{
			name: "missing fields after location is set",
			prepare: func(ec *EventCreation) {
				ec.HandleMapClick(3.405, -76.49)
				ec.SetField(FieldName, "Party")
			},
			wantErr: ErrMissingFields,
		},
		{
			name: "amount missing counts as missing fields",
			prepare: func(ec *EventCreation) {
				fillDraft(ec, 10)
				ec.draft.Amount = nil
			},
			wantErr: ErrMissingFields,
		},
		{
			name: "amount below one rejected after field check",
			prepare: func(ec *EventCreation) {
				fillDraft(ec, 0)
			},
			wantErr: ErrAmountTooLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			seedUser(t, db, "user-1", 100)
			ec := NewEventCreation(session("user-1"), NewWalletService(db), repositories.NewEventRepository(db), nil)

			tt.prepare(ec)
			_, err := ec.Submit()

			require.ErrorIs(t, err, tt.wantErr)
			// Validation failures must not touch the store
			assert.Equal(t, int64(0), eventCount(t, db))
			assert.Equal(t, int64(100), userBalance(t, db, "user-1"))
		})
	}
}

func TestEventCreation_SubmitRequiresSession(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", 100)
	ec := NewEventCreation(session(""), NewWalletService(db), repositories.NewEventRepository(db), nil)

	fillDraft(ec, 10)
	_, err := ec.Submit()

	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, int64(0), eventCount(t, db))
}

func TestEventCreation_SubmitSuccess(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", 100)
	notifier := &notifierRecorder{}
	ec := NewEventCreation(session("user-1"), NewWalletService(db), repositories.NewEventRepository(db), notifier)

	ec.Open()
	fillDraft(ec, 30)

	id, err := ec.Submit()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Exactly one record, with the reserved amount and resolved image
	var event models.Event
	require.NoError(t, db.First(&event, "id = ?", id).Error)
	assert.Equal(t, "user-1", event.CreatorID)
	assert.Equal(t, int64(30), event.Amount)
	assert.Equal(t, models.Coordinates{Lat: 3.405, Lng: -76.49}, event.Coordinates)
	require.NotNil(t, event.Image)
	assert.Equal(t, int64(1), eventCount(t, db))

	assert.Equal(t, int64(70), userBalance(t, db, "user-1"))
	assert.Equal(t, 1, notifier.calls)

	// Draft cleared and dialog closed
	assert.Equal(t, Draft{}, ec.Snapshot())
	assert.False(t, ec.IsOpen())
}

func TestEventCreation_SubmitInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", 20)
	ec := NewEventCreation(session("user-1"), NewWalletService(db), repositories.NewEventRepository(db), nil)

	fillDraft(ec, 30)
	_, err := ec.Submit()

	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(20), userBalance(t, db, "user-1"))
	assert.Equal(t, int64(0), eventCount(t, db))

	// Draft survives the failure
	snapshot := ec.Snapshot()
	assert.Equal(t, "Rooftop Halloween", snapshot.Name)
	require.NotNil(t, snapshot.Amount)
}

func TestEventCreation_AppendFailureRefunds(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", 100)
	ec := NewEventCreation(session("user-1"), NewWalletService(db), failingStore{}, nil)

	fillDraft(ec, 30)
	_, err := ec.Submit()

	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInsufficientFunds)
	// The debit was compensated
	assert.Equal(t, int64(100), userBalance(t, db, "user-1"))
}

func TestEventCreation_CancelThenResubmit(t *testing.T) {
	// A cancelled attempt leaves no residue: re-entering the same values
	// behaves exactly like a first-time submission.
	db := newTestDB(t)
	seedUser(t, db, "user-1", 100)
	ec := NewEventCreation(session("user-1"), NewWalletService(db), repositories.NewEventRepository(db), nil)

	ec.Open()
	fillDraft(ec, 30)
	ec.Cancel()

	assert.Equal(t, Draft{}, ec.Snapshot())
	assert.False(t, ec.IsOpen())

	ec.Open()
	fillDraft(ec, 30)
	id, err := ec.Submit()

	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, int64(70), userBalance(t, db, "user-1"))
	assert.Equal(t, int64(1), eventCount(t, db))
}

func TestEventCreation_SetField(t *testing.T) {
	ec := NewEventCreation(session("user-1"), nil, nil, nil)

	require.NoError(t, ec.SetField(FieldName, "Party"))
	assert.Equal(t, "Party", ec.Snapshot().Name)

	err := ec.SetField("bogus", "value")
	require.Error(t, err)
}

func TestEventCreation_SetEventTypeResolvesImage(t *testing.T) {
	ec := NewEventCreation(session("user-1"), nil, nil, nil)

	ec.SetEventType("Wedding")
	require.NotNil(t, ec.Snapshot().Image)

	ec.SetEventType("Other")
	assert.Nil(t, ec.Snapshot().Image)
}

func TestEventCreation_MapClickLastWriteWins(t *testing.T) {
	ec := NewEventCreation(session("user-1"), nil, nil, nil)

	ec.HandleMapClick(1, 2)
	ec.HandleMapClick(3.5, -4.5)

	snapshot := ec.Snapshot()
	assert.True(t, snapshot.MapClicked)
	assert.Equal(t, 3.5, snapshot.Lat)
	assert.Equal(t, -4.5, snapshot.Lng)
}

func TestDraftRegistry(t *testing.T) {
	db := newTestDB(t)
	registry := NewDraftRegistry(NewWalletService(db), repositories.NewEventRepository(db), nil)

	first := registry.For("user-1")
	assert.Same(t, first, registry.For("user-1"))
	assert.NotSame(t, first, registry.For("user-2"))

	// Nothing is idle yet
	assert.Equal(t, 0, registry.Sweep(time.Minute))

	// Age one controller past the TTL
	first.lastActivity = time.Now().Add(-2 * time.Hour)
	assert.Equal(t, 1, registry.Sweep(time.Minute))
	assert.NotSame(t, first, registry.For("user-1"))
}

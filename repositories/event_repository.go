// File: /repositories/event_repository.go
package repositories

import (
	"errors"
	"fmt"

	"fiesta-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

// EventRepository is the store surface for event records: point reads,
// appends with server-assigned ids, and full collection scans. Events are
// never updated or deleted.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append persists a new event record and returns its server-assigned id.
func (r *EventRepository) Append(event *models.Event) (string, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if err := r.db.Create(event).Error; err != nil {
		return "", fmt.Errorf("failed to append event: %w", err)
	}

	return event.ID, nil
}

// GetByID fetches a single event record.
func (r *EventRepository) GetByID(id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &event, nil
}

// ListAll scans the whole collection in creation order. Feed snapshots are
// built from this and filtered in memory.
func (r *EventRepository) ListAll() ([]models.Event, error) {
	var events []models.Event
	if err := r.db.Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListByCreator returns the events one user has created.
func (r *EventRepository) ListByCreator(creatorID string) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.Where("creator_id = ?", creatorID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events by creator: %w", err)
	}
	return events, nil
}

// File: /controllers/event_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fiesta-api/models"
	"fiesta-api/repositories"
	"fiesta-api/services"
	"fiesta-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventController struct {
	db           *gorm.DB
	events       *repositories.EventRepository
	drafts       *services.DraftRegistry
	emailService *services.EmailService
}

func NewEventController(db *gorm.DB, events *repositories.EventRepository, drafts *services.DraftRegistry, emailService *services.EmailService) *EventController {
	return &EventController{
		db:           db,
		events:       events,
		drafts:       drafts,
		emailService: emailService,
	}
}

func (ec *EventController) GetEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	all, err := ec.events.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	// Guests never see their own events in the listing either
	if c.DefaultQuery("exclude_own", "true") == "true" {
		userID := c.GetString("user_id")
		visible := make([]models.Event, 0, len(all))
		for _, event := range all {
			if event.CreatorID != userID {
				visible = append(visible, event)
			}
		}
		all = visible
	}

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	c.JSON(http.StatusOK, gin.H{
		"events": all[start:end],
		"total":  len(all),
		"page":   page,
		"limit":  limit,
	})
}

func (ec *EventController) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	event, err := ec.events.GetByID(eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (ec *EventController) GetCreatedEvents(c *gin.Context) {
	userID := c.GetString("user_id")

	events, err := ec.events.ListByCreator(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch created events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// Draft endpoints. Each authenticated user has exactly one server-side draft.

func (ec *EventController) OpenDraft(c *gin.Context) {
	draft := ec.drafts.For(c.GetString("user_id"))
	draft.Open()
	utils.SendSuccess(c, "Draft opened", draft.Snapshot())
}

func (ec *EventController) CloseDraft(c *gin.Context) {
	draft := ec.drafts.For(c.GetString("user_id"))
	draft.Close()
	utils.SendSuccess(c, "Draft closed", nil)
}

func (ec *EventController) GetDraft(c *gin.Context) {
	draft := ec.drafts.For(c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"open": draft.IsOpen(), "draft": draft.Snapshot()})
}

func (ec *EventController) CancelDraft(c *gin.Context) {
	draft := ec.drafts.For(c.GetString("user_id"))
	draft.Cancel()
	utils.SendSuccess(c, "Draft discarded", nil)
}

type UpdateDraftRequest struct {
	Name        *string `json:"name"`
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
	Location    *string `json:"location"`
	EventType   *string `json:"event_type"`
	DressCode   *string `json:"dress_code"`
	Description *string `json:"description"`
	Amount      *int64  `json:"amount"`
}

func (ec *EventController) UpdateDraft(c *gin.Context) {
	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := ec.drafts.For(c.GetString("user_id"))

	fields := map[string]*string{
		services.FieldName:        req.Name,
		services.FieldDate:        req.Date,
		services.FieldStartTime:   req.StartTime,
		services.FieldLocation:    req.Location,
		services.FieldDressCode:   req.DressCode,
		services.FieldDescription: req.Description,
	}
	for field, value := range fields {
		if value == nil {
			continue
		}
		if err := draft.SetField(field, *value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.EventType != nil {
		draft.SetEventType(*req.EventType)
	}
	if req.Amount != nil {
		draft.SetAmount(*req.Amount)
	}

	utils.SendSuccess(c, "Draft updated", draft.Snapshot())
}

type MapClickRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

func (ec *EventController) SetDraftLocation(c *gin.Context) {
	var req MapClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.IsValidLatitude(req.Lat) || !utils.IsValidLongitude(req.Lng) {
		utils.SendValidationError(c, "Coordinates out of range")
		return
	}

	draft := ec.drafts.For(c.GetString("user_id"))
	draft.HandleMapClick(req.Lat, req.Lng)

	utils.SendSuccess(c, "Location set", draft.Snapshot())
}

func (ec *EventController) SubmitDraft(c *gin.Context) {
	userID := c.GetString("user_id")
	draft := ec.drafts.For(userID)
	snapshot := draft.Snapshot()

	eventID, err := draft.Submit()
	if err != nil {
		ec.sendSubmitError(c, err)
		return
	}

	// Receipt is best effort; the event already exists
	go ec.sendReceipt(userID, snapshot.Name, snapshot.Amount)

	event, loadErr := ec.events.GetByID(eventID)
	if loadErr != nil {
		utils.SendCreated(c, "Event created successfully", gin.H{"id": eventID})
		return
	}

	utils.SendCreated(c, "Event created successfully", event)
}

func (ec *EventController) sendSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLocationNotSet):
		utils.SendError(c, http.StatusBadRequest, "Please set the location on the map.")
	case errors.Is(err, services.ErrMissingFields):
		utils.SendError(c, http.StatusBadRequest, "Please complete all the required fields.")
	case errors.Is(err, services.ErrAmountTooLow):
		utils.SendError(c, http.StatusBadRequest, "The amount must be at least 1.")
	case errors.Is(err, services.ErrNotAuthenticated):
		utils.SendError(c, http.StatusUnauthorized, "User not authenticated.")
	case errors.Is(err, services.ErrUserNotFound):
		utils.SendError(c, http.StatusNotFound, "User data not found.")
	case errors.Is(err, services.ErrInsufficientFunds):
		utils.SendError(c, http.StatusPaymentRequired, "Insufficient funds.")
	case errors.Is(err, services.ErrConcurrentModification):
		utils.SendError(c, http.StatusConflict, "Your balance changed while submitting. Please try again.")
	default:
		utils.SendError(c, http.StatusInternalServerError, "Failed to create event.")
	}
}

func (ec *EventController) sendReceipt(userID, eventName string, amount *int64) {
	if ec.emailService == nil || amount == nil {
		return
	}

	var user models.User
	if err := ec.db.First(&user, "id = ?", userID).Error; err != nil {
		fmt.Printf("Failed to load user %s for receipt email: %v\n", userID, err)
		return
	}

	if err := ec.emailService.SendReservationReceipt(user.Email, user.Name, eventName, *amount); err != nil {
		fmt.Printf("Failed to send receipt email: %v\n", err)
	}
}

// File: /controllers/feed_controller.go
package controllers

import (
	"io"
	"log"

	"fiesta-api/models"
	"fiesta-api/services"
	"fiesta-api/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"
)

// defaultViewportWidth is assumed until the client reports a real width.
const defaultViewportWidth = 1024

type FeedController struct {
	hub *services.FeedHub
}

func NewFeedController(hub *services.FeedHub) *FeedController {
	return &FeedController{hub: hub}
}

// viewportFrame is what the client pushes whenever its window resizes.
type viewportFrame struct {
	Type  string `json:"type"`
	Width int    `json:"width"`
}

// snapshotFrame carries a full feed replacement plus the carousel layout for
// the client's current viewport.
type snapshotFrame struct {
	Type          string         `json:"type"`
	Events        []models.Event `json:"events"`
	Total         int            `json:"total"`
	SlidesPerView int            `json:"slides_per_view"`
	Loop          bool           `json:"loop"`
}

// Stream upgrades the request to a websocket and serves feed snapshots until
// the client goes away. The subscribing user's own events never appear.
func (fc *FeedController) Stream(c *gin.Context) {
	userID := c.GetString("user_id")

	handler := websocket.Handler(func(conn *websocket.Conn) {
		fc.serve(conn, userID)
	})
	handler.ServeHTTP(c.Writer, c.Request)
}

func (fc *FeedController) serve(conn *websocket.Conn, userID string) {
	sub := fc.hub.Subscribe(userID)
	defer sub.Close()

	quit := make(chan struct{})
	defer close(quit)

	// Reader goroutine: viewport frames in, connection teardown out
	resize := make(chan int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var frame viewportFrame
			if err := websocket.JSON.Receive(conn, &frame); err != nil {
				if err != io.EOF {
					log.Printf("Feed read error for %s: %v", userID, err)
				}
				return
			}
			if frame.Type == "viewport" && frame.Width > 0 {
				select {
				case resize <- frame.Width:
				case <-quit:
					return
				}
			}
		}
	}()

	width := defaultViewportWidth
	var latest []models.Event
	loaded := false

	for {
		select {
		case snapshot, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			latest = snapshot
			loaded = true
			if err := fc.send(conn, latest, width); err != nil {
				return
			}
		case w := <-resize:
			width = w
			// Re-layout only; nothing to show before the first snapshot
			if loaded {
				if err := fc.send(conn, latest, width); err != nil {
					return
				}
			}
		case <-done:
			return
		}
	}
}

func (fc *FeedController) send(conn *websocket.Conn, events []models.Event, width int) error {
	total := len(events)
	requested := utils.SlidesPerView(width)

	frame := snapshotFrame{
		Type:          "snapshot",
		Events:        events,
		Total:         total,
		SlidesPerView: utils.VisibleSlides(requested, total),
		Loop:          utils.LoopEnabled(total),
	}

	return websocket.JSON.Send(conn, frame)
}

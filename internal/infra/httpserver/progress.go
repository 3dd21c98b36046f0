package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
	"github.com/bryanwahyu/accessiscan/internal/middleware"
)

const writeWait = 10 * time.Second

// Message is one frame of the progress stream.
type Message struct {
	Type      string      `json:"type"`
	Session   string      `json:"session"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Frame types.
const (
	MessageStatus   = "status"
	MessageProgress = "progress"
	MessageDone     = "done"
	MessageError    = "error"
)

func (r *Router) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(req *http.Request) bool {
			origin := req.Header.Get("Origin")
			return origin == "" || slices.Contains(r.origins, "*") || slices.Contains(r.origins, origin)
		},
	}
}

// GET /v1/scans/{id}/progress
//
// Streams status and progress frames until the scan is terminal, then a
// done or error frame. Closing the socket stops the poll.
func (r *Router) handleProgress(w http.ResponseWriter, req *http.Request) {
	id, err := scanIDParam(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := r.upgrader().Upgrade(w, req, nil)
	if err != nil {
		log.Printf("request_id=%s msg=\"websocket upgrade failed\" err=%v", middleware.RequestID(req.Context()), err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	log.Printf("session=%s scan=%s msg=\"progress stream opened\"", session, id)
	defer log.Printf("session=%s scan=%s msg=\"progress stream closed\"", session, id)

	// The request context is not cancelled on hijacked connections, so the
	// reader goroutine is what notices the client going away.
	ctx, cancel := context.WithCancel(r.watchers.ctx)
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Only this goroutine writes to conn.
	send := func(typ string, data interface{}) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		msg := Message{Type: typ, Session: session, Data: data, Timestamp: time.Now().Unix()}
		if err := conn.WriteJSON(msg); err != nil {
			cancel()
			return false
		}
		return true
	}

	tracker := domain.NewProgressTracker()
	scan, err := r.scansSvc.Watch(ctx, id, func(s *domain.Scan) {
		if !send(MessageStatus, s) {
			return
		}
		for _, m := range tracker.Observe(s.Status, time.Now().UTC()) {
			if !send(MessageProgress, m) {
				return
			}
		}
	})

	switch {
	case err == nil:
		send(MessageDone, map[string]interface{}{"status": scan.Status, "score": scan.Score})
	case errors.Is(err, domain.ErrScanFailed):
		send(MessageError, map[string]string{"status": string(domain.StatusFailed), "message": err.Error()})
	case ctx.Err() != nil:
		return
	default:
		send(MessageError, map[string]string{"message": err.Error()})
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamBuffer is the number of pending events kept per subscriber.
const StreamBuffer = 10

// StreamManager fans project events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // project -> set of channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.Default(),
	}
}

// Subscribe registers a channel for the events of project. The returned
// function unregisters and closes it.
func (sm *StreamManager) Subscribe(project string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, StreamBuffer)
	if _, ok := sm.subscribers[project]; !ok {
		sm.subscribers[project] = make(map[chan<- string]struct{})
	}
	sm.subscribers[project][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[project]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, project)
				}
			}
		})
	}
}

// Subscribers returns the number of open subscriptions to project.
func (sm *StreamManager) Subscribers(project string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[project])
}

// Broadcast sends msg to every subscriber of project. Slow subscribers miss it.
func (sm *StreamManager) Broadcast(project string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[project] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "project", project)
		}
	}
}

// Hooks publishes mutation events, successful or not, to the subscribers of
// the mutated project.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			payload := struct {
				*domain.MutationEvent
				Error string `json:"error,omitempty"`
			}{MutationEvent: e}
			if e.Err != nil {
				payload.Error = e.Err.Error()
			}
			data, err := json.Marshal(payload)
			if err != nil {
				sm.logger.Error("SSE: encode event", "err", err)
				return
			}
			sm.Broadcast(e.Project, string(data))
		},
	}
}

// SubscribeEvents handles GET /projects/{project}/events. The optional "ops"
// query parameter takes a comma separated list of operations to forward.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	project := chi.URLParam(r, "project")
	if err := domain.ValidateProjectName(project); err != nil {
		s.fail(w, r, err)
		return
	}

	var ops []string
	if v := r.URL.Query().Get("ops"); v != "" {
		for _, op := range strings.Split(v, ",") {
			if op = strings.TrimSpace(op); op != "" {
				ops = append(ops, op)
			}
		}
	}

	ch, cancel := s.Streams.Subscribe(project)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(ops) > 0 && !slices.Contains(ops, eventOp(msg)) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func eventOp(msg string) string {
	var e struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal([]byte(msg), &e); err != nil {
		return ""
	}
	return e.Op
}

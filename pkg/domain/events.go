package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventProjectLoad EventType = "project_load"
	EventProjectSave EventType = "project_save"
	EventMutation    EventType = "mutation"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Project   string    `json:"project"`
}

// ProjectEvent is emitted when a project archive is read from or written to a store.
type ProjectEvent struct {
	EventBase
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// MutationEvent is emitted after a tree mutation, successful or not.
type MutationEvent struct {
	EventBase
	Op       string        `json:"op"`
	Path     string        `json:"path,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for workspace observability.
type LifecycleHooks struct {
	OnLoad     func(context.Context, *ProjectEvent)
	OnSave     func(context.Context, *ProjectEvent)
	OnMutation func(context.Context, *MutationEvent)
}

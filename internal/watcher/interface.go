package watcher

import "context"

// Watcher monitors a drop folder for new meeting recordings
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles a newly dropped recording
type EventHandler func(ctx context.Context, filePath string) error

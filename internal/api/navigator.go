package api

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Navigator records the surface the UI must navigate to after a session
// change. The UI collects it with the next GET /session.
type Navigator struct {
	mu      sync.Mutex
	pending string
	log     zerolog.Logger
}

func NewNavigator(log zerolog.Logger) *Navigator {
	return &Navigator{log: log}
}

// Redirect implements ports.Navigator.
func (n *Navigator) Redirect(_ context.Context, destination string) {
	n.mu.Lock()
	n.pending = destination
	n.mu.Unlock()

	n.log.Info().Str("destination", destination).Msg("navigation requested")
}

// Take returns and clears the pending destination.
func (n *Navigator) Take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	dest := n.pending
	n.pending = ""
	return dest
}

package gemini

import (
	"fmt"
	"log/slog"
	"sync"
)

// Selector rotates requests round-robin across the configured clients and
// fails over to the remaining ones when a key is rate limited or erroring.
type Selector struct {
	clients []*Client
	current int
	mutex   sync.Mutex
}

func NewSelector(clients []*Client) *Selector {
	return &Selector{clients: clients}
}

func (s *Selector) next() (*Client, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.clients) == 0 {
		return nil, -1
	}
	client := s.clients[s.current]
	index := s.current
	s.current = (s.current + 1) % len(s.clients)
	return client, index
}

func (s *Selector) Count() int {
	return len(s.clients)
}

// TryAll runs operation against each client in rotation order until one
// succeeds. The returned error wraps the last failure once every client has
// been exhausted.
func (s *Selector) TryAll(operation func(client *Client, idx int) error) error {
	count := s.Count()
	if count == 0 {
		return fmt.Errorf("no Gemini clients available")
	}

	var lastErr error
	for attempt := 0; attempt < count; attempt++ {
		client, idx := s.next()
		err := operation(client, idx)
		if err == nil {
			return nil
		}
		lastErr = err
		slog.Warn("Gemini request failed, trying next client",
			"client_index", idx,
			"attempt", attempt+1,
			"total_clients", count,
			"error", err)
	}

	slog.Error("all Gemini clients exhausted", "total_clients", count)
	return fmt.Errorf("all %d Gemini clients failed: %w", count, lastErr)
}

func (s *Selector) CloseAll() {
	for _, c := range s.clients {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close Gemini client", "error", err)
		}
	}
}

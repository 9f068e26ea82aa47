package providers

import (
	"context"
	"sync"

	"github.com/brandlens/brandlens/internal/models"
)

// Client is one answer-engine integration. Fetch runs the query against the
// engine and fills the matching slot of the answer set; the other slots are
// left untouched.
type Client interface {
	Provider() models.Provider
	Validate() error
	Fetch(ctx context.Context, query string, out *models.ProviderAnswerSet) error
}

// Registry manages the registered answer-engine clients
type Registry struct {
	mu      sync.RWMutex
	clients map[models.Provider]Client
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[models.Provider]Client),
	}
}

// Register adds a client to the registry, replacing any previous client for
// the same provider
func (r *Registry) Register(client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.Provider()] = client
}

// Get returns the client for the given provider
func (r *Registry) Get(provider models.Provider) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[provider]
	return client, ok
}

// List returns the registered clients in canonical provider order
func (r *Registry) List() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var clients []Client
	for _, provider := range models.AllProviders {
		if client, ok := r.clients[provider]; ok {
			clients = append(clients, client)
		}
	}
	return clients
}

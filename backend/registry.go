package backend

import (
	"sync"

	"github.com/kiwi-automation/kiwi/utils"
)

// Registry tracks open clients so they can be closed on shutdown.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Register adds c, replacing any client previously registered for the same
// URL.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.clients[c.URL()]; ok && prev != c {
		prev.Close()
	}
	r.clients[c.URL()] = c
}

// Get returns the client registered for url.
func (r *Registry) Get(url string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[url]
	return c, ok
}

// CloseAll closes every registered client and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for url, c := range r.clients {
		utils.Verbose("Closing backend client %s", url)
		c.Close()
	}

	r.clients = make(map[string]*Client)
}

package memoryRepo

import (
	"sync"

	"artisthub/models"
)

// Store keeps artists, orders and users in process memory.
// Reads hand out copies; every write happens under the write lock.
type Store struct {
	mu sync.RWMutex

	providers     map[string]*models.Provider
	providerOrder []string
	providerEmail map[string]string

	orders     []*models.Order
	orderIndex map[string]*models.Order

	users     map[string]*models.User
	userEmail map[string]string
}

func NewStore() *Store {
	return &Store{
		providers:     make(map[string]*models.Provider),
		providerEmail: make(map[string]string),
		orderIndex:    make(map[string]*models.Order),
		users:         make(map[string]*models.User),
		userEmail:     make(map[string]string),
	}
}

// Providers returns the artist repository view of the store.
func (s *Store) Providers() *ProviderRepo { return &ProviderRepo{s: s} }

// Orders returns the order repository view of the store.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Users returns the customer repository view of the store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	return &cp
}

package internal

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

var _ IRepository = (*MemoryRepository)(nil)

// MemoryRepository keeps orders in process. Every write holds the lock for
// the whole check-and-set, which gives it the same atomicity as the SQL store.
type MemoryRepository struct {
	mu        sync.RWMutex
	pricing   model.PricingTable
	nextID    int
	byID      map[int]model.Order
	byReceipt map[string]int
	now       func() time.Time
}

func NewMemoryRepository(pricing model.PricingTable) *MemoryRepository {
	return &MemoryRepository{
		pricing:   pricing,
		nextID:    1,
		byID:      make(map[int]model.Order),
		byReceipt: make(map[string]int),
		now:       time.Now,
	}
}

func (m *MemoryRepository) Insert(_ context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byReceipt[o.ReceiptNumber]; ok {
		return model.Order{}, ErrDuplicateReceiptNumber
	}

	o.ID = m.nextID
	m.nextID++
	o.CreatedAt = m.now().UTC()
	o.CollectionDate = nil

	m.byID[o.ID] = o
	m.byReceipt[o.ReceiptNumber] = o.ID
	return copyOrder(o), nil
}

func (m *MemoryRepository) FindByID(_ context.Context, id int) (model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.byID[id]
	if !ok {
		return model.Order{}, ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *MemoryRepository) FindByReceiptNumber(_ context.Context, receiptNumber string) (model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byReceipt[receiptNumber]
	if !ok {
		return model.Order{}, ErrNotFound
	}
	return copyOrder(m.byID[id]), nil
}

func (m *MemoryRepository) Update(_ context.Context, id int, patch model.OrderPatch) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.byID[id]
	if !ok {
		return model.Order{}, ErrNotFound
	}

	o, err := applyPatch(o, patch, m.pricing)
	if err != nil {
		return model.Order{}, err
	}
	m.byID[id] = o
	return copyOrder(o), nil
}

func (m *MemoryRepository) MarkCollected(_ context.Context, receiptNumber string, at time.Time) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byReceipt[receiptNumber]
	if !ok {
		return model.Order{}, ErrOrderNotFound
	}
	o := m.byID[id]
	if o.IsCollected() {
		return model.Order{}, ErrAlreadyCollected
	}

	o.CollectionDate = &at
	m.byID[id] = o
	return copyOrder(o), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byReceipt, o.ReceiptNumber)
	return nil
}

func (m *MemoryRepository) ListAll(_ context.Context, f model.OrderFilter) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]model.Order, 0, len(m.byID))
	for _, o := range m.byID {
		if f.Match(o) {
			orders = append(orders, copyOrder(o))
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (m *MemoryRepository) LastReceiptNumber(_ context.Context, prefix string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	last := ""
	for receipt := range m.byReceipt {
		if strings.HasPrefix(receipt, prefix) && receipt > last {
			last = receipt
		}
	}
	return last, nil
}

// copyOrder detaches the collection date pointer from the stored value.
func copyOrder(o model.Order) model.Order {
	if o.CollectionDate != nil {
		t := *o.CollectionDate
		o.CollectionDate = &t
	}
	return o
}

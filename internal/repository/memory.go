package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/deppfellow/cars-api/internal/model"
)

// MemoryCarRepository is a thread-safe in-memory CarRepository used by
// tests. Ids start at 1 and are never reused.
type MemoryCarRepository struct {
	mu     sync.RWMutex
	nextID int
	cars   map[int]model.Car
}

var _ CarRepository = (*MemoryCarRepository)(nil)

func NewMemoryCarRepository() *MemoryCarRepository {
	return &MemoryCarRepository{
		nextID: 1,
		cars:   make(map[int]model.Car),
	}
}

func (m *MemoryCarRepository) Create(ctx context.Context, car model.Car) (model.Car, error) {
	if err := ctx.Err(); err != nil {
		return model.Car{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	car.ID = m.nextID
	m.nextID++
	m.cars[car.ID] = car

	return car, nil
}

func (m *MemoryCarRepository) ListAll(ctx context.Context) ([]model.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	cars := make([]model.Car, 0, len(m.cars))
	for _, car := range m.cars {
		cars = append(cars, car)
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID < cars[j].ID })

	return cars, nil
}

func (m *MemoryCarRepository) GetByID(ctx context.Context, id int) (*model.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	car, ok := m.cars[id]
	if !ok {
		return nil, nil
	}
	return &car, nil
}

func (m *MemoryCarRepository) Update(ctx context.Context, car model.Car) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cars[car.ID]; !ok {
		return UpdateResult{Status: UpdateNotFound}, nil
	}
	m.cars[car.ID] = car

	return UpdateResult{Status: UpdateApplied, Car: car}, nil
}

func (m *MemoryCarRepository) Delete(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cars[id]; !ok {
		return false, nil
	}
	delete(m.cars, id)

	return true, nil
}

// Package mock holds in-memory repository fakes for handler tests.
package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/inspections/pkg/models"
	"github.com/garnizeh/inspections/pkg/repository"
)

var _ repository.EngineerRepo = (*EngineerRepo)(nil)

// Test helpers and mocks
type Mocks struct {
	EngRepo *EngineerRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		EngRepo: &EngineerRepo{},
	}
}

// EngineerRepo stores at most one engineer. Setting CreateErr, GetErr or
// UpdateErr makes the corresponding calls fail.
type EngineerRepo struct {
	mu        sync.Mutex
	Stored    *models.Engineer
	CreateErr error
	GetErr    error
	UpdateErr error
}

func (m *EngineerRepo) CreateEngineer(ctx context.Context, e *models.Engineer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = &models.Engineer{ID: 1, Name: e.Name, Email: e.Email, Role: "engineer", PasswordHash: e.PasswordHash}
	return 1, nil
}

func (m *EngineerRepo) GetByID(ctx context.Context, id int64) (*models.Engineer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *EngineerRepo) GetByEmail(ctx context.Context, email string) (*models.Engineer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *EngineerRepo) UpdateEngineer(ctx context.Context, e *models.Engineer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Stored = e
	return nil
}

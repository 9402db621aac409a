package repository

import (
	"context"
	"sync"
	"time"

	"descontamina/internal/model"
)

type memoryDiagnosisRepo struct {
	mu    sync.RWMutex
	items map[string]*model.Submission
}

// NewMemoryDiagnosisRepo creates a process-local repository for tests and local runs
func NewMemoryDiagnosisRepo() DiagnosisRepo {
	return &memoryDiagnosisRepo{items: map[string]*model.Submission{}}
}

func (r *memoryDiagnosisRepo) Get(_ context.Context, id string) (*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (r *memoryDiagnosisRepo) Upsert(_ context.Context, id string, s *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[id]
	if !ok {
		cur = &model.Submission{CreatedAt: s.CreatedAt}
		if cur.CreatedAt.IsZero() {
			cur.CreatedAt = time.Now().UTC()
		}
		r.items[id] = cur
	}
	cur.Merge(s)
	return nil
}

func (r *memoryDiagnosisRepo) Close(_ context.Context) error {
	return nil
}

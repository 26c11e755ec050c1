package db

import (
	"context"
	"sort"
	"sync"

	"github.com/bi-data-explainer/backend/internal/model"
)

// MemoryStore - Postgres 미설정 시 사용하는 프로세스 내 알림 저장소
//
// 최신 AlertListLimit개만 보관
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string]model.Alert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{alerts: make(map[string]model.Alert)}
}

func (s *MemoryStore) SaveAlerts(_ context.Context, alerts []model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range alerts {
		s.alerts[a.ID] = a
	}
	s.trimLocked()
	return nil
}

func (s *MemoryStore) ListAlerts(_ context.Context) ([]model.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedLocked(), nil
}

func (s *MemoryStore) AcknowledgeAlert(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return ErrAlertNotFound
	}
	a.Acknowledged = true
	s.alerts[id] = a
	return nil
}

func (s *MemoryStore) AcknowledgeAllAlerts(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, a := range s.alerts {
		if a.Acknowledged {
			continue
		}
		a.Acknowledged = true
		s.alerts[id] = a
		n++
	}
	return n, nil
}

func (s *MemoryStore) DeleteAlert(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alerts[id]; !ok {
		return ErrAlertNotFound
	}
	delete(s.alerts, id)
	return nil
}

// 최신순 정렬
func (s *MemoryStore) sortedLocked() []model.Alert {
	list := make([]model.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Timestamp != list[j].Timestamp {
			return list[i].Timestamp > list[j].Timestamp
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *MemoryStore) trimLocked() {
	if len(s.alerts) <= AlertListLimit {
		return
	}
	for _, a := range s.sortedLocked()[AlertListLimit:] {
		delete(s.alerts, a.ID)
	}
}

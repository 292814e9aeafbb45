// Package store provides Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/thegspiro/the-logbook-sub001/compliance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	requirements map[compliance.RequirementID]compliance.Requirement
	records      map[compliance.MemberID][]compliance.TrainingRecord
	waivers      map[compliance.MemberID][]compliance.WaiverPeriod
	recordIDs    map[compliance.RecordID]bool
}

func NewMemory() *Memory {
	return &Memory{
		requirements: make(map[compliance.RequirementID]compliance.Requirement),
		records:      make(map[compliance.MemberID][]compliance.TrainingRecord),
		waivers:      make(map[compliance.MemberID][]compliance.WaiverPeriod),
		recordIDs:    make(map[compliance.RecordID]bool),
	}
}

// SaveRequirement inserts or replaces a requirement definition.
func (m *Memory) SaveRequirement(_ context.Context, r compliance.Requirement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements[r.ID] = r
	return nil
}

func (m *Memory) GetRequirement(_ context.Context, id compliance.RequirementID) (compliance.Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.requirements[id]
	if !ok {
		return compliance.Requirement{}, fmt.Errorf("%w: %s", compliance.ErrRequirementNotFound, id)
	}
	return r, nil
}

func (m *Memory) ListRequirements(_ context.Context) ([]compliance.Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]compliance.Requirement, 0, len(m.requirements))
	for _, r := range m.requirements {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddRecord appends one training record. Duplicate ids are rejected so a
// provider sync retry cannot double-count hours.
func (m *Memory) AddRecord(_ context.Context, rec compliance.TrainingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID != "" && m.recordIDs[rec.ID] {
		return fmt.Errorf("%w: record %s", compliance.ErrDuplicateID, rec.ID)
	}
	if rec.ID != "" {
		m.recordIDs[rec.ID] = true
	}
	m.records[rec.MemberID] = append(m.records[rec.MemberID], rec)
	return nil
}

func (m *Memory) ListMemberRecords(_ context.Context, memberID compliance.MemberID) ([]compliance.TrainingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]compliance.TrainingRecord, len(m.records[memberID]))
	copy(result, m.records[memberID])
	return result, nil
}

func (m *Memory) AddWaiver(_ context.Context, w compliance.WaiverPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waivers[w.MemberID] = append(m.waivers[w.MemberID], w)
	return nil
}

func (m *Memory) ListMemberWaivers(_ context.Context, memberID compliance.MemberID) ([]compliance.WaiverPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]compliance.WaiverPeriod, len(m.waivers[memberID]))
	copy(result, m.waivers[memberID])
	return result, nil
}

// Reset clears everything. Test and scenario use only.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requirements = make(map[compliance.RequirementID]compliance.Requirement)
	m.records = make(map[compliance.MemberID][]compliance.TrainingRecord)
	m.waivers = make(map[compliance.MemberID][]compliance.WaiverPeriod)
	m.recordIDs = make(map[compliance.RecordID]bool)
	return nil
}

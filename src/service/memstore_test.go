package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"

	"github.com/google/uuid"
)

// memStore is an in-memory CallStore with the same atomicity guarantees as
// the PostgreSQL repository: unique insert, watermark compare-and-set and
// conditional state updates, all under one mutex.
type memStore struct {
	mu      sync.Mutex
	calls   map[string]*models.Call
	packets map[string][]models.Packet

	creates int // number of successful CreateCall calls
}

func newMemStore() *memStore {
	return &memStore{
		calls:   make(map[string]*models.Call),
		packets: make(map[string][]models.Packet),
	}
}

func (s *memStore) GetCall(_ context.Context, callID string) (*models.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call, ok := s.calls[callID]
	if !ok {
		return nil, models.ErrCallNotFound
	}
	copied := *call
	return &copied, nil
}

func (s *memStore) CreateCall(_ context.Context, callID string) (*models.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.calls[callID]; ok {
		return nil, models.ErrCallExists
	}
	now := time.Now()
	call := &models.Call{
		CallID:    callID,
		Status:    models.StateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.calls[callID] = call
	s.creates++
	copied := *call
	return &copied, nil
}

func (s *memStore) InsertPacket(_ context.Context, packet *models.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if packet.PacketID == "" {
		packet.PacketID = uuid.New().String()
	}
	packet.ReceivedAt = time.Now()
	s.packets[packet.CallID] = append(s.packets[packet.CallID], *packet)
	return nil
}

func (s *memStore) ListPackets(_ context.Context, callID string) ([]models.Packet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	packets := make([]models.Packet, len(s.packets[callID]))
	copy(packets, s.packets[callID])
	sort.Slice(packets, func(i, j int) bool {
		return packets[i].Sequence < packets[j].Sequence
	})
	return packets, nil
}

func (s *memStore) AdvanceWatermark(_ context.Context, callID string, sequence int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	call, ok := s.calls[callID]
	if !ok {
		return models.ErrCallNotFound
	}
	if call.LastSequence < sequence {
		call.LastSequence = sequence
		call.UpdatedAt = time.Now()
	}
	return nil
}

func (s *memStore) TransitionState(_ context.Context, callID string, from, to models.CallState) (bool, error) {
	if !from.CanTransition(to) {
		return false, models.ErrInvalidTransition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	call, ok := s.calls[callID]
	if !ok || call.Status != from {
		return false, nil
	}
	call.Status = to
	call.UpdatedAt = time.Now()
	return true, nil
}

func (s *memStore) ArchiveWithResult(_ context.Context, callID string, transcript, sentiment string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call, ok := s.calls[callID]
	if !ok || call.Status != models.StateAnalyzing {
		return false, nil
	}
	call.Status = models.StateArchived
	call.Transcript = &transcript
	call.Sentiment = &sentiment
	call.UpdatedAt = time.Now()
	return true, nil
}

// recordingNotifier captures emitted lifecycle events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.CallEvent
}

func (n *recordingNotifier) NotifyStateChange(callID string, state models.CallState, data map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, models.CallEvent{
		Type:   models.EventTypeStateChange,
		CallID: callID,
		State:  state,
		Data:   data,
	})
}

func (n *recordingNotifier) states() []models.CallState {
	n.mu.Lock()
	defer n.mu.Unlock()
	states := make([]models.CallState, 0, len(n.events))
	for _, e := range n.events {
		states = append(states, e.State)
	}
	return states
}

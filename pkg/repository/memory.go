package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
)

// memoryRepo is an in-memory Repository implementation for tests and for
// running without any external storage.
type memoryRepo struct {
	mu       sync.RWMutex
	analyses []*model.Analysis
	rooms    map[model.RoomID]*model.Room
	messages map[model.RoomID][]*model.Message
}

// NewMemory creates a new in-memory repository
func NewMemory() Repository {
	return &memoryRepo{
		rooms:    make(map[model.RoomID]*model.Room),
		messages: make(map[model.RoomID][]*model.Message),
	}
}

func (r *memoryRepo) PutAnalysis(ctx context.Context, analysis *model.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.analyses {
		if a.ID == analysis.ID {
			r.analyses[i] = analysis
			return nil
		}
	}
	r.analyses = append(r.analyses, analysis)
	return nil
}

func (r *memoryRepo) GetAnalysis(ctx context.Context, id model.AnalysisID) (*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.analyses {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, goerr.Wrap(ErrAnalysisNotFound, "no such analysis", goerr.V("id", id))
}

func (r *memoryRepo) ListAnalyses(ctx context.Context) ([]*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Analysis, len(r.analyses))
	copy(out, r.analyses)
	return out, nil
}

func (r *memoryRepo) DeleteAnalysis(ctx context.Context, id model.AnalysisID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.analyses {
		if a.ID == id {
			r.analyses = append(r.analyses[:i], r.analyses[i+1:]...)
			return nil
		}
	}
	return goerr.Wrap(ErrAnalysisNotFound, "no such analysis", goerr.V("id", id))
}

func (r *memoryRepo) PutRoom(ctx context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.ID] = room
	return nil
}

func (r *memoryRepo) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	return room, nil
}

func (r *memoryRepo) ListRooms(ctx context.Context) ([]*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *memoryRepo) DeleteRoom(ctx context.Context, id model.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	delete(r.rooms, id)
	delete(r.messages, id)
	return nil
}

func (r *memoryRepo) AddMessage(ctx context.Context, id model.RoomID, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	r.messages[id] = append(r.messages[id], msg)
	return nil
}

func (r *memoryRepo) ListMessages(ctx context.Context, id model.RoomID, limit int) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rooms[id]; !ok {
		return nil, goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	msgs := r.messages[id]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]*model.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

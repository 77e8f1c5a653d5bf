package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
)

const (
	analysisStoreFile = "analysis_store.json"
	roomStoreFile     = "qa_chat_store.json"
)

// fileRepo is a flat-file Repository implementation. Analyses and rooms are
// kept in two JSON files under a base directory, re-read on every call so
// that multiple processes sharing the directory see each other's writes.
type fileRepo struct {
	mu  sync.Mutex
	dir string
}

type analysisStore struct {
	Analyses []*model.Analysis `json:"analyses"`
}

type roomEntry struct {
	Room     *model.Room      `json:"room"`
	Messages []*model.Message `json:"messages"`
}

type roomStore struct {
	Rooms map[model.RoomID]*roomEntry `json:"rooms"`
}

// NewFile creates a flat-file repository rooted at dir, creating the
// directory if needed.
func NewFile(dir string) (Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create store directory", goerr.V("dir", dir))
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) loadAnalyses() (*analysisStore, error) {
	store := &analysisStore{}
	if err := readJSON(filepath.Join(r.dir, analysisStoreFile), store); err != nil {
		return nil, err
	}
	return store, nil
}

func (r *fileRepo) saveAnalyses(store *analysisStore) error {
	return writeJSON(filepath.Join(r.dir, analysisStoreFile), store)
}

func (r *fileRepo) loadRooms() (*roomStore, error) {
	store := &roomStore{}
	if err := readJSON(filepath.Join(r.dir, roomStoreFile), store); err != nil {
		return nil, err
	}
	if store.Rooms == nil {
		store.Rooms = make(map[model.RoomID]*roomEntry)
	}
	return store, nil
}

func (r *fileRepo) saveRooms(store *roomStore) error {
	return writeJSON(filepath.Join(r.dir, roomStoreFile), store)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return goerr.Wrap(err, "failed to read store file", goerr.V("path", path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to parse store file", goerr.V("path", path))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal store")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write store file", goerr.V("path", path))
	}
	return nil
}

func (r *fileRepo) PutAnalysis(ctx context.Context, analysis *model.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadAnalyses()
	if err != nil {
		return err
	}
	replaced := false
	for i, a := range store.Analyses {
		if a.ID == analysis.ID {
			store.Analyses[i] = analysis
			replaced = true
			break
		}
	}
	if !replaced {
		store.Analyses = append(store.Analyses, analysis)
	}
	return r.saveAnalyses(store)
}

func (r *fileRepo) GetAnalysis(ctx context.Context, id model.AnalysisID) (*model.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadAnalyses()
	if err != nil {
		return nil, err
	}
	for _, a := range store.Analyses {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, goerr.Wrap(ErrAnalysisNotFound, "no such analysis", goerr.V("id", id))
}

func (r *fileRepo) ListAnalyses(ctx context.Context) ([]*model.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadAnalyses()
	if err != nil {
		return nil, err
	}
	return store.Analyses, nil
}

func (r *fileRepo) DeleteAnalysis(ctx context.Context, id model.AnalysisID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadAnalyses()
	if err != nil {
		return err
	}
	for i, a := range store.Analyses {
		if a.ID == id {
			store.Analyses = append(store.Analyses[:i], store.Analyses[i+1:]...)
			return r.saveAnalyses(store)
		}
	}
	return goerr.Wrap(ErrAnalysisNotFound, "no such analysis", goerr.V("id", id))
}

func (r *fileRepo) PutRoom(ctx context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadRooms()
	if err != nil {
		return err
	}
	entry, ok := store.Rooms[room.ID]
	if !ok {
		entry = &roomEntry{}
		store.Rooms[room.ID] = entry
	}
	entry.Room = room
	return r.saveRooms(store)
}

func (r *fileRepo) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadRooms()
	if err != nil {
		return nil, err
	}
	entry, ok := store.Rooms[id]
	if !ok {
		return nil, goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	return entry.Room, nil
}

func (r *fileRepo) ListRooms(ctx context.Context) ([]*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadRooms()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Room, 0, len(store.Rooms))
	for _, entry := range store.Rooms {
		out = append(out, entry.Room)
	}
	return out, nil
}

func (r *fileRepo) DeleteRoom(ctx context.Context, id model.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadRooms()
	if err != nil {
		return err
	}
	if _, ok := store.Rooms[id]; !ok {
		return goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	delete(store.Rooms, id)
	return r.saveRooms(store)
}

func (r *fileRepo) AddMessage(ctx context.Context, id model.RoomID, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadRooms()
	if err != nil {
		return err
	}
	entry, ok := store.Rooms[id]
	if !ok {
		return goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	entry.Messages = append(entry.Messages, msg)
	return r.saveRooms(store)
}

func (r *fileRepo) ListMessages(ctx context.Context, id model.RoomID, limit int) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.loadRooms()
	if err != nil {
		return nil, err
	}
	entry, ok := store.Rooms[id]
	if !ok {
		return nil, goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
	}
	msgs := entry.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

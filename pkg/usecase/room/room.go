package room

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/repository"
)

// DefaultMessageLimit bounds how many recent messages are returned per page
const DefaultMessageLimit = 50

// UseCase provides shared Q&A room operations backed by an append-only
// message log
type UseCase struct {
	repo repository.Repository
	now  func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// New creates a new room UseCase instance
func New(repo repository.Repository, opts ...Option) *UseCase {
	uc := &UseCase{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Create opens a new Q&A room and posts its welcome message
func (u *UseCase) Create(ctx context.Context, creator, name string) (*model.Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, goerr.New("room name is empty")
	}

	now := u.now()
	room := &model.Room{
		ID:        model.NewRoomID(now),
		Name:      name,
		Creator:   creator,
		CreatedAt: now,
	}

	if err := u.repo.PutRoom(ctx, room); err != nil {
		return nil, err
	}

	welcome := &model.Message{
		ID:        model.NewMessageID(),
		User:      model.SystemUser,
		Content:   "Welcome to the Report QA room: " + name + ". You can ask questions about your medical reports and I will answer based on the analyses stored in the system.",
		CreatedAt: now,
	}
	if err := u.repo.AddMessage(ctx, room.ID, welcome); err != nil {
		return nil, err
	}

	return room, nil
}

// Get retrieves a room by ID
func (u *UseCase) Get(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return u.repo.GetRoom(ctx, id)
}

// List retrieves all rooms, newest first
func (u *UseCase) List(ctx context.Context) ([]*model.Room, error) {
	rooms, err := u.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, nil
}

// Delete removes a room and its message log
func (u *UseCase) Delete(ctx context.Context, id model.RoomID) error {
	return u.repo.DeleteRoom(ctx, id)
}

// Post appends a message from the given user to the room's log
func (u *UseCase) Post(ctx context.Context, id model.RoomID, user, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, goerr.New("message content is empty")
	}

	msg := &model.Message{
		ID:        model.NewMessageID(),
		User:      user,
		Content:   content,
		CreatedAt: u.now(),
	}
	if err := u.repo.AddMessage(ctx, id, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages retrieves the most recent messages of a room in chronological
// order. limit <= 0 applies DefaultMessageLimit.
func (u *UseCase) Messages(ctx context.Context, id model.RoomID, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	return u.repo.ListMessages(ctx, id, limit)
}

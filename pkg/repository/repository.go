package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
)

var (
	ErrAnalysisNotFound = goerr.New("analysis not found")
	ErrRoomNotFound     = goerr.New("room not found")
)

// Repository defines the interface for analysis and room persistence.
// The QA engine treats the analysis collection as read-only and reloads it
// in full on every retrieval.
type Repository interface {
	// PutAnalysis saves an analysis record
	PutAnalysis(ctx context.Context, analysis *model.Analysis) error

	// GetAnalysis retrieves an analysis record by ID
	GetAnalysis(ctx context.Context, id model.AnalysisID) (*model.Analysis, error)

	// ListAnalyses retrieves all analysis records in insertion order
	ListAnalyses(ctx context.Context) ([]*model.Analysis, error)

	// DeleteAnalysis removes an analysis record
	DeleteAnalysis(ctx context.Context, id model.AnalysisID) error

	// PutRoom saves a Q&A room
	PutRoom(ctx context.Context, room *model.Room) error

	// GetRoom retrieves a room by ID
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)

	// ListRooms retrieves all rooms
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// DeleteRoom removes a room and its message log
	DeleteRoom(ctx context.Context, id model.RoomID) error

	// AddMessage appends a message to a room's log
	AddMessage(ctx context.Context, id model.RoomID, msg *model.Message) error

	// ListMessages retrieves the most recent messages of a room in
	// chronological order. limit <= 0 means no limit.
	ListMessages(ctx context.Context, id model.RoomID, limit int) ([]*model.Message, error)
}

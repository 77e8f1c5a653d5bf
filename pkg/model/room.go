package model

import (
	"time"

	"github.com/google/uuid"
)

type RoomID string

// NewRoomID generates a RoomID from the creation time. Room IDs are
// human-readable so that they can be typed on the command line.
func NewRoomID(now time.Time) RoomID {
	return RoomID("QA-" + now.Format("20060102150405"))
}

type MessageID string

// NewMessageID generates a new unique MessageID
func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

// SystemUser is the sender name used for messages posted by the QA engine.
const SystemUser = "Report QA System"

// Room is a shared Q&A room where multiple users ask questions against the
// stored analyses.
type Room struct {
	ID        RoomID    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	Creator   string    `json:"creator" firestore:"creator"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// Message is a single entry in a room's append-only message log.
type Message struct {
	ID        MessageID `json:"id" firestore:"id"`
	User      string    `json:"user" firestore:"user"`
	Content   string    `json:"content" firestore:"content"`
	CreatedAt time.Time `json:"timestamp" firestore:"created_at"`
}

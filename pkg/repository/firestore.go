package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	analysisCollection = "analyses"
	roomCollection     = "rooms"
	messageCollection  = "messages"
)

// firestoreRepo implements Repository using Firestore. Analyses and rooms
// are top-level collections, message logs live in a subcollection of each
// room document.
type firestoreRepo struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (Repository, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &firestoreRepo{client: client}, nil
}

func (r *firestoreRepo) PutAnalysis(ctx context.Context, analysis *model.Analysis) error {
	doc := r.client.Collection(analysisCollection).Doc(string(analysis.ID))
	if _, err := doc.Set(ctx, analysis); err != nil {
		return goerr.Wrap(err, "failed to put analysis", goerr.V("id", analysis.ID))
	}
	return nil
}

func (r *firestoreRepo) GetAnalysis(ctx context.Context, id model.AnalysisID) (*model.Analysis, error) {
	snap, err := r.client.Collection(analysisCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrAnalysisNotFound, "no such analysis", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get analysis", goerr.V("id", id))
	}

	var analysis model.Analysis
	if err := snap.DataTo(&analysis); err != nil {
		return nil, goerr.Wrap(err, "failed to decode analysis", goerr.V("id", id))
	}
	return &analysis, nil
}

func (r *firestoreRepo) ListAnalyses(ctx context.Context) ([]*model.Analysis, error) {
	it := r.client.Collection(analysisCollection).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	var analyses []*model.Analysis
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate analyses")
		}

		var analysis model.Analysis
		if err := snap.DataTo(&analysis); err != nil {
			return nil, goerr.Wrap(err, "failed to decode analysis", goerr.V("doc", snap.Ref.ID))
		}
		analyses = append(analyses, &analysis)
	}
	return analyses, nil
}

func (r *firestoreRepo) DeleteAnalysis(ctx context.Context, id model.AnalysisID) error {
	if _, err := r.client.Collection(analysisCollection).Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete analysis", goerr.V("id", id))
	}
	return nil
}

func (r *firestoreRepo) PutRoom(ctx context.Context, room *model.Room) error {
	doc := r.client.Collection(roomCollection).Doc(string(room.ID))
	if _, err := doc.Set(ctx, room); err != nil {
		return goerr.Wrap(err, "failed to put room", goerr.V("id", room.ID))
	}
	return nil
}

func (r *firestoreRepo) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	snap, err := r.client.Collection(roomCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrRoomNotFound, "no such room", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get room", goerr.V("id", id))
	}

	var room model.Room
	if err := snap.DataTo(&room); err != nil {
		return nil, goerr.Wrap(err, "failed to decode room", goerr.V("id", id))
	}
	return &room, nil
}

func (r *firestoreRepo) ListRooms(ctx context.Context) ([]*model.Room, error) {
	it := r.client.Collection(roomCollection).Documents(ctx)
	defer it.Stop()

	var rooms []*model.Room
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate rooms")
		}

		var room model.Room
		if err := snap.DataTo(&room); err != nil {
			return nil, goerr.Wrap(err, "failed to decode room", goerr.V("doc", snap.Ref.ID))
		}
		rooms = append(rooms, &room)
	}
	return rooms, nil
}

func (r *firestoreRepo) DeleteRoom(ctx context.Context, id model.RoomID) error {
	roomDoc := r.client.Collection(roomCollection).Doc(string(id))

	// Delete the message log first, then the room document itself
	it := roomDoc.Collection(messageCollection).Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate messages", goerr.V("room", id))
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete message", goerr.V("room", id))
		}
	}

	if _, err := roomDoc.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete room", goerr.V("id", id))
	}
	return nil
}

func (r *firestoreRepo) AddMessage(ctx context.Context, id model.RoomID, msg *model.Message) error {
	if _, err := r.GetRoom(ctx, id); err != nil {
		return err
	}

	doc := r.client.Collection(roomCollection).Doc(string(id)).
		Collection(messageCollection).Doc(string(msg.ID))
	if _, err := doc.Set(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to add message", goerr.V("room", id))
	}
	return nil
}

func (r *firestoreRepo) ListMessages(ctx context.Context, id model.RoomID, limit int) ([]*model.Message, error) {
	if _, err := r.GetRoom(ctx, id); err != nil {
		return nil, err
	}

	query := r.client.Collection(roomCollection).Doc(string(id)).
		Collection(messageCollection).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	it := query.Documents(ctx)
	defer it.Stop()

	var msgs []*model.Message
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("room", id))
		}

		var msg model.Message
		if err := snap.DataTo(&msg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode message", goerr.V("room", id))
		}
		msgs = append(msgs, &msg)
	}

	// Query is newest-first for the limit, callers expect chronological order
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

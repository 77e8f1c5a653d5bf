package room_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/repository"
	"github.com/r-ahemad/radiqa/pkg/usecase/room"
)

func testClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestCreatePostsWelcome(t *testing.T) {
	ctx := context.Background()
	uc := room.New(repository.NewMemory(),
		room.WithClock(testClock(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))))

	r := gt.R1(uc.Create(ctx, "Dr. User", "Thoracic Review")).NoError(t)
	gt.True(t, strings.HasPrefix(string(r.ID), "QA-"))
	gt.Equal(t, r.Creator, "Dr. User")

	msgs := gt.R1(uc.Messages(ctx, r.ID, 0)).NoError(t)
	gt.A(t, msgs).Length(1)
	gt.Equal(t, msgs[0].User, model.SystemUser)
	gt.S(t, msgs[0].Content).Contains("Thoracic Review")
}

func TestCreateRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	uc := room.New(repository.NewMemory())

	_, err := uc.Create(ctx, "Dr. User", "  ")
	gt.Error(t, err)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	uc := room.New(repository.NewMemory(),
		room.WithClock(testClock(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))))

	first := gt.R1(uc.Create(ctx, "a", "first")).NoError(t)
	second := gt.R1(uc.Create(ctx, "b", "second")).NoError(t)

	rooms := gt.R1(uc.List(ctx)).NoError(t)
	gt.A(t, rooms).Length(2)
	gt.Equal(t, rooms[0].ID, second.ID)
	gt.Equal(t, rooms[1].ID, first.ID)
}

func TestMessagesPageLimit(t *testing.T) {
	ctx := context.Background()
	uc := room.New(repository.NewMemory(),
		room.WithClock(testClock(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))))

	r := gt.R1(uc.Create(ctx, "Dr. User", "busy room")).NoError(t)
	for i := 0; i < 60; i++ {
		_, err := uc.Post(ctx, r.ID, "Dr. User", fmt.Sprintf("message %d", i))
		gt.NoError(t, err)
	}

	// Default page keeps the most recent 50, in chronological order
	msgs := gt.R1(uc.Messages(ctx, r.ID, 0)).NoError(t)
	gt.A(t, msgs).Length(room.DefaultMessageLimit)
	gt.Equal(t, msgs[len(msgs)-1].Content, "message 59")
}

func TestPostToMissingRoom(t *testing.T) {
	ctx := context.Background()
	uc := room.New(repository.NewMemory())

	_, err := uc.Post(ctx, "QA-19990101000000", "x", "hello")
	gt.Error(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	uc := room.New(repository.NewMemory(),
		room.WithClock(testClock(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))))

	r := gt.R1(uc.Create(ctx, "Dr. User", "short lived")).NoError(t)
	gt.NoError(t, uc.Delete(ctx, r.ID))

	_, err := uc.Get(ctx, r.ID)
	gt.Error(t, err)

	gt.Error(t, uc.Delete(ctx, r.ID))
}

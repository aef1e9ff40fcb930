package service_test

import (
	"context"
	"testing"
	"time"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/model"
	"go-event-platform/internal/service"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	users   *fakeUserRepo
	events  *fakeEventRepo
	signups *fakeSignupRepo
	cache   *fakeCapacityCache
	audit   *fakeAuditRecorder

	eventService  service.EventService
	signupService service.SignupService
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	signups := newFakeSignupRepo()
	events := newFakeEventRepo(signups)
	capCache := newFakeCapacityCache()
	audit := newFakeAuditRecorder()

	return &testEnv{
		users:         users,
		events:        events,
		signups:       signups,
		cache:         capCache,
		audit:         audit,
		eventService:  service.NewEventService(events, users, capCache, audit),
		signupService: service.NewSignupService(fakeTxBeginner{}, events, signups, capCache, audit),
	}
}

func (env *testEnv) createUser(t *testing.T, name string, role model.UserRole) auth.Actor {
	t.Helper()
	user, err := env.users.Create(context.Background(), &model.User{
		Name:     name,
		Email:    name + "@test.com",
		Username: name,
		Role:     role,
	})
	require.NoError(t, err)
	return auth.Actor{ID: user.ID, Role: user.Role}
}

func (env *testEnv) createEvent(t *testing.T, owner auth.Actor, price float64, capacity *int) *model.Event {
	t.Helper()
	event, err := env.eventService.Create(context.Background(), owner, &model.Event{
		Name:      "Test Event",
		StartDate: time.Now().Add(time.Hour),
		EndDate:   time.Now().Add(2 * time.Hour),
		Price:     price,
		Capacity:  capacity,
	})
	require.NoError(t, err)
	return event
}

package service_test

// Thread-safe in-memory fakes mirroring the repository semantics,
// 讓 service 測試（含並行報名）不需要真的 Postgres/Redis。

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-event-platform/internal/model"
	apperrors "go-event-platform/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- tx ---

// fakeTx 只需要 Commit/Rollback；repo fake 不碰 tx 本身
type fakeTx struct {
	pgx.Tx
}

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeTxBeginner struct{}

func (fakeTxBeginner) BeginTx(ctx context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	return fakeTx{}, nil
}

func intPtr(v int) *int { return &v }

func copyEvent(ev *model.Event) *model.Event {
	out := *ev
	if ev.Capacity != nil {
		out.Capacity = intPtr(*ev.Capacity)
	}
	if ev.CapacityLeft != nil {
		out.CapacityLeft = intPtr(*ev.CapacityLeft)
	}
	return &out
}

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, apperrors.ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// --- signups ---

type fakeSignupRepo struct {
	mu      sync.Mutex
	nextID  int
	signups map[int]*model.Signup
}

func newFakeSignupRepo() *fakeSignupRepo {
	return &fakeSignupRepo{signups: make(map[int]*model.Signup)}
}

func (r *fakeSignupRepo) Create(ctx context.Context, tx pgx.Tx, signup *model.Signup) (*model.Signup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.signups {
		if s.EventID == signup.EventID && s.UserID == signup.UserID {
			return nil, apperrors.ErrAlreadySignedUp
		}
	}
	r.nextID++
	signup.ID = r.nextID
	signup.CreatedAt = time.Now()
	stored := *signup
	r.signups[signup.ID] = &stored
	return signup, nil
}

func (r *fakeSignupRepo) FindByEventAndUser(ctx context.Context, eventID, userID int) (*model.Signup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.signups {
		if s.EventID == eventID && s.UserID == userID {
			out := *s
			return &out, nil
		}
	}
	return nil, apperrors.ErrSignupNotFound
}

func (r *fakeSignupRepo) ListByUserID(ctx context.Context, userID, page, size int) ([]*model.Signup, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*model.Signup, 0)
	for _, s := range r.signups {
		if s.UserID == userID {
			out := *s
			all = append(all, &out)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	count := len(all)
	start := page * size
	if start > count {
		start = count
	}
	end := start + size
	if end > count {
		end = count
	}
	return all[start:end], count, nil
}

func (r *fakeSignupRepo) DeleteByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID int) (*model.Signup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.signups {
		if s.EventID == eventID && s.UserID == userID {
			out := *s
			delete(r.signups, id)
			return &out, nil
		}
	}
	return nil, apperrors.ErrSignupNotFound
}

func (r *fakeSignupRepo) CountByEventID(ctx context.Context, eventID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.signups {
		if s.EventID == eventID {
			count++
		}
	}
	return count, nil
}

// --- events ---

type fakeEventRepo struct {
	mu      sync.Mutex
	nextID  int
	events  map[int]*model.Event
	signups *fakeSignupRepo

	// reserveHook 在下一次成功的 ReserveSlot 後觸發一次，
	// 測試用來在「已佔名額、尚未寫入報名」的窗口插入其他操作
	reserveHook func()
}

func newFakeEventRepo(signups *fakeSignupRepo) *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int]*model.Event), signups: signups}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	if event.Capacity != nil {
		event.CapacityLeft = intPtr(*event.Capacity)
	} else {
		event.CapacityLeft = nil
	}
	r.events[event.ID] = copyEvent(event)
	return copyEvent(event), nil
}

func (r *fakeEventRepo) List(ctx context.Context, page, size int) ([]*model.Event, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*model.Event, 0, len(r.events))
	for _, ev := range r.events {
		all = append(all, copyEvent(ev))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	count := len(all)
	start := page * size
	if start > count {
		start = count
	}
	end := start + size
	if end > count {
		end = count
	}
	return all[start:end], count, nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id int) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return copyEvent(ev), nil
}

func (r *fakeEventRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.EventID == eventID {
			return copyEvent(ev), nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (r *fakeEventRepo) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if params.Name != nil {
		ev.Name = *params.Name
	}
	if params.Description != nil {
		ev.Description = params.Description
	}
	if params.OwnerID != nil {
		ev.OwnerID = *params.OwnerID
	}
	if params.StartDate != nil {
		ev.StartDate = *params.StartDate
	}
	if params.EndDate != nil {
		ev.EndDate = *params.EndDate
	}
	if params.Location != nil {
		ev.Location = params.Location
	}
	if params.Category != nil {
		ev.Category = params.Category
	}
	if params.Price != nil {
		ev.Price = *params.Price
	}
	if params.Capacity != nil {
		// capacity 與重算後的 capacity_left 同步落地，鏡射單一 UPDATE 的語義
		ev.Capacity = intPtr(*params.Capacity)
		count, err := r.signups.CountByEventID(ctx, id)
		if err != nil {
			return nil, err
		}
		left := *params.Capacity - count
		if left < 0 {
			left = 0
		}
		ev.CapacityLeft = intPtr(left)
	}
	ev.UpdatedAt = time.Now()
	return copyEvent(ev), nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	delete(r.events, id)
	return ev, nil
}

func (r *fakeEventRepo) ReserveSlot(ctx context.Context, tx pgx.Tx, id int) (*int, error) {
	r.mu.Lock()
	ev, ok := r.events[id]
	if !ok {
		r.mu.Unlock()
		return nil, apperrors.ErrEventFull
	}
	var left *int
	if ev.Capacity != nil {
		if *ev.CapacityLeft <= 0 {
			r.mu.Unlock()
			return nil, apperrors.ErrEventFull
		}
		*ev.CapacityLeft--
		left = intPtr(*ev.CapacityLeft)
	}
	hook := r.reserveHook
	r.reserveHook = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return left, nil
}

func (r *fakeEventRepo) ReleaseSlot(ctx context.Context, tx pgx.Tx, id int) (*int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if ev.Capacity == nil {
		return nil, nil
	}
	if *ev.CapacityLeft < *ev.Capacity {
		*ev.CapacityLeft++
	}
	return intPtr(*ev.CapacityLeft), nil
}

// --- capacity cache ---

type fakeCapacityCache struct {
	mu     sync.Mutex
	values map[int]int
}

func newFakeCapacityCache() *fakeCapacityCache {
	return &fakeCapacityCache{values: make(map[int]int)}
}

func (c *fakeCapacityCache) SetCapacityLeft(ctx context.Context, eventID int, capacityLeft *int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if capacityLeft == nil {
		delete(c.values, eventID)
		return nil
	}
	c.values[eventID] = *capacityLeft
	return nil
}

func (c *fakeCapacityCache) GetCapacityLeft(ctx context.Context, eventID int) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[eventID]
	return v, ok, nil
}

func (c *fakeCapacityCache) Invalidate(ctx context.Context, eventID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, eventID)
	return nil
}

// --- audit recorder ---

type fakeAuditRecorder struct {
	mu      sync.Mutex
	entries []*model.AuditLog
}

func newFakeAuditRecorder() *fakeAuditRecorder {
	return &fakeAuditRecorder{}
}

func (r *fakeAuditRecorder) Record(ctx context.Context, message string, userID int, level model.LogLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &model.AuditLog{Message: message, UserID: userID, Level: level})
}

func (r *fakeAuditRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

package planner_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/store"
	"github.com/samber/lo"
)

// fakeItemStore keeps items in insertion order, like created_at ordering.
type fakeItemStore struct {
	mu          sync.Mutex
	items       []*domain.LearningItem
	scoreWrites int
	failScoreOn uuid.UUID
	failUpdate  error
}

var _ store.LearningItemStore = (*fakeItemStore)(nil)

func (f *fakeItemStore) Create(_ context.Context, item *domain.LearningItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *item
	f.items = append(f.items, &clone)
	return nil
}

func (f *fakeItemStore) GetByID(_ context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			clone := *item
			return &clone, nil
		}
	}
	return nil, store.ErrLearningItemNotFound
}

func (f *fakeItemStore) Update(_ context.Context, item *domain.LearningItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	for i, existing := range f.items {
		if existing.ID == item.ID {
			clone := *item
			clone.PriorityScore = existing.PriorityScore
			f.items[i] = &clone
			return nil
		}
	}
	return store.ErrLearningItemNotFound
}

func (f *fakeItemStore) UpdatePriorityScore(_ context.Context, id uuid.UUID, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failScoreOn {
		return errors.New("write failed")
	}
	for _, item := range f.items {
		if item.ID == id {
			item.PriorityScore = score
			f.scoreWrites++
			return nil
		}
	}
	return store.ErrLearningItemNotFound
}

func (f *fakeItemStore) FindActive(_ context.Context, userID uuid.UUID) ([]*domain.LearningItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	active := lo.Filter(f.items, func(item *domain.LearningItem, _ int) bool {
		return item.UserID == userID && item.Status == domain.LearningItemStatusActive
	})
	return lo.Map(active, func(item *domain.LearningItem, _ int) *domain.LearningItem {
		clone := *item
		return &clone
	}), nil
}

func (f *fakeItemStore) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	active, err := f.FindActive(ctx, userID)
	return len(active), err
}

func (f *fakeItemStore) ListUsersWithActiveItems(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := lo.Uniq(lo.FilterMap(f.items, func(item *domain.LearningItem, _ int) (uuid.UUID, bool) {
		return item.UserID, item.Status == domain.LearningItemStatusActive
	}))
	sort.Slice(users, func(i, j int) bool { return users[i].String() < users[j].String() })
	return users, nil
}

func (f *fakeItemStore) WithTx(*sql.Tx) store.LearningItemStore { return f }

func (f *fakeItemStore) stored(id uuid.UUID) *domain.LearningItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, _ := lo.Find(f.items, func(item *domain.LearningItem) bool { return item.ID == id })
	return item
}

type fakeProfileStore struct {
	profiles map[uuid.UUID]*domain.UserProfile
	getErr   error
}

var _ store.UserProfileStore = (*fakeProfileStore)(nil)

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[uuid.UUID]*domain.UserProfile{}}
}

func (f *fakeProfileStore) Get(_ context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) Upsert(_ context.Context, profile *domain.UserProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

type fakeCommitmentStore struct {
	created   []*domain.Commitment
	createErr error
	listErr   error
}

var _ store.CommitmentStore = (*fakeCommitmentStore)(nil)

func (f *fakeCommitmentStore) Create(_ context.Context, c *domain.Commitment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCommitmentStore) ListByItem(_ context.Context, itemID uuid.UUID) ([]*domain.Commitment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return lo.Filter(f.created, func(c *domain.Commitment, _ int) bool { return c.LearningItemID == itemID }), nil
}

func (f *fakeCommitmentStore) WithTx(*sql.Tx) store.CommitmentStore { return f }

// fakeTransactor runs the unit of work without a database.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	f.calls++
	return fn(ctx, nil)
}

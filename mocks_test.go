package account_test

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-account"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryStore is an in-memory Store used by most behavior tests. It
// matches criteria the same way the bun repository does: a nil value
// matches accounts whose field is unset.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*account.Account
	saves    int
	inserts  int
}

func newMemoryStore(accounts ...*account.Account) *memoryStore {
	s := &memoryStore{
		accounts: map[uuid.UUID]*account.Account{},
	}
	for _, acct := range accounts {
		if acct.ID == uuid.Nil {
			acct.ID = uuid.New()
		}
		s.accounts[acct.ID] = acct
	}
	return s
}

func (s *memoryStore) FindOne(ctx context.Context, criteria account.Criteria) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if matchesCriteria(acct, criteria) {
			return acct, nil
		}
	}

	return nil, repository.NewRecordNotFound()
}

func (s *memoryStore) Save(ctx context.Context, acct *account.Account) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves++
	s.accounts[acct.ID] = acct

	return acct, nil
}

func (s *memoryStore) Insert(ctx context.Context, acct *account.Account) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Email == acct.Email {
			return nil, account.ConflictError("email", acct.Email)
		}
	}

	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}

	s.inserts++
	s.accounts[acct.ID] = acct

	return acct, nil
}

func matchesCriteria(acct *account.Account, criteria account.Criteria) bool {
	for column, want := range criteria {
		var got any
		switch column {
		case "email":
			got = acct.Email
		case "confirmation_token":
			got = acct.ConfirmationToken
		case "unlock_token":
			got = acct.UnlockToken
		case "recovery_token":
			got = acct.RecoveryToken
		case "unregistered_at":
			got = acct.UnregisteredAt
		default:
			return false
		}

		if want == nil {
			if t, ok := got.(*time.Time); !ok || t != nil {
				return false
			}
			continue
		}

		if got != want {
			return false
		}
	}
	return true
}

// MockStore is a testify mock for error-path tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindOne(ctx context.Context, criteria account.Criteria) (*account.Account, error) {
	args := m.Called(ctx, criteria)
	if acct, ok := args.Get(0).(*account.Account); ok {
		return acct, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, acct *account.Account) (*account.Account, error) {
	args := m.Called(ctx, acct)
	if saved, ok := args.Get(0).(*account.Account); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, acct *account.Account) (*account.Account, error) {
	args := m.Called(ctx, acct)
	if inserted, ok := args.Get(0).(*account.Account); ok {
		return inserted, args.Error(1)
	}
	return nil, args.Error(1)
}

// recorderNotifier captures every notification instead of sending it.
type recorderNotifier struct {
	mu    sync.Mutex
	sent  []account.NotificationKind
	fail  error
	accts []*account.Account
}

func (r *recorderNotifier) Send(ctx context.Context, kind account.NotificationKind, acct *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail != nil {
		return r.fail
	}

	r.sent = append(r.sent, kind)
	r.accts = append(r.accts, acct)

	return nil
}

func (r *recorderNotifier) count(kind account.NotificationKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, k := range r.sent {
		if k == kind {
			n++
		}
	}
	return n
}

// capturingSink records activity events for assertions.
type capturingSink struct {
	mu     sync.Mutex
	events []account.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, event account.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)
	return nil
}

func (c *capturingSink) types() []account.ActivityEventType {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]account.ActivityEventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType)
	}
	return out
}

// fixedClock returns a deterministic clock function.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"convocation/internal/adapters/email"
	outboxStore "convocation/internal/adapters/storage/outbox"
	submissionStore "convocation/internal/adapters/storage/submission"
	"convocation/internal/domain/account"
	"convocation/internal/domain/outbox"
	"convocation/internal/domain/submission"
)

var testTime = time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

// sequentialIDs returns a generator producing prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// --- submissions ---

type mockSubmissionStore struct {
	mu      sync.Mutex
	saved   []submission.Submission
	saveErr error
	listErr error
}

func (m *mockSubmissionStore) Save(_ context.Context, s submission.Submission) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockSubmissionStore) List(_ context.Context, f submissionStore.ListFilter) ([]submission.Submission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []submission.Submission
	for _, s := range m.saved {
		if f.Kind == "" || s.Kind == f.Kind {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// --- documents ---

type mockDocumentStore struct {
	puts    map[string][]byte
	putErr  error
	deleted []string
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{puts: make(map[string][]byte)}
}

func (m *mockDocumentStore) Put(_ context.Context, key string, r io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.puts[key] = data
	return nil
}

func (m *mockDocumentStore) Delete(_ context.Context, key string) error {
	delete(m.puts, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- accounts ---

type mockAccountStore struct {
	accounts map[string]account.Account // keyed by email
	saves    int
	getErr   error
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: make(map[string]account.Account)}
	for _, a := range accts {
		m.accounts[a.Email] = a
	}
	return m
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	if m.getErr != nil {
		return account.Account{}, m.getErr
	}
	a, ok := m.accounts[account.NormalizeEmail(email)]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.saves++
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// --- outbox ---

type mockOutboxStore struct {
	entries map[string]outbox.Entry
	saveErr error
}

var _ outboxStore.Store = (*mockOutboxStore)(nil)

func newMockOutboxStore(entries ...outbox.Entry) *mockOutboxStore {
	m := &mockOutboxStore{entries: make(map[string]outbox.Entry)}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return m
}

func (m *mockOutboxStore) GetByID(_ context.Context, id string) (outbox.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return outbox.Entry{}, outbox.ErrNotFound
	}
	return e, nil
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := e.Validate(); err != nil {
		return err
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(_ context.Context, limit int) ([]outbox.Entry, error) {
	return m.list(limit, outbox.StatusPending, outbox.StatusRetrying), nil
}

func (m *mockOutboxStore) ListFailed(_ context.Context, limit int) ([]outbox.Entry, error) {
	return m.list(limit, outbox.StatusFailed), nil
}

func (m *mockOutboxStore) list(limit int, statuses ...string) []outbox.Entry {
	var out []outbox.Entry
	for _, e := range m.entries {
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// --- email ---

// failingSender rejects the first failures sends, then delegates to a NoopSender.
type failingSender struct {
	failures int
	calls    int
	noop     *email.NoopSender
}

func newFailingSender(failures int) *failingSender {
	return &failingSender{failures: failures, noop: email.NewNoopSender()}
}

func (s *failingSender) Provider() string { return "test" }

func (s *failingSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	s.calls++
	if s.calls <= s.failures {
		return email.SendResult{}, errors.New("provider unavailable")
	}
	return s.noop.Send(ctx, req)
}

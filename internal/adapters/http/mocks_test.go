package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"convocation/internal/adapters/content"
	"convocation/internal/adapters/email"
	"convocation/internal/adapters/http/middleware"
	auditStore "convocation/internal/adapters/storage/audit"
	submissionStore "convocation/internal/adapters/storage/submission"
	"convocation/internal/application/orchestrators"
	accountDomain "convocation/internal/domain/account"
	auditDomain "convocation/internal/domain/audit"
	"convocation/internal/domain/export"
	outboxDomain "convocation/internal/domain/outbox"
	submissionDomain "convocation/internal/domain/submission"
	"convocation/internal/report"
)

// --- Submission store ---

type mockSubmissionStore struct {
	mu      sync.Mutex
	subs    map[string]submissionDomain.Submission
	listErr error
	saveErr error
}

func (m *mockSubmissionStore) Save(ctx context.Context, s submissionDomain.Submission) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[s.ID] = s
	return nil
}

func (m *mockSubmissionStore) GetByID(ctx context.Context, id string) (submissionDomain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return submissionDomain.Submission{}, submissionDomain.ErrNotFound
	}
	return s, nil
}

func (m *mockSubmissionStore) List(ctx context.Context, filter submissionStore.ListFilter) ([]submissionDomain.Submission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []submissionDomain.Submission
	for _, s := range m.subs {
		if filter.Kind == "" || s.Kind == filter.Kind {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (m *mockSubmissionStore) Count(ctx context.Context, filter submissionStore.ListFilter) (int, error) {
	subs, err := m.List(ctx, filter)
	return len(subs), err
}

func (m *mockSubmissionStore) byKind(kind string) []submissionDomain.Submission {
	subs, _ := m.List(context.Background(), submissionStore.ListFilter{Kind: kind})
	return subs
}

// --- Account store ---

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]accountDomain.Account
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return accountDomain.Account{}, accountDomain.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == accountDomain.NormalizeEmail(email) {
			return a, nil
		}
	}
	return accountDomain.Account{}, accountDomain.ErrNotFound
}

func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

// --- Outbox store ---

type mockOutboxStore struct {
	mu      sync.Mutex
	entries map[string]outboxDomain.Entry
}

func (m *mockOutboxStore) GetByID(ctx context.Context, id string) (outboxDomain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return outboxDomain.Entry{}, outboxDomain.ErrNotFound
	}
	return e, nil
}

func (m *mockOutboxStore) Save(ctx context.Context, e outboxDomain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) list(match func(outboxDomain.Entry) bool, limit int) []outboxDomain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []outboxDomain.Entry
	for _, e := range m.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *mockOutboxStore) ListPending(ctx context.Context, limit int) ([]outboxDomain.Entry, error) {
	return m.list(func(e outboxDomain.Entry) bool { return e.CanRetry() }, limit), nil
}

func (m *mockOutboxStore) ListFailed(ctx context.Context, limit int) ([]outboxDomain.Entry, error) {
	return m.list(func(e outboxDomain.Entry) bool { return e.Status == outboxDomain.StatusFailed }, limit), nil
}

// --- Blob store ---

type mockBlobStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	putErr error
}

func (m *mockBlobStore) Put(ctx context.Context, key string, r io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return nil
}

func (m *mockBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[key]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", key, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	return nil
}

// --- Audit store ---

type mockAuditStore struct {
	mu      sync.Mutex
	events  []auditDomain.Event
	saveErr error
}

func (m *mockAuditStore) Save(ctx context.Context, e auditDomain.Event) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// List returns matching events newest first; events saved later count as newer.
func (m *mockAuditStore) List(ctx context.Context, f auditStore.Filter, limit int) ([]auditDomain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []auditDomain.Event
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.events[i]
		if (f.Category != "" && e.Category != f.Category) || (f.Action != "" && e.Action != f.Action) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockAuditStore) GetByID(ctx context.Context, id string) (auditDomain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return auditDomain.Event{}, auditDomain.ErrNotFound
}

// actions lists the recorded actions in save order.
func (m *mockAuditStore) actions() []auditDomain.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []auditDomain.Action
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

// --- Wiring ---

var testNow = time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)

const testAdminPassword = "correct horse battery"

// testEnv exposes the mocks installed in the package globals.
type testEnv struct {
	subs     *mockSubmissionStore
	accounts *mockAccountStore
	outbox   *mockOutboxStore
	blobs    *mockBlobStore
	audit    *mockAuditStore
	sender   *email.NoopSender
}

// setupTest installs fresh stores, services and sessions for one test.
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		subs:     &mockSubmissionStore{subs: make(map[string]submissionDomain.Submission)},
		accounts: &mockAccountStore{accounts: make(map[string]accountDomain.Account)},
		outbox:   &mockOutboxStore{entries: make(map[string]outboxDomain.Entry)},
		blobs:    &mockBlobStore{files: make(map[string][]byte)},
		audit:    &mockAuditStore{},
		sender:   email.NewNoopSender(),
	}

	pages, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	asm, err := report.NewAssembler("", export.LayoutDetailed)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}

	stores = &Stores{
		SubmissionStore: env.subs,
		AccountStore:    env.accounts,
		OutboxStore:     env.outbox,
		AuditStore:      env.audit,
		Documents:       env.blobs,
	}
	services = &Services{
		Pages:     pages,
		Assembler: asm,
		Notifier: &orchestrators.ContactNotifier{
			Sender:     env.sender,
			Outbox:     env.outbox,
			To:         []string{"office@example.org"},
			From:       "noreply@example.org",
			GenerateID: generateID,
			Now:        func() time.Time { return testNow },
		},
		Outbox: orchestrators.NewOutboxProcessor(env.outbox, map[string]orchestrators.ActionExecutor{
			outboxDomain.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: env.sender, From: "noreply@example.org"},
		}, func() time.Time { return testNow }),
	}
	sessions = middleware.NewSessionStore()

	prevNow := timeNow
	timeNow = func() time.Time { return testNow }
	t.Cleanup(func() { timeNow = prevNow })
	return env
}

// seedAdmin stores an admin account that logs in with testAdminPassword.
func (env *testEnv) seedAdmin(t *testing.T) accountDomain.Account {
	t.Helper()
	acct := accountDomain.Account{
		ID:        "acct-1",
		Email:     "admin@example.org",
		Role:      accountDomain.RoleAdmin,
		CreatedAt: testNow,
	}
	if err := acct.SetPassword(testAdminPassword); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	env.accounts.accounts[acct.ID] = acct
	return acct
}

// seedApplication stores a leadership application submitted `ago` before testNow.
func (env *testEnv) seedApplication(id, first, last string, ago time.Duration, extra map[string]string) submissionDomain.Submission {
	fields := map[string]string{
		"firstName":    first,
		"lastName":     last,
		"email":        strings.ToLower(first) + "@example.org",
		"phone":        "0241234567",
		"address":      "12 Ring Road, Accra",
		"gender":       "Female",
		"church":       "Grace Chapel",
		"zone":         "Zone 3",
		"officeApply":  "Youth Coordinator",
		"reasonsApply": "I want to serve the youth of our zone.",
	}
	for k, v := range extra {
		fields[k] = v
	}
	sub := submissionDomain.Submission{
		ID:          id,
		Kind:        submissionDomain.KindLeadership,
		SubmittedAt: testNow.Add(-ago),
		Fields:      fields,
	}
	env.subs.subs[id] = sub
	return sub
}

// adminSession is an authenticated admin for handler tests.
var adminSession = middleware.Session{
	AccountID: "acct-1",
	Email:     "admin@example.org",
	Role:      accountDomain.RoleAdmin,
	CreatedAt: testNow,
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	return req.WithContext(middleware.ContextWithSession(req.Context(), sess))
}

// formRequest returns a url-encoded POST.
func formRequest(url, body string) *http.Request {
	req := httptest.NewRequest("POST", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

var errStoreDown = errors.New("store unavailable")

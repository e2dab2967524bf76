//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	redisv8 "github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/adapter"
	"openlearn-backend/internal/domain/ports/repository"
	redisinfra "openlearn-backend/internal/infra/redis"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Transaction manager
// =============================

// MockTxManager runs the callback directly, passing a marker value as the
// tx handle, and counts lock acquisitions per user.
type MockTxManager struct {
	mu        sync.Mutex
	WithTxErr error
	Locked    []string
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

type mockTx struct{}

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxErr != nil {
		return m.WithTxErr
	}
	return fn(ctx, mockTx{})
}

func (m *MockTxManager) LockUser(_ context.Context, _ repository.Tx, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Locked = append(m.Locked, userID)
	return nil
}

// =============================
// Repositories
// =============================

type MockUserRepo struct {
	mu    sync.Mutex
	Users map[string]*model.User

	SaveFunc       func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc   func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	CountUsersFunc func(ctx context.Context, tx repository.Tx) (int, error)

	SaveCalls int
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo(users ...*model.User) *MockUserRepo {
	m := &MockUserRepo{Users: make(map[string]*model.User)}
	for _, u := range users {
		cp := *u
		m.Users[u.ID] = &cp
	}
	return m
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.Users[u.ID] = &cp
	m.SaveCalls++
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) List(_ context.Context, _ repository.Tx, _, _ int) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(m.Users))
	for _, u := range m.Users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

func (m *MockUserRepo) TopByScore(_ context.Context, _ repository.Tx, limit int, seasonal bool) ([]*model.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.LeaderboardEntry
	for _, u := range m.Users {
		score := u.TotalScore
		if seasonal {
			score = u.SeasonalScore
		}
		out = append(out, &model.LeaderboardEntry{UserID: u.ID, DisplayName: u.DisplayName, Score: score})
	}
	// insertion sort, small n
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (m *MockUserRepo) ResetSeasonalScores(_ context.Context, _ repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.Users {
		if u.SeasonalScore != 0 {
			u.SeasonalScore = 0
			n++
		}
	}
	return n, nil
}

func (m *MockUserRepo) DeactivateLapsedSubscribers(_ context.Context, _ repository.Tx, now time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, u := range m.Users {
		if u.SubscriptionActive && u.SubscriberUntil != nil && !u.SubscriberUntil.After(now) {
			u.SubscriptionActive = false
			u.RevokeRole(model.RoleSubscriber)
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	Subs map[string]*model.Subscription // keyed by user id

	SaveFunc          func(ctx context.Context, tx repository.Tx, sub *model.Subscription) error
	CountByStatusFunc func(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo(subs ...*model.Subscription) *MockSubscriptionRepo {
	m := &MockSubscriptionRepo{Subs: make(map[string]*model.Subscription)}
	for _, s := range subs {
		cp := *s
		m.Subs[s.UserID] = &cp
	}
	return m
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.Subs[sub.UserID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByUser(_ context.Context, _ repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.SubscriptionStatus]int)
	for _, s := range m.Subs {
		out[s.Status]++
	}
	return out, nil
}

func (m *MockSubscriptionRepo) ExpireLapsed(_ context.Context, _ repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.Subs {
		if s.Status == model.SubscriptionStatusActive && s.CurrentPeriodEnd != nil && !s.CurrentPeriodEnd.After(now) {
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

type MockPlanRepo struct {
	Plans map[string]*model.SubscriptionPlan
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo(plans ...*model.SubscriptionPlan) *MockPlanRepo {
	m := &MockPlanRepo{Plans: make(map[string]*model.SubscriptionPlan)}
	for _, p := range plans {
		m.Plans[p.ID] = p
	}
	return m
}

func (m *MockPlanRepo) Save(_ context.Context, _ repository.Tx, p *model.SubscriptionPlan) error {
	m.Plans[p.ID] = p
	return nil
}

func (m *MockPlanRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.SubscriptionPlan, error) {
	p, ok := m.Plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *MockPlanRepo) List(_ context.Context, _ repository.Tx) ([]*model.SubscriptionPlan, error) {
	out := make([]*model.SubscriptionPlan, 0, len(m.Plans))
	for _, p := range m.Plans {
		out = append(out, p)
	}
	return out, nil
}

type MockPaymentRepo struct {
	mu       sync.Mutex
	Payments map[string]*model.Payment // keyed by order id

	SumByPeriodFunc func(ctx context.Context, tx repository.Tx, period string) (int64, error)

	UpdateStatusCalls int
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo(payments ...*model.Payment) *MockPaymentRepo {
	m := &MockPaymentRepo{Payments: make(map[string]*model.Payment)}
	for _, p := range payments {
		cp := *p
		m.Payments[p.OrderID] = &cp
	}
	return m
}

func (m *MockPaymentRepo) Save(_ context.Context, _ repository.Tx, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Payments[p.OrderID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) FindByOrderID(_ context.Context, _ repository.Tx, orderID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Payments[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) UpdateStatus(_ context.Context, _ repository.Tx, id string, status model.PaymentStatus, paidAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Payments {
		if p.ID == id {
			p.Status = status
			if paidAt != nil {
				p.PaidAt = paidAt
			}
			m.UpdateStatusCalls++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockPaymentRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	if m.SumByPeriodFunc != nil {
		return m.SumByPeriodFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, p := range m.Payments {
		if p.Status == model.PaymentStatusSucceeded {
			sum += p.Amount
		}
	}
	return sum, nil
}

type MockPurchaseRepo struct {
	mu       sync.Mutex
	Requests map[string]*model.PurchaseRequest
}

var _ repository.PurchaseRequestRepository = (*MockPurchaseRepo)(nil)

func NewMockPurchaseRepo(requests ...*model.PurchaseRequest) *MockPurchaseRepo {
	m := &MockPurchaseRepo{Requests: make(map[string]*model.PurchaseRequest)}
	for _, r := range requests {
		cp := *r
		m.Requests[r.ID] = &cp
	}
	return m
}

func (m *MockPurchaseRepo) Save(_ context.Context, _ repository.Tx, pr *model.PurchaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pr
	m.Requests[pr.ID] = &cp
	return nil
}

func (m *MockPurchaseRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.PurchaseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.Requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (m *MockPurchaseRepo) ListPending(_ context.Context, _ repository.Tx, _, _ int) ([]*model.PurchaseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PurchaseRequest
	for _, pr := range m.Requests {
		if pr.Status == model.PurchaseRequestPending {
			cp := *pr
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPurchaseRepo) ListByUser(_ context.Context, _ repository.Tx, userID string) ([]*model.PurchaseRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PurchaseRequest
	for _, pr := range m.Requests {
		if pr.UserID == userID {
			cp := *pr
			out = append(out, &cp)
		}
	}
	return out, nil
}

type progressKey struct{ user, chapter string }
type grantKey struct{ user, course string }

type MockCourseRepo struct {
	mu       sync.Mutex
	Courses  map[string]*model.Course
	Progress map[progressKey]*model.ChapterProgress
	Grants   map[grantKey]*model.CourseGrant
}

var _ repository.CourseRepository = (*MockCourseRepo)(nil)

func NewMockCourseRepo(courses ...*model.Course) *MockCourseRepo {
	m := &MockCourseRepo{
		Courses:  make(map[string]*model.Course),
		Progress: make(map[progressKey]*model.ChapterProgress),
		Grants:   make(map[grantKey]*model.CourseGrant),
	}
	for _, c := range courses {
		m.Courses[c.ID] = c
	}
	return m
}

func (m *MockCourseRepo) Save(_ context.Context, _ repository.Tx, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Courses[c.ID] = c
	return nil
}

func (m *MockCourseRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Courses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *MockCourseRepo) FindBySlug(_ context.Context, _ repository.Tx, slug string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCourseRepo) ListPublished(_ context.Context, _ repository.Tx, _, _ int) ([]*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Course
	for _, c := range m.Courses {
		if c.Published {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCourseRepo) SaveProgress(_ context.Context, _ repository.Tx, p *model.ChapterProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := progressKey{p.UserID, p.ChapterID}
	if _, ok := m.Progress[k]; !ok {
		cp := *p
		m.Progress[k] = &cp
	}
	return nil
}

func (m *MockCourseRepo) CompletedChapters(_ context.Context, _ repository.Tx, userID, courseID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.Progress {
		if p.UserID == userID && p.CourseID == courseID {
			out = append(out, p.ChapterID)
		}
	}
	return out, nil
}

func (m *MockCourseRepo) SaveGrant(_ context.Context, _ repository.Tx, g *model.CourseGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := grantKey{g.UserID, g.CourseID}
	if _, ok := m.Grants[k]; !ok {
		cp := *g
		m.Grants[k] = &cp
	}
	return nil
}

func (m *MockCourseRepo) HasGrant(_ context.Context, _ repository.Tx, userID, courseID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Grants[grantKey{userID, courseID}]
	return ok, nil
}

type MockCertificateRepo struct {
	mu    sync.Mutex
	Certs map[grantKey]*model.Certificate

	FindByUserAndCourseFunc func(ctx context.Context, tx repository.Tx, userID, courseID string) (*model.Certificate, error)
}

var _ repository.CertificateRepository = (*MockCertificateRepo)(nil)

func NewMockCertificateRepo() *MockCertificateRepo {
	return &MockCertificateRepo{Certs: make(map[grantKey]*model.Certificate)}
}

func (m *MockCertificateRepo) Save(_ context.Context, _ repository.Tx, c *model.Certificate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := grantKey{c.UserID, c.CourseID}
	if _, ok := m.Certs[k]; !ok {
		cp := *c
		m.Certs[k] = &cp
	}
	return nil
}

func (m *MockCertificateRepo) FindByUserAndCourse(ctx context.Context, tx repository.Tx, userID, courseID string) (*model.Certificate, error) {
	if m.FindByUserAndCourseFunc != nil {
		return m.FindByUserAndCourseFunc(ctx, tx, userID, courseID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Certs[grantKey{userID, courseID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCertificateRepo) ListByUser(_ context.Context, _ repository.Tx, userID string) ([]*model.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Certificate
	for _, c := range m.Certs {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type MockAssignmentRepo struct {
	Assignments map[string]*model.Assignment
}

var _ repository.AssignmentRepository = (*MockAssignmentRepo)(nil)

func NewMockAssignmentRepo(assignments ...*model.Assignment) *MockAssignmentRepo {
	m := &MockAssignmentRepo{Assignments: make(map[string]*model.Assignment)}
	for _, a := range assignments {
		m.Assignments[a.ID] = a
	}
	return m
}

func (m *MockAssignmentRepo) Save(_ context.Context, _ repository.Tx, a *model.Assignment) error {
	m.Assignments[a.ID] = a
	return nil
}

func (m *MockAssignmentRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Assignment, error) {
	a, ok := m.Assignments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *MockAssignmentRepo) ListByCourse(_ context.Context, _ repository.Tx, courseID string) ([]*model.Assignment, error) {
	var out []*model.Assignment
	for _, a := range m.Assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

type submissionKey struct{ assignment, user string }

type MockSubmissionRepo struct {
	mu          sync.Mutex
	Submissions map[submissionKey]*model.Submission

	FindByAssignmentAndUserFunc func(ctx context.Context, tx repository.Tx, assignmentID, userID string) (*model.Submission, error)
}

var _ repository.SubmissionRepository = (*MockSubmissionRepo)(nil)

func NewMockSubmissionRepo(submissions ...*model.Submission) *MockSubmissionRepo {
	m := &MockSubmissionRepo{Submissions: make(map[submissionKey]*model.Submission)}
	for _, s := range submissions {
		cp := *s
		m.Submissions[submissionKey{s.AssignmentID, s.UserID}] = &cp
	}
	return m
}

func (m *MockSubmissionRepo) Save(_ context.Context, _ repository.Tx, s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.Submissions[submissionKey{s.AssignmentID, s.UserID}] = &cp
	return nil
}

func (m *MockSubmissionRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Submissions {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubmissionRepo) FindByAssignmentAndUser(ctx context.Context, tx repository.Tx, assignmentID, userID string) (*model.Submission, error) {
	if m.FindByAssignmentAndUserFunc != nil {
		return m.FindByAssignmentAndUserFunc(ctx, tx, assignmentID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Submissions[submissionKey{assignmentID, userID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubmissionRepo) ListPendingReview(_ context.Context, _ repository.Tx, _, _ int) ([]*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Submission
	for _, s := range m.Submissions {
		if s.Status == model.SubmissionStatusSubmitted || s.Status == model.SubmissionStatusNeedsCorrection {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type MockForumRepo struct {
	mu      sync.Mutex
	Threads map[string]*model.ForumThread
	Replies map[string]*model.ForumReply
}

var _ repository.ForumRepository = (*MockForumRepo)(nil)

func NewMockForumRepo() *MockForumRepo {
	return &MockForumRepo{
		Threads: make(map[string]*model.ForumThread),
		Replies: make(map[string]*model.ForumReply),
	}
}

func (m *MockForumRepo) SaveThread(_ context.Context, _ repository.Tx, t *model.ForumThread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.Threads[t.ID] = &cp
	return nil
}

func (m *MockForumRepo) FindThread(_ context.Context, _ repository.Tx, id string) (*model.ForumThread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Threads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockForumRepo) ListThreads(_ context.Context, _ repository.Tx, courseID string, _, _ int) ([]*model.ForumThread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ForumThread
	for _, t := range m.Threads {
		if t.CourseID == courseID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockForumRepo) DeleteThread(_ context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Threads, id)
	for rid, r := range m.Replies {
		if r.ThreadID == id {
			delete(m.Replies, rid)
		}
	}
	return nil
}

func (m *MockForumRepo) SaveReply(_ context.Context, _ repository.Tx, r *model.ForumReply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.Replies[r.ID] = &cp
	return nil
}

func (m *MockForumRepo) ListReplies(_ context.Context, _ repository.Tx, threadID string) ([]*model.ForumReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ForumReply
	for _, r := range m.Replies {
		if r.ThreadID == threadID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockForumRepo) DeleteReply(_ context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Replies, id)
	return nil
}

// =============================
// Redis
// =============================

// FakeRedis is an in-memory stand-in for the redis client, enough for the
// rate limiter and leaderboard paths.
type FakeRedis struct {
	mu       sync.Mutex
	Values   map[string]string
	Counters map[string]int64
	Boards   map[string]map[string]float64
	Err      error
}

var _ redisinfra.Client = (*FakeRedis)(nil)

func NewFakeRedis() *FakeRedis {
	return &FakeRedis{
		Values:   make(map[string]string),
		Counters: make(map[string]int64),
		Boards:   make(map[string]map[string]float64),
	}
}

func (f *FakeRedis) Ping(context.Context) error { return f.Err }

func (f *FakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Values[key] = fmt.Sprint(value)
	return nil
}

func (f *FakeRedis) Get(_ context.Context, key string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Values[key]
	if !ok {
		return "", redisv8.Nil
	}
	return v, nil
}

func (f *FakeRedis) Incr(_ context.Context, key string) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Counters[key]++
	return f.Counters[key], nil
}

func (f *FakeRedis) Expire(context.Context, string, time.Duration) error { return f.Err }

func (f *FakeRedis) Del(_ context.Context, keys ...string) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.Values, k)
		delete(f.Counters, k)
		delete(f.Boards, k)
	}
	return nil
}

func (f *FakeRedis) ZIncrBy(_ context.Context, key string, increment float64, member string) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Boards[key] == nil {
		f.Boards[key] = make(map[string]float64)
	}
	f.Boards[key][member] += increment
	return nil
}

func (f *FakeRedis) ZRevRangeWithScores(_ context.Context, key string, start, stop int64) ([]redisv8.Z, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var zs []redisv8.Z
	for member, score := range f.Boards[key] {
		zs = append(zs, redisv8.Z{Member: member, Score: score})
	}
	for i := 1; i < len(zs); i++ {
		for j := i; j > 0 && zs[j].Score > zs[j-1].Score; j-- {
			zs[j], zs[j-1] = zs[j-1], zs[j]
		}
	}
	if start >= int64(len(zs)) {
		return nil, nil
	}
	if stop < 0 || stop >= int64(len(zs)) {
		stop = int64(len(zs)) - 1
	}
	return zs[start : stop+1], nil
}

func (f *FakeRedis) ZRevRank(ctx context.Context, key, member string) (int64, error) {
	zs, err := f.ZRevRangeWithScores(ctx, key, 0, -1)
	if err != nil {
		return 0, err
	}
	for i, z := range zs {
		if z.Member == member {
			return int64(i), nil
		}
	}
	return 0, redisv8.Nil
}

func (f *FakeRedis) ZScore(_ context.Context, key, member string) (float64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	board, ok := f.Boards[key]
	if !ok {
		return 0, redisv8.Nil
	}
	score, ok := board[member]
	if !ok {
		return 0, redisv8.Nil
	}
	return score, nil
}

func (f *FakeRedis) Close() error { return nil }

// =============================
// Adapters
// =============================

type MockGateway struct {
	CreateCheckoutFunc func(ctx context.Context, orderID string, amount int64, customerEmail, description string) (*adapter.CheckoutSession, error)
	QueryStatusFunc    func(ctx context.Context, orderID string) (*adapter.GatewayStatus, error)
}

var _ adapter.PaymentGateway = (*MockGateway)(nil)

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreateCheckout(ctx context.Context, orderID string, amount int64, customerEmail, description string) (*adapter.CheckoutSession, error) {
	if m.CreateCheckoutFunc != nil {
		return m.CreateCheckoutFunc(ctx, orderID, amount, customerEmail, description)
	}
	return &adapter.CheckoutSession{Token: "tok-" + orderID, RedirectURL: "https://pay.example/" + orderID}, nil
}

func (m *MockGateway) QueryStatus(ctx context.Context, orderID string) (*adapter.GatewayStatus, error) {
	if m.QueryStatusFunc != nil {
		return m.QueryStatusFunc(ctx, orderID)
	}
	return &adapter.GatewayStatus{OrderID: orderID, TransactionStatus: "pending"}, nil
}

type MockAssistant struct {
	NameVal  string
	ChatFunc func(ctx context.Context, messages []adapter.Message) (string, error)
	Calls    int
}

var _ adapter.AssistantAdapter = (*MockAssistant)(nil)

func (m *MockAssistant) Name() string { return m.NameVal }

func (m *MockAssistant) Chat(ctx context.Context, messages []adapter.Message) (string, error) {
	m.Calls++
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return "mock reply", nil
}

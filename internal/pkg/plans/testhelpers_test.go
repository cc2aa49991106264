package plans

import (
	"sort"
	"sync"
	"time"

	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// memRepo is an in-memory Repository used to exercise the engine without a
// database. It mimics the store contract, including the conditional close
// and gorm's not-found sentinel.
type memRepo struct {
	mu            sync.Mutex
	users         map[uint]*models.User
	plans         map[uint]*models.Plan
	histories     []*models.PlanHistory
	nextHistoryID uint

	// Injected per-user failures for sweep isolation tests.
	getActiveErr map[uint]error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:        make(map[uint]*models.User),
		plans:        make(map[uint]*models.Plan),
		getActiveErr: make(map[uint]error),
	}
}

func (m *memRepo) addUser(id uint) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: id, Name: "user", Email: "user@example.com", Status: models.STATUS_ACTIVE}
	m.users[id] = u
	return u
}

func (m *memRepo) addPlan(id uint, name string, durationDays int, isDefault bool, features ...string) *models.Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Plan{
		ID:           id,
		Name:         name,
		Features:     features,
		DurationDays: durationDays,
		IsDefault:    isDefault,
		IsActive:     true,
	}
	m.plans[id] = p
	return p
}

func (m *memRepo) removePlan(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, id)
}

func (m *memRepo) GetUser(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) UpdateUserPlanPointer(userID uint, planID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pid := planID
	u.PlanID = &pid
	return nil
}

func (m *memRepo) GetPlan(id uint) (*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetDefaultPlan() (*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.IsDefault {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) CreateHistory(history *models.PlanHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextHistoryID++
	history.ID = m.nextHistoryID
	cp := *history
	m.histories = append(m.histories, &cp)
	return nil
}

func (m *memRepo) GetActiveHistory(userID uint) (*models.PlanHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.getActiveErr[userID]; ok {
		return nil, err
	}
	for _, h := range m.histories {
		if h.UserID == userID && h.Status == models.PLAN_STATUS_ACTIVE {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) ListActiveHistory() ([]models.PlanHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PlanHistory
	for _, h := range m.histories {
		if h.Status == models.PLAN_STATUS_ACTIVE {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *memRepo) ListHistoryByUser(userID uint) ([]models.PlanHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PlanHistory
	for _, h := range m.histories {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (m *memRepo) CloseActiveHistory(userID uint, endDate time.Time, status, reason string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var affected int64
	for _, h := range m.histories {
		if h.UserID == userID && h.Status == models.PLAN_STATUS_ACTIVE {
			end := endDate
			h.EndDate = &end
			h.Status = status
			h.Reason = reason
			affected++
		}
	}
	return affected, nil
}

func (m *memRepo) activeCount(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, h := range m.histories {
		if h.UserID == userID && h.Status == models.PLAN_STATUS_ACTIVE {
			count++
		}
	}
	return count
}

func (m *memRepo) historyCount(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, h := range m.histories {
		if h.UserID == userID {
			count++
		}
	}
	return count
}

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

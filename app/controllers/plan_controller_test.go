package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/internal/pkg/plans"
)

// stubEngineRepo backs the engine with in-memory state for handler tests.
type stubEngineRepo struct {
	users     map[uint]*models.User
	plansByID map[uint]*models.Plan
	history   []models.PlanHistory
	nextID    uint
}

func newStubEngineRepo() *stubEngineRepo {
	return &stubEngineRepo{
		users:     make(map[uint]*models.User),
		plansByID: make(map[uint]*models.Plan),
		nextID:    1,
	}
}

func (r *stubEngineRepo) GetUser(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubEngineRepo) UpdateUserPlanPointer(userID uint, planID uint) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	id := planID
	user.PlanID = &id
	return nil
}

func (r *stubEngineRepo) GetPlan(id uint) (*models.Plan, error) {
	plan, ok := r.plansByID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *plan
	return &copied, nil
}

func (r *stubEngineRepo) GetDefaultPlan() (*models.Plan, error) {
	for _, plan := range r.plansByID {
		if plan.IsDefault {
			copied := *plan
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEngineRepo) CreateHistory(history *models.PlanHistory) error {
	history.ID = r.nextID
	r.nextID++
	r.history = append(r.history, *history)
	return nil
}

func (r *stubEngineRepo) GetActiveHistory(userID uint) (*models.PlanHistory, error) {
	for i := range r.history {
		if r.history[i].UserID == userID && r.history[i].Status == models.PLAN_STATUS_ACTIVE {
			copied := r.history[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEngineRepo) ListActiveHistory() ([]models.PlanHistory, error) {
	var active []models.PlanHistory
	for _, record := range r.history {
		if record.Status == models.PLAN_STATUS_ACTIVE {
			active = append(active, record)
		}
	}
	return active, nil
}

func (r *stubEngineRepo) ListHistoryByUser(userID uint) ([]models.PlanHistory, error) {
	var result []models.PlanHistory
	for _, record := range r.history {
		if record.UserID == userID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *stubEngineRepo) CloseActiveHistory(userID uint, endDate time.Time, status, reason string) (int64, error) {
	var affected int64
	for i := range r.history {
		if r.history[i].UserID == userID && r.history[i].Status == models.PLAN_STATUS_ACTIVE {
			end := endDate
			r.history[i].EndDate = &end
			r.history[i].Status = status
			r.history[i].Reason = reason
			affected++
		}
	}
	return affected, nil
}

func newPlanTestApp(repo *stubEngineRepo) *fiber.App {
	engine := plans.NewService(repo)
	controller := NewPlanController(engine, nil)

	app := fiber.New()
	app.Get("/users/:id/plan", controller.HandleGetUserPlan)
	app.Get("/users/:id/plan-history", controller.HandleGetUserPlanHistory)
	app.Put("/users/:id/plan", controller.HandleAssignUserPlan)
	return app
}

func TestHandleGetUserPlanUnknownUser(t *testing.T) {
	app := newPlanTestApp(newStubEngineRepo())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/42/plan", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body["error"])
}

func TestHandleGetUserPlanNoPlan(t *testing.T) {
	repo := newStubEngineRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice"}
	app := newPlanTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/1/plan", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "no_plan", body["error"])
}

func TestHandleGetUserPlanIntegrityAnomaly(t *testing.T) {
	repo := newStubEngineRepo()
	missing := uint(99)
	repo.users[1] = &models.User{ID: 1, Name: "Alice", PlanID: &missing}
	app := newPlanTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/1/plan", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "integrity_anomaly", body["error"])
}

func TestHandleAssignUserPlanRoundTrip(t *testing.T) {
	repo := newStubEngineRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice"}
	repo.plansByID[3] = &models.Plan{ID: 3, Name: "pro", DurationDays: 30, IsActive: true}
	app := newPlanTestApp(repo)

	payload, _ := json.Marshal(fiber.Map{"plan_id": 3, "reason": "upgrade"})
	req := httptest.NewRequest(http.MethodPut, "/users/1/plan", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	require.NotNil(t, user.PlanID)
	assert.Equal(t, uint(3), *user.PlanID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/users/1/plan", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var plan models.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.Equal(t, "pro", plan.Name)
}

func TestHandleAssignUserPlanUnknownPlan(t *testing.T) {
	repo := newStubEngineRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice"}
	app := newPlanTestApp(repo)

	payload, _ := json.Marshal(fiber.Map{"plan_id": 99})
	req := httptest.NewRequest(http.MethodPut, "/users/1/plan", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleAssignUserPlanMissingPlanID(t *testing.T) {
	repo := newStubEngineRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice"}
	app := newPlanTestApp(repo)

	req := httptest.NewRequest(http.MethodPut, "/users/1/plan", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetUserPlanHistory(t *testing.T) {
	repo := newStubEngineRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice"}
	repo.plansByID[2] = &models.Plan{ID: 2, Name: "free", DurationDays: 9999, IsDefault: true, IsActive: true}
	repo.plansByID[3] = &models.Plan{ID: 3, Name: "pro", DurationDays: 30, IsActive: true}
	app := newPlanTestApp(repo)

	for _, planID := range []uint{2, 3} {
		payload, _ := json.Marshal(fiber.Map{"plan_id": planID})
		req := httptest.NewRequest(http.MethodPut, "/users/1/plan", bytes.NewReader(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/1/plan-history", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var history []models.PlanHistory
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history, 2)

	assert.Equal(t, models.PLAN_STATUS_CANCELLED, history[0].Status)
	assert.NotNil(t, history[0].EndDate)
	assert.Equal(t, models.PLAN_STATUS_ACTIVE, history[1].Status)
}

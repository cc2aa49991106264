package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cardboardhq/cardboard/app/models"
	"github.com/cardboardhq/cardboard/app/repository"
	"github.com/cardboardhq/cardboard/internal/pkg/cache"
	"github.com/cardboardhq/cardboard/internal/pkg/plans"
)

const (
	planCatalogCacheKey = "plans:active"
	planCatalogCacheTTL = 5 * time.Minute
)

// PlanController serves the plan catalog and the entitlement endpoints.
// All plan-state mutations go through the engine; the controller never
// touches the ledger or the user plan pointer itself.
type PlanController struct {
	engine *plans.Service
	plans  repository.PlanRepository
}

// NewPlanController creates a plan controller on top of the engine.
func NewPlanController(engine *plans.Service, planRepo repository.PlanRepository) *PlanController {
	return &PlanController{engine: engine, plans: planRepo}
}

// HandleListPlans returns the active catalog. Public endpoint, cached.
func (pc *PlanController) HandleListPlans(c *fiber.Ctx) error {
	if cached, err := cache.Get(planCatalogCacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	catalog, err := pc.plans.ListActive()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plans")
	}

	if payload, err := json.Marshal(catalog); err == nil {
		if err := cache.Set(planCatalogCacheKey, string(payload), planCatalogCacheTTL); err != nil {
			log.Printf("failed to cache plan catalog: %v", err)
		}
	}

	return c.JSON(catalog)
}

type createPlanRequest struct {
	Name         string   `json:"name"`
	Price        *float64 `json:"price"`
	Features     []string `json:"features"`
	DurationDays *int     `json:"duration_days"`
	IsDefault    bool     `json:"is_default"`
}

// HandleCreatePlan creates a catalog entry. Admin only.
func (pc *PlanController) HandleCreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}
	if req.Name == "" || req.Price == nil || req.Features == nil || req.DurationDays == nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "name, price, features and duration_days are required")
	}

	if _, err := pc.plans.GetByName(req.Name); err == nil {
		return errorJSON(c, fiber.StatusConflict, "conflict", "A plan with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check plan name")
	}

	plan := &models.Plan{
		Name:         req.Name,
		Price:        *req.Price,
		Features:     req.Features,
		DurationDays: *req.DurationDays,
		IsDefault:    req.IsDefault,
		IsActive:     true,
	}
	if err := plan.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	}

	if err := pc.plans.Create(plan); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create plan")
	}

	if err := cache.Delete(planCatalogCacheKey); err != nil {
		log.Printf("failed to invalidate plan catalog cache: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

type updatePlanRequest struct {
	Price        *float64 `json:"price"`
	Features     []string `json:"features"`
	DurationDays *int     `json:"duration_days"`
	IsDefault    *bool    `json:"is_default"`
	IsActive     *bool    `json:"is_active"`
}

// HandleUpdatePlan edits a catalog entry, including soft deactivation.
// Admin only. The plan name is immutable once created; history references
// plans by id and the name is the catalog's human key.
func (pc *PlanController) HandleUpdatePlan(c *fiber.Ctx) error {
	planID := parseIDParam(c, "id")
	if planID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid plan id")
	}

	plan, err := pc.plans.GetByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "Plan not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plan")
	}

	var req updatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}

	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Features != nil {
		plan.Features = req.Features
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.IsDefault != nil {
		plan.IsDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := plan.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	}

	if err := pc.plans.Update(plan); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update plan")
	}

	if err := cache.Delete(planCatalogCacheKey); err != nil {
		log.Printf("failed to invalidate plan catalog cache: %v", err)
	}

	return c.JSON(plan)
}

// HandleDeactivatePlan retires a plan from new assignments. Admin only.
// The plan row stays; history and current assignments keep referencing it.
func (pc *PlanController) HandleDeactivatePlan(c *fiber.Ctx) error {
	planID := parseIDParam(c, "id")
	if planID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid plan id")
	}

	if _, err := pc.plans.GetByID(planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "Plan not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plan")
	}

	if err := pc.plans.Deactivate(planID); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to deactivate plan")
	}

	if err := cache.Delete(planCatalogCacheKey); err != nil {
		log.Printf("failed to invalidate plan catalog cache: %v", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetUserPlan returns the user's current plan. A user who was never
// assigned a plan gets a 404 with a no_plan code, distinct from an unknown
// user.
func (pc *PlanController) HandleGetUserPlan(c *fiber.Ctx) error {
	userID := parseIDParam(c, "id")
	if userID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid user id")
	}

	plan, err := pc.engine.CurrentPlan(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, plans.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, "not_found", "User not found")
		case errors.Is(err, plans.ErrIntegrity):
			log.Printf("plan integrity anomaly for user %d: %v", userID, err)
			return errorJSON(c, fiber.StatusInternalServerError, "integrity_anomaly", "Plan data is inconsistent for this user")
		default:
			return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plan")
		}
	}
	if plan == nil {
		return errorJSON(c, fiber.StatusNotFound, "no_plan", "User has no active plan")
	}

	return c.JSON(plan)
}

type assignPlanRequest struct {
	PlanID uint   `json:"plan_id"`
	Reason string `json:"reason"`
}

// HandleAssignUserPlan manually moves a user onto a plan. Admin only.
func (pc *PlanController) HandleAssignUserPlan(c *fiber.Ctx) error {
	userID := parseIDParam(c, "id")
	if userID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid user id")
	}

	var req assignPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid request body")
	}

	user, err := pc.engine.AssignPlan(c.Context(), userID, req.PlanID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, plans.ErrInvalidInput):
			return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "plan_id is required")
		case errors.Is(err, plans.ErrPlanNotFound):
			return errorJSON(c, fiber.StatusNotFound, "not_found", "Plan not found")
		case errors.Is(err, plans.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, "not_found", "User not found")
		default:
			log.Printf("plan assignment failed for user %d: %v", userID, err)
			return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to assign plan")
		}
	}

	return c.JSON(user)
}

// HandleGetUserPlanHistory returns the user's full audit trail, newest
// start first.
func (pc *PlanController) HandleGetUserPlanHistory(c *fiber.Ctx) error {
	userID := parseIDParam(c, "id")
	if userID == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid_input", "Invalid user id")
	}

	history, err := pc.engine.History(c.Context(), userID)
	if err != nil {
		if errors.Is(err, plans.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plan history")
	}

	return c.JSON(history)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureListContains(t *testing.T) {
	tests := []struct {
		features FeatureList
		name     string
		want     bool
	}{
		{features: FeatureList{"unlimited_lists"}, name: "unlimited_lists", want: true},
		{features: FeatureList{"a", "b"}, name: "c", want: false},
		{features: FeatureList{}, name: "unlimited_lists", want: false},
		{features: nil, name: "unlimited_lists", want: false},
	}

	for _, tt := range tests {
		if got := tt.features.Contains(tt.name); got != tt.want {
			t.Fatalf("Contains(%q) on %v = %v, want %v", tt.name, tt.features, got, tt.want)
		}
	}
}

func TestFeatureListScanValueRoundTrip(t *testing.T) {
	original := FeatureList{"unlimited_lists", "priority_support"}

	value, err := original.Value()
	require.NoError(t, err)

	var scanned FeatureList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, original, scanned)

	var fromNil FeatureList
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}

func TestPlanIsNonExpiring(t *testing.T) {
	if (&Plan{DurationDays: 30}).IsNonExpiring() {
		t.Fatal("30-day plan should expire")
	}
	if !(&Plan{DurationDays: 9999}).IsNonExpiring() {
		t.Fatal("9999-day plan should never expire")
	}
	if !(&Plan{DurationDays: NonExpiringDurationDays}).IsNonExpiring() {
		t.Fatal("threshold duration should count as non-expiring")
	}
}

func TestPlanValidate(t *testing.T) {
	plan := &Plan{Name: "pro", Price: 9.90, DurationDays: 30}
	assert.NoError(t, plan.Validate())

	assert.Error(t, (&Plan{Name: "", Price: 1, DurationDays: 30}).Validate())
	assert.Error(t, (&Plan{Name: "pro", Price: -1, DurationDays: 30}).Validate())
	assert.Error(t, (&Plan{Name: "pro", Price: 1, DurationDays: 0}).Validate())
}

func TestPlanHistoryExpiresAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	history := &PlanHistory{StartDate: start}

	expiresAt, ok := history.ExpiresAt(&Plan{DurationDays: 30})
	require.True(t, ok)
	assert.Equal(t, start.AddDate(0, 0, 30), expiresAt)

	_, ok = history.ExpiresAt(&Plan{DurationDays: 9999})
	assert.False(t, ok, "non-expiring plan has no expiry")

	_, ok = history.ExpiresAt(nil)
	assert.False(t, ok)
}

func TestPlanHistoryIsActive(t *testing.T) {
	assert.True(t, (&PlanHistory{Status: PLAN_STATUS_ACTIVE}).IsActive())
	assert.False(t, (&PlanHistory{Status: PLAN_STATUS_EXPIRED}).IsActive())
	assert.False(t, (&PlanHistory{Status: PLAN_STATUS_CANCELLED}).IsActive())
}

package progress

import (
	"reflect"
	"testing"

	"solartrack/internal/model"
)

func report(week int, pct int, milestones ...int64) model.WeeklyReport {
	return model.WeeklyReport{
		Week:       week,
		Progress:   pct,
		Milestones: milestones,
	}
}

func TestInheritedMilestones(t *testing.T) {
	reports := []model.WeeklyReport{
		report(1, 25, 10, 11),
		report(2, 50, 10, 11, 12),
		report(3, 75, 10, 11, 12, 13),
	}

	tests := []struct {
		name       string
		beforeWeek int
		want       []int64
	}{
		{"before first week", 1, []int64{}},
		{"after week one", 2, []int64{10, 11}},
		{"after week two", 3, []int64{10, 11, 12}},
		{"after all weeks", 4, []int64{10, 11, 12, 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InheritedMilestones(reports, tt.beforeWeek).Slice()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InheritedMilestones(%d) = %v, want %v", tt.beforeWeek, got, tt.want)
			}
		})
	}
}

func TestInheritedMilestonesEmpty(t *testing.T) {
	got := InheritedMilestones(nil, 5)
	if got.Len() != 0 {
		t.Errorf("expected empty floor for no reports, got %v", got.Slice())
	}
}

func TestCompletionCeiling(t *testing.T) {
	reports := []model.WeeklyReport{
		report(1, 25, 10),
		report(2, 50, 10, 11, 12),
		report(3, 75, 10, 11, 13),
	}

	tests := []struct {
		name      string
		afterWeek int
		want      []int64
		nilWant   bool
	}{
		{"after week one", 1, []int64{10, 11}, false},
		{"after week two", 2, []int64{10, 11, 13}, false},
		{"after latest week", 3, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionCeiling(reports, tt.afterWeek)
			if tt.nilWant {
				if got != nil {
					t.Fatalf("expected nil ceiling, got %v", got.Slice())
				}
				return
			}
			if !reflect.DeepEqual(got.Slice(), tt.want) {
				t.Errorf("CompletionCeiling(%d) = %v, want %v", tt.afterWeek, got.Slice(), tt.want)
			}
		})
	}
}

func TestLatestProgress(t *testing.T) {
	tests := []struct {
		name    string
		reports []model.WeeklyReport
		want    int
	}{
		{"empty list", nil, 0},
		{"single report", []model.WeeklyReport{report(1, 30)}, 30},
		{"ascending order", []model.WeeklyReport{report(1, 30), report(2, 60)}, 60},
		{"descending order", []model.WeeklyReport{report(2, 60), report(1, 30)}, 60},
		{"shuffled", []model.WeeklyReport{report(2, 60), report(3, 40), report(1, 30)}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatestProgress(tt.reports); got != tt.want {
				t.Errorf("LatestProgress = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name        string
		checked     int
		catalogSize int
		want        int
	}{
		{"empty catalog", 3, 0, 0},
		{"nothing checked", 0, 4, 0},
		{"half checked", 2, 4, 50},
		{"three quarters", 3, 4, 75},
		{"all checked", 4, 4, 100},
		{"round half up", 1, 8, 13},   // 12.5
		{"round down", 1, 3, 33},      // 33.33
		{"round up", 2, 3, 67},        // 66.67
		{"half up at five", 3, 8, 38}, // 37.5
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeProgress(tt.checked, tt.catalogSize); got != tt.want {
				t.Errorf("ComputeProgress(%d, %d) = %d, want %d", tt.checked, tt.catalogSize, got, tt.want)
			}
		})
	}
}

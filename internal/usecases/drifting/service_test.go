package drifting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/drifting"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

func ptr(v float64) *float64 { return &v }

func sampleSummary() *domain.PeriodSummary {
	return &domain.PeriodSummary{
		DateRange: "2026-08-01 to 2026-08-14",
		Campaigns: []string{"Summer Sale", "Brand Awareness", "Retargeting"},
		OverallMetrics: &domain.OverallMetrics{
			AvgCTR:       ptr(0.025),
			AvgROAS:      ptr(4.2),
			TotalSpend:   ptr(18000),
			TotalRevenue: ptr(75600),
		},
		TopDrops: domain.TopDrops{
			ROASDropCampaigns: []*domain.DropRecord{
				{Campaign: "Summer Sale", BaselineValue: 10, CurrentValue: 6, AbsoluteDelta: -4, RelativeDelta: -0.4, Spend: 12000},
				{Campaign: "Retargeting", BaselineValue: 5, CurrentValue: 4, AbsoluteDelta: -1, RelativeDelta: -0.2, Spend: 3000},
			},
			CTRDropCampaigns: []*domain.DropRecord{
				{Campaign: "Brand Awareness", BaselineValue: 0.03, CurrentValue: 0.024, AbsoluteDelta: -0.006, RelativeDelta: -0.2},
			},
		},
	}
}

func TestDetectDriftWithoutBaseline(t *testing.T) {
	service := drifting.NewService(config.NewTestConfig(), drifting.NewInMemoryStore())

	assert.False(t, service.HasBaseline())

	report := service.DetectDrift(service.ComputeStats(sampleSummary()))

	assert.False(t, report.HasDrift)
	assert.Equal(t, domain.DriftNone, report.Severity)
	assert.Empty(t, report.Detections)
}

func TestComputeStats(t *testing.T) {
	service := drifting.NewService(config.NewTestConfig(), drifting.NewInMemoryStore())

	stats := service.ComputeStats(sampleSummary())

	assert.NotEmpty(t, stats.RunTimestamp)
	assert.Equal(t, 3, stats.Campaigns.Count)
	assert.Equal(t, []string{"Summer Sale", "Brand Awareness", "Retargeting"}, stats.Campaigns.List)
	assert.Equal(t, 2, stats.PerformanceDrops.ROASCount)
	assert.Equal(t, 1, stats.PerformanceDrops.CTRCount)

	assert.Equal(t, 4.2, stats.OverallMetrics["avg_roas"])
	assert.Equal(t, 18000.0, stats.OverallMetrics["total_spend"])

	roasChanges := stats.MetricChanges[domain.MetricROAS]
	require.NotNil(t, roasChanges)
	assert.Equal(t, 2, roasChanges.Count)
	assert.InDelta(t, utils.Mean([]float64{-0.4, -0.2}), roasChanges.Mean, 1e-9)
	assert.Equal(t, -0.4, roasChanges.Min)
	assert.Equal(t, -0.2, roasChanges.Max)

	ctrChanges := stats.MetricChanges[domain.MetricCTR]
	require.NotNil(t, ctrChanges)
	assert.Equal(t, 1, ctrChanges.Count)
	assert.Equal(t, -0.2, ctrChanges.Median)
}

func TestComputeStatsNilSummary(t *testing.T) {
	service := drifting.NewService(config.NewTestConfig(), drifting.NewInMemoryStore())

	stats := service.ComputeStats(nil)

	assert.Zero(t, stats.Campaigns.Count)
	assert.Empty(t, stats.MetricChanges)
	assert.NotEmpty(t, stats.RunTimestamp)
}

func TestDetectDrift(t *testing.T) {
	tests := []struct {
		name             string
		baseline         *domain.SnapshotStats
		current          *domain.SnapshotStats
		expectedDrift    bool
		expectedSeverity domain.DriftSeverity
		expectedTypes    []string
	}{
		{
			name:             "Snapshot idêntico ao baseline não gera drift",
			baseline:         &domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 10}},
			current:          &domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 10}},
			expectedDrift:    false,
			expectedSeverity: domain.DriftNone,
		},
		{
			name:             "Desvio acima do limiar gera drift medium",
			baseline:         &domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 10}},
			current:          &domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 12}},
			expectedDrift:    true,
			expectedSeverity: domain.DriftMedium,
			expectedTypes:    []string{"campaign_count"},
		},
		{
			name:             "Desvio acima do limiar de severidade alta gera drift high",
			baseline:         &domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 10}},
			current:          &domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 20}},
			expectedDrift:    true,
			expectedSeverity: domain.DriftHigh,
			expectedTypes:    []string{"campaign_count"},
		},
		{
			name: "Uma detecção high eleva a severidade do relatório",
			baseline: &domain.SnapshotStats{
				Campaigns:        domain.CampaignStats{Count: 10},
				PerformanceDrops: domain.DropCounts{ROASCount: 2},
			},
			current: &domain.SnapshotStats{
				Campaigns:        domain.CampaignStats{Count: 12},
				PerformanceDrops: domain.DropCounts{ROASCount: 6},
			},
			expectedDrift:    true,
			expectedSeverity: domain.DriftHigh,
			expectedTypes:    []string{"campaign_count", "roas_drop_count"},
		},
		{
			name:             "Baseline zerado é ignorado na comparação",
			baseline:         &domain.SnapshotStats{PerformanceDrops: domain.DropCounts{CTRCount: 0}},
			current:          &domain.SnapshotStats{PerformanceDrops: domain.DropCounts{CTRCount: 8}},
			expectedDrift:    false,
			expectedSeverity: domain.DriftNone,
		},
		{
			name: "Média das quedas de ROAS entra na comparação por família",
			baseline: &domain.SnapshotStats{
				MetricChanges: map[domain.MetricFamily]*domain.ChangeStats{
					domain.MetricROAS: {Mean: -0.2, Count: 2},
				},
			},
			current: &domain.SnapshotStats{
				MetricChanges: map[domain.MetricFamily]*domain.ChangeStats{
					domain.MetricROAS: {Mean: -0.3, Count: 2},
				},
			},
			expectedDrift:    true,
			expectedSeverity: domain.DriftMedium,
			expectedTypes:    []string{"roas_changes_mean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := drifting.NewInMemoryStore()
			require.NoError(t, store.Save(tt.baseline))

			service := drifting.NewService(config.NewTestConfig(), store)
			require.True(t, service.HasBaseline())

			report := service.DetectDrift(tt.current)

			assert.Equal(t, tt.expectedDrift, report.HasDrift)
			assert.Equal(t, tt.expectedSeverity, report.Severity)

			types := make([]string, 0, len(report.Detections))
			for _, detection := range report.Detections {
				types = append(types, detection.Type)
			}
			assert.ElementsMatch(t, tt.expectedTypes, types)
		})
	}
}

func TestDetectDriftPercentage(t *testing.T) {
	store := drifting.NewInMemoryStore()
	require.NoError(t, store.Save(&domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 10}}))

	service := drifting.NewService(config.NewTestConfig(), store)
	report := service.DetectDrift(&domain.SnapshotStats{Campaigns: domain.CampaignStats{Count: 14}})

	require.Len(t, report.Detections, 1)
	assert.Equal(t, 40.0, report.Detections[0].DriftPct)
	assert.Equal(t, 10.0, report.Detections[0].Baseline)
	assert.Equal(t, 14.0, report.Detections[0].Current)
}

func TestSaveBaseline(t *testing.T) {
	store := drifting.NewInMemoryStore()
	service := drifting.NewService(config.NewTestConfig(), store)

	require.False(t, service.HasBaseline())

	stats := service.ComputeStats(sampleSummary())
	require.NoError(t, service.SaveBaseline(stats))

	// O baseline recém-gravado vale para a própria instância, sem recarga
	assert.True(t, service.HasBaseline())

	report := service.DetectDrift(stats)
	assert.False(t, report.HasDrift)

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, stats, persisted)
}

package baseline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-insight-engine/infrastructure/baseline"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := baseline.NewFileStore(filepath.Join(t.TempDir(), "baseline_stats.json"))

	stats, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestFileStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "baseline_stats.json")
	store := baseline.NewFileStore(path)

	stats := &domain.SnapshotStats{
		RunTimestamp: "2026-08-30T10:00:00Z",
		Campaigns:    domain.CampaignStats{Count: 3, List: []string{"Summer Sale", "Brand Awareness", "Retargeting"}},
		PerformanceDrops: domain.DropCounts{
			ROASCount: 2,
			CTRCount:  1,
		},
		OverallMetrics: map[string]float64{"avg_roas": 4.2},
		MetricChanges: map[domain.MetricFamily]*domain.ChangeStats{
			domain.MetricROAS: {Mean: -0.3, Count: 2},
		},
	}

	require.NoError(t, store.Save(stats))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, stats, loaded)
}

func TestFileStoreLoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline_stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store := baseline.NewFileStore(path)

	stats, err := store.Load()

	assert.Error(t, err)
	assert.Nil(t, stats)
}

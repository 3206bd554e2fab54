package insighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

func TestOutlierFilter(t *testing.T) {
	filter := OutlierFilter{LowerPct: 10, UpperPct: 90}

	tests := []struct {
		name            string
		sample          []float64
		expectedRemoved int
	}{
		{
			name:            "Amostra vazia volta inalterada",
			sample:          []float64{},
			expectedRemoved: 0,
		},
		{
			name:            "Amostra unitária volta inalterada",
			sample:          []float64{-0.5},
			expectedRemoved: 0,
		},
		{
			name:            "Amostra homogênea não remove nada",
			sample:          []float64{-0.2, -0.2, -0.2, -0.2},
			expectedRemoved: 0,
		},
		{
			name:            "Extremos fora do p10-p90 são removidos",
			sample:          []float64{-0.1, -0.12, -0.11, -0.13, -0.1, -0.12, -0.11, -0.1, -0.13, -0.12, -5.0},
			expectedRemoved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, removed := filter.Filter(tt.sample)

			assert.Equal(t, tt.expectedRemoved, removed)
			assert.Len(t, filtered, len(tt.sample)-tt.expectedRemoved)
			assert.LessOrEqual(t, len(filtered), len(tt.sample))

			if len(tt.sample) < 2 {
				return
			}

			// todo valor retido está dentro do intervalo [p10, p90] da amostra original
			lower := utils.Percentile(tt.sample, 10)
			upper := utils.Percentile(tt.sample, 90)
			for _, v := range filtered {
				assert.GreaterOrEqual(t, v, lower)
				assert.LessOrEqual(t, v, upper)
			}
		})
	}
}

package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/internal/usecases/analyzing/mocks"
	"go.uber.org/mock/gomock"
)

func TestAnalysisSyncService_runScheduledAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := mocks.NewMockAnalyzer(ctrl)

	service := &AnalysisSyncService{
		config:   AnalysisSyncConfig{SyncEnabled: true},
		analyzer: mockAnalyzer,
	}

	tests := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, s *AnalysisSyncService)
	}{
		{
			name: "Execução agendada bem-sucedida registra os horários de início e fim",
			setup: func() {
				mockAnalyzer.EXPECT().
					Run(gomock.Any(), scheduledQuery).
					Return(&domain.AnalysisRun{
						RunID:    "run0000001",
						Insights: &domain.InsightsDocument{},
					}, nil)
			},
			validate: func(t *testing.T, s *AnalysisSyncService) {
				startedAt, completedAt := s.LastRunTimes()
				assert.False(t, startedAt.IsZero())
				assert.False(t, completedAt.IsZero())
				assert.False(t, completedAt.Before(startedAt))
			},
		},
		{
			name: "Falha no pipeline não registra horário de conclusão",
			setup: func() {
				mockAnalyzer.EXPECT().
					Run(gomock.Any(), scheduledQuery).
					Return(nil, errors.New("dataset indisponível"))
			},
			validate: func(t *testing.T, s *AnalysisSyncService) {
				startedAt, _ := s.LastRunTimes()
				assert.False(t, startedAt.IsZero())
				assert.False(t, s.runRunning)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			service.runScheduledAnalysis(context.Background())

			tt.validate(t, service)
		})
	}
}

func TestAnalysisSyncService_skipsOverlappingRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma chamada ao analisador é esperada com uma execução em andamento
	mockAnalyzer := mocks.NewMockAnalyzer(ctrl)

	service := &AnalysisSyncService{
		config:     AnalysisSyncConfig{SyncEnabled: true},
		analyzer:   mockAnalyzer,
		runRunning: true,
	}

	service.runScheduledAnalysis(context.Background())

	assert.True(t, service.runRunning)
}

func TestAnalysisSyncService_startDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.NewTestConfig()
	cfg.AnalysisSync.Enabled = false
	cfg.AnalysisSync.CronSchedule = "0 6 * * *"

	service := NewAnalysisSyncService(mocks.NewMockAnalyzer(ctrl), cfg)

	// Desabilitado: Start retorna sem agendar nada
	assert.NoError(t, service.Start(context.Background()))

	startedAt, completedAt := service.LastRunTimes()
	assert.True(t, startedAt.IsZero())
	assert.True(t, completedAt.IsZero())
}

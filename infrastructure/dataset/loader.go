// Package dataset carrega o histórico de campanhas em CSV e produz o resumo
// de período consumido pelo motor de análise.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-insight-engine/internal/config"
	"github.com/vfg2006/campaign-insight-engine/internal/domain"
	"github.com/vfg2006/campaign-insight-engine/pkg/log"
	"github.com/vfg2006/campaign-insight-engine/pkg/utils"
)

// row é uma linha normalizada do dataset de campanhas
type row struct {
	date        time.Time
	campaign    string
	ctr         *float64
	roas        *float64
	spend       *float64
	revenue     *float64
	impressions *float64
}

// Loader lê o CSV de campanhas e agrega o período recente contra o período
// imediatamente anterior de mesma duração
type Loader struct {
	cfg config.Dataset
}

// NewLoader cria um carregador para a configuração de dataset informada
func NewLoader(cfg config.Dataset) *Loader {
	return &Loader{cfg: cfg}
}

// Summarize carrega o CSV e monta o PeriodSummary: métricas gerais, lista de
// campanhas e registros de queda por família (ROAS e CTR)
func (l *Loader) Summarize(ctx context.Context) (*domain.PeriodSummary, error) {
	logger := log.ForContext(ctx)

	rows, err := l.load()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.Errorf("dataset vazio: %s", l.cfg.CSVPath)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	summary := &domain.PeriodSummary{
		DateRange: fmt.Sprintf("%s to %s",
			rows[0].date.Format(time.DateOnly),
			rows[len(rows)-1].date.Format(time.DateOnly)),
		Campaigns:      campaignList(rows),
		OverallMetrics: overallMetrics(rows),
		TopDrops: domain.TopDrops{
			ROASDropCampaigns: []*domain.DropRecord{},
			CTRDropCampaigns:  []*domain.DropRecord{},
		},
	}

	l.detectDrops(rows, summary)

	logger.WithFields(log.Fields{
		"campaigns":  len(summary.Campaigns),
		"roas_drops": len(summary.TopDrops.ROASDropCampaigns),
		"ctr_drops":  len(summary.TopDrops.CTRDropCampaigns),
	}).Info("Resumo do período montado a partir do dataset")

	return summary, nil
}

func (l *Loader) load() ([]row, error) {
	file, err := os.Open(l.cfg.CSVPath)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir dataset %s", l.cfg.CSVPath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler dataset %s", l.cfg.CSVPath)
	}

	if len(records) < 2 {
		return nil, errors.Errorf("dataset sem linhas de dados: %s", l.cfg.CSVPath)
	}

	header := map[string]int{}
	for idx, name := range records[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}

	dateIdx, ok := header["date"]
	if !ok {
		return nil, errors.New("dataset sem coluna 'date'")
	}
	campaignIdx, ok := header["campaign_name"]
	if !ok {
		return nil, errors.New("dataset sem coluna 'campaign_name'")
	}

	rows := make([]row, 0, len(records)-1)
	for _, record := range records[1:] {
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			// linhas com data inválida são descartadas, não abortam a carga
			continue
		}

		rows = append(rows, row{
			date:        date,
			campaign:    strings.TrimSpace(record[campaignIdx]),
			ctr:         numericField(record, header, "ctr"),
			roas:        numericField(record, header, "roas"),
			spend:       numericField(record, header, "spend"),
			revenue:     numericField(record, header, "revenue"),
			impressions: numericField(record, header, "impressions"),
		})
	}

	return rows, nil
}

func numericField(record []string, header map[string]int, name string) *float64 {
	idx, ok := header[name]
	if !ok || idx >= len(record) {
		return nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
	if err != nil {
		return nil
	}

	return &value
}

func campaignList(rows []row) []string {
	seen := map[string]bool{}
	campaigns := []string{}
	for _, r := range rows {
		if r.campaign == "" || seen[r.campaign] {
			continue
		}
		seen[r.campaign] = true
		campaigns = append(campaigns, r.campaign)
	}
	return campaigns
}

func overallMetrics(rows []row) *domain.OverallMetrics {
	metrics := &domain.OverallMetrics{}

	var ctrSum, roasSum, spendSum, revenueSum float64
	var ctrCount, roasCount, spendCount, revenueCount int

	for _, r := range rows {
		if r.ctr != nil {
			ctrSum += *r.ctr
			ctrCount++
		}
		if r.roas != nil {
			roasSum += *r.roas
			roasCount++
		}
		if r.spend != nil {
			spendSum += *r.spend
			spendCount++
		}
		if r.revenue != nil {
			revenueSum += *r.revenue
			revenueCount++
		}
	}

	if ctrCount > 0 {
		avg := ctrSum / float64(ctrCount)
		metrics.AvgCTR = &avg
	}
	if roasCount > 0 {
		avg := roasSum / float64(roasCount)
		metrics.AvgROAS = &avg
	}
	if spendCount > 0 {
		total := spendSum
		metrics.TotalSpend = &total
	}
	if revenueCount > 0 {
		total := revenueSum
		metrics.TotalRevenue = &total
	}

	return metrics
}

// periodAverages acumula as médias de uma campanha dentro de um período
type periodAverages struct {
	roas        float64
	roasOK      bool
	ctr         float64
	ctrOK       bool
	impressions float64
	spendTotal  float64
}

// detectDrops compara os últimos RecentDays dias com o período anterior de
// mesma duração e registra as campanhas cuja métrica caiu além do limiar
func (l *Loader) detectDrops(rows []row, summary *domain.PeriodSummary) {
	lastDate := rows[len(rows)-1].date
	recentStart := lastDate.AddDate(0, 0, -l.cfg.RecentDays)
	prevStart := lastDate.AddDate(0, 0, -2*l.cfg.RecentDays)

	recent := map[string][]row{}
	previous := map[string][]row{}
	for _, r := range rows {
		switch {
		case r.date.After(recentStart):
			recent[r.campaign] = append(recent[r.campaign], r)
		case r.date.After(prevStart):
			previous[r.campaign] = append(previous[r.campaign], r)
		}
	}

	for _, campaign := range summary.Campaigns {
		recentAvg, recentOK := average(recent[campaign])
		prevAvg, prevOK := average(previous[campaign])
		if !recentOK || !prevOK {
			continue
		}

		if recentAvg.roasOK && prevAvg.roasOK && prevAvg.roas != 0 {
			change := utils.PercentChange(recentAvg.roas, prevAvg.roas, 0)
			if change < -l.cfg.DropThreshold {
				summary.TopDrops.ROASDropCampaigns = append(summary.TopDrops.ROASDropCampaigns, &domain.DropRecord{
					Campaign:      campaign,
					BaselineValue: prevAvg.roas,
					CurrentValue:  recentAvg.roas,
					AbsoluteDelta: recentAvg.roas - prevAvg.roas,
					RelativeDelta: change,
					Spend:         recentAvg.spendTotal,
				})
			}
		}

		if recentAvg.ctrOK && prevAvg.ctrOK && prevAvg.ctr != 0 {
			change := utils.PercentChange(recentAvg.ctr, prevAvg.ctr, 0)
			if change < -l.cfg.DropThreshold {
				summary.TopDrops.CTRDropCampaigns = append(summary.TopDrops.CTRDropCampaigns, &domain.DropRecord{
					Campaign:          campaign,
					BaselineValue:     prevAvg.ctr,
					CurrentValue:      recentAvg.ctr,
					AbsoluteDelta:     recentAvg.ctr - prevAvg.ctr,
					RelativeDelta:     change,
					ImpressionsChange: utils.PercentChange(recentAvg.impressions, prevAvg.impressions, 0),
				})
			}
		}
	}
}

func average(rows []row) (periodAverages, bool) {
	if len(rows) == 0 {
		return periodAverages{}, false
	}

	avg := periodAverages{}
	var roasCount, ctrCount, impressionsCount int

	for _, r := range rows {
		if r.roas != nil {
			avg.roas += *r.roas
			roasCount++
		}
		if r.ctr != nil {
			avg.ctr += *r.ctr
			ctrCount++
		}
		if r.impressions != nil {
			avg.impressions += *r.impressions
			impressionsCount++
		}
		if r.spend != nil {
			avg.spendTotal += *r.spend
		}
	}

	if roasCount > 0 {
		avg.roas /= float64(roasCount)
		avg.roasOK = true
	}
	if ctrCount > 0 {
		avg.ctr /= float64(ctrCount)
		avg.ctrOK = true
	}
	if impressionsCount > 0 {
		avg.impressions /= float64(impressionsCount)
	}

	return avg, true
}

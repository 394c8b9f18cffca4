package models

import (
	"encoding/json"
	"fmt"

	"github.com/dyike/ButterflyBrain/consts"
)

// PutCallRatio is either a number or the unavailable sentinel, never absent.
type PutCallRatio struct {
	Value     float64
	Available bool
}

func PCR(v float64) PutCallRatio { return PutCallRatio{Value: v, Available: true} }

func (p PutCallRatio) String() string {
	if !p.Available {
		return consts.PCRUnavailable
	}
	return fmt.Sprintf("%.2f", p.Value)
}

func (p PutCallRatio) MarshalJSON() ([]byte, error) {
	if !p.Available {
		return json.Marshal(consts.PCRUnavailable)
	}
	return json.Marshal(p.Value)
}

func (p *PutCallRatio) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*p = PCR(v)
		return nil
	}
	*p = PutCallRatio{}
	return nil
}

// MetricsReport serializes as {"error": msg} when Error is set.
type MetricsReport struct {
	AnnualizedVolatilityPercent float64      `json:"annualized_volatility_percent"`
	PutCallRatioEstimate        PutCallRatio `json:"put_call_ratio_estimate"`
	CurrentPrice                float64      `json:"current_price"`
	Week52High                  float64      `json:"52_week_high"`
	Week52Low                   float64      `json:"52_week_low"`
	Error                       string       `json:"-"`
}

func MetricsError(err error) *MetricsReport {
	return &MetricsReport{Error: err.Error()}
}

func (m *MetricsReport) IsError() bool { return m == nil || m.Error != "" }

func (m MetricsReport) MarshalJSON() ([]byte, error) {
	if m.Error != "" {
		return json.Marshal(map[string]string{"error": m.Error})
	}
	type plain MetricsReport
	return json.Marshal(plain(m))
}

type AnomalyEvent struct {
	Date          string `json:"date"`
	Type          string `json:"type"`
	Magnitude     string `json:"magnitude"`
	PossibleCause string `json:"possible_cause"`
}

// DeepAnalysis is the result of one /deep_analysis request.
type DeepAnalysis struct {
	Ticker        string         `json:"ticker"`
	Market        string         `json:"market"`
	ReportSummary string         `json:"report_summary"`
	Metrics       *MetricsReport `json:"metrics"`
	Events        []AnomalyEvent `json:"events"`
}

// ChatTurn lives for a single request.
type ChatTurn struct {
	Ticker   string `json:"ticker"`
	Market   string `json:"market"`
	Question string `json:"question"`
	Context  string `json:"context"`
}

package entity

// BudgetInfo represents a budget with actual and forecasted spend.
type BudgetInfo struct {
	Name     string  `json:"name"`
	Limit    float64 `json:"limit"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast,omitempty"`
}

// UsagePercent returns actual spend as a percentage of the limit.
func (b BudgetInfo) UsagePercent() float64 {
	if b.Limit <= 0 {
		return 0
	}
	return b.Actual / b.Limit * 100
}

// Exceeded reports whether actual spend is over the limit.
func (b BudgetInfo) Exceeded() bool {
	return b.Limit > 0 && b.Actual > b.Limit
}

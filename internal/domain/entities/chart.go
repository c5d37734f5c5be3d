package entities

import (
	"encoding/json"
	"fmt"
)

// DefaultChartDays is the fallback window when a request asks for an
// unsupported number of days.
const DefaultChartDays = 7

var supportedChartDays = map[int]bool{7: true, 14: true, 30: true}

// NormalizeChartDays clamps a requested day window to a supported value
func NormalizeChartDays(days int) int {
	if supportedChartDays[days] {
		return days
	}
	return DefaultChartDays
}

// ChartPoint is a single time-indexed value. On the wire it is a two-element
// array [timestampMillis, value], matching the upstream chart format.
type ChartPoint struct {
	TimestampMillis int64
	Value           float64
}

// MarshalJSON encodes the point as [timestamp, value]
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.TimestampMillis), p.Value})
}

// UnmarshalJSON decodes a [timestamp, value] pair
func (p *ChartPoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return fmt.Errorf("chart point needs 2 elements, got %d", len(pair))
	}
	p.TimestampMillis = int64(pair[0])
	p.Value = pair[1]
	return nil
}

// ChartSeries holds parallel price and volume series for one coin and window
type ChartSeries struct {
	Prices       []ChartPoint `json:"prices"`
	TotalVolumes []ChartPoint `json:"total_volumes"`
}

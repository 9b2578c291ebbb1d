package provider

import (
	"encoding/json"
	"strconv"
)

// ExtractValue normalizes a stat value from the shapes API-Sports uses.
//
// Most counters are flat numbers, but bucketed stats come as objects such as
// {"total": 2, "percentage": "10.00%"}. This handles both, extracting the
// aggregate.
//
// Returns the scalar float64 value, and ok=false if not extractable.
func ExtractValue(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
		return 0, false
	case map[string]interface{}:
		for _, key := range []string{"total", "all", "count"} {
			if inner, exists := v[key]; exists && inner != nil {
				return ExtractValue(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// SumTotals adds the aggregate of every bucket in a keyed bucket object.
// Bucket keys are not fixed, so all present keys are visited; a bucket whose
// total is null or missing counts as zero. A nil map yields nil.
func SumTotals(buckets map[string]interface{}) *int {
	if buckets == nil {
		return nil
	}
	var sum float64
	for _, bucket := range buckets {
		if v, ok := ExtractValue(bucket); ok {
			sum += v
		}
	}
	total := int(sum)
	return &total
}

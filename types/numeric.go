package types

import (
	"encoding/json"
	"math"

	"gopkg.in/yaml.v3"
)

// isFinite reports whether v is neither NaN nor an infinity.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// isIntegerInRange is the shared rule of the fixed-width integer kinds:
// finite, integral and inside the closed interval [lo, hi].
func isIntegerInRange(v, lo, hi float64) bool {
	return isFinite(v) && v >= lo && v <= hi && math.Floor(v) == v
}

// decodeJSONNumber reads a JSON number into a float64 so the caller can run
// it through the kind's constructor.
func decodeJSONNumber(kind string, data []byte) (float64, error) {
	var raw float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, invalid(kind, string(data))
	}
	return raw, nil
}

func decodeYAMLNumber(kind string, node *yaml.Node) (float64, error) {
	var raw float64
	if err := node.Decode(&raw); err != nil {
		return 0, invalid(kind, node.Value)
	}
	return raw, nil
}

package http

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"hpcpredict/ml"
)

var (
	ErrMissingField  = errors.New("missing form field")
	ErrInvalidNumber = errors.New("form field is not a number")
)

// ParseFeatures reads X1..X10 from a submitted form in model order. It
// returns the parsed vector and the raw values for re-rendering.
func ParseFeatures(form url.Values) ([]float64, map[string]string, error) {
	names := ml.FeatureNames()
	features := make([]float64, len(names))
	raw := make(map[string]string, len(names))
	for i, name := range names {
		values, ok := form[name]
		if !ok || len(values) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		text := strings.TrimSpace(values[0])
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, name, values[0])
		}
		features[i] = v
		raw[name] = text
	}
	return features, raw, nil
}

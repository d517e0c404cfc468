package ml

import "fmt"

// FeatureCount is the arity of every feature vector the model accepts.
const FeatureCount = 10

// TargetColumn names the label column of the dataset.
const TargetColumn = "Y"

var featureNames = buildFeatureNames()

func buildFeatureNames() []string {
	names := make([]string, FeatureCount)
	for i := range names {
		names[i] = fmt.Sprintf("X%d", i+1)
	}
	return names
}

// FeatureNames returns X1..X10 in model order.
func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

func checkArity(features []float64) error {
	if len(features) != FeatureCount {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureArity, len(features), FeatureCount)
	}
	return nil
}

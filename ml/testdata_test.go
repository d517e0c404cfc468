package ml

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

// syntheticCSV builds a dataset whose target depends mostly on X1 and X7.
func syntheticCSV(rows int) string {
	rnd := rand.New(rand.NewSource(7))
	var b strings.Builder
	b.WriteString(strings.Join(FeatureNames(), ","))
	b.WriteString(",Y\n")
	for i := 0; i < rows; i++ {
		x := make([]float64, FeatureCount)
		for j := range x {
			x[j] = float64(rnd.Intn(100))
		}
		x[6] = 1 + float64(rnd.Intn(21))/10
		y := x[0]*2/x[6] + x[1]*0.1
		for _, v := range x {
			fmt.Fprintf(&b, "%g,", v)
		}
		fmt.Fprintf(&b, "%.4f\n", y)
	}
	return b.String()
}

func syntheticDataset(t *testing.T, rows int) *Dataset {
	t.Helper()
	ds, err := ReadDataset(strings.NewReader(syntheticCSV(rows)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ds
}

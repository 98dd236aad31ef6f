package segment

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/spice-harvester/internal/model"
)

// featureMatrix holds customer features in original units, with missing
// values imputed by the column mean, plus the standardized copy that
// clustering runs on. Scaling never leaves this package.
type featureMatrix struct {
	features []string
	raw      [][]float64
	scaled   [][]float64
	distinct int
}

func buildMatrix(records []model.CustomerRecord, features []string) featureMatrix {
	n := len(records)
	m := featureMatrix{
		features: features,
		raw:      make([][]float64, n),
		scaled:   make([][]float64, n),
	}
	for i := range m.raw {
		m.raw[i] = make([]float64, len(features))
		m.scaled[i] = make([]float64, len(features))
	}

	for j, feature := range features {
		var observed []float64
		for i := range records {
			if v, ok := records[i].Feature(feature); ok {
				observed = append(observed, v)
			}
		}
		mean := 0.0
		if len(observed) > 0 {
			mean = stat.Mean(observed, nil)
		}
		for i := range records {
			v, ok := records[i].Feature(feature)
			if !ok {
				v = mean
			}
			m.raw[i][j] = v
		}
	}

	// Standardize to zero mean, unit variance per feature. A feature with
	// zero variance scales to zero for every row.
	column := make([]float64, n)
	for j := range features {
		for i := range m.raw {
			column[i] = m.raw[i][j]
		}
		mean := stat.Mean(column, nil)
		std := stat.PopStdDev(column, nil)
		for i := range m.raw {
			if std == 0 {
				m.scaled[i][j] = 0
				continue
			}
			m.scaled[i][j] = (m.raw[i][j] - mean) / std
		}
	}

	seen := make(map[string]bool, n)
	for i := range m.raw {
		seen[fmt.Sprint(m.raw[i])] = true
	}
	m.distinct = len(seen)
	return m
}

package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection is the two-component reduction of a feature matrix. X
// and Y hold one point per input row, rounded to two decimals; VarX
// and VarY are the explained-variance ratios of the two axes, rounded
// to four.
type Projection struct {
	X    []float64
	Y    []float64
	VarX float64
	VarY float64
}

// Project standardizes the rows-by-features matrix and reduces it to
// its first two principal components. It needs at least three rows
// and two columns.
func Project(rows [][]float64) (*Projection, error) {
	n := len(rows)
	if n < 3 {
		return nil, fmt.Errorf("projecting: need at least 3 rows, have %d", n)
	}
	d := len(rows[0])
	if d < 2 {
		return nil, fmt.Errorf("projecting: need at least 2 columns, have %d", d)
	}
	for i, row := range rows {
		if len(row) != d {
			return nil, fmt.Errorf("projecting: row %d has %d columns, want %d", i, len(row), d)
		}
	}

	scaled := mat.NewDense(n, d, nil)
	for j := 0; j < d; j++ {
		col := make([]float64, n)
		for i := range rows {
			col[i] = rows[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		for i := range col {
			scaled.Set(i, j, (col[i]-mean)/std)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(scaled, nil); !ok {
		return nil, fmt.Errorf("projecting: decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	// Orient each axis so its largest-magnitude loading is positive,
	// keeping the projection stable across runs.
	axes := mat.NewDense(d, 2, nil)
	for c := 0; c < 2; c++ {
		sign := 1.0
		largest := 0.0
		for r := 0; r < d; r++ {
			if v := vecs.At(r, c); math.Abs(v) > largest {
				largest = math.Abs(v)
				sign = math.Copysign(1, v)
			}
		}
		for r := 0; r < d; r++ {
			axes.Set(r, c, sign*vecs.At(r, c))
		}
	}

	var projected mat.Dense
	projected.Mul(scaled, axes)

	total := 0.0
	for _, v := range vars {
		total += v
	}

	p := &Projection{
		X:    make([]float64, n),
		Y:    make([]float64, n),
		VarX: Round(vars[0]/total, 4),
		VarY: Round(vars[1]/total, 4),
	}
	for i := 0; i < n; i++ {
		p.X[i] = Round(projected.At(i, 0), 2)
		p.Y[i] = Round(projected.At(i, 1), 2)
	}
	return p, nil
}

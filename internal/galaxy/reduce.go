// Package galaxy projects book embeddings down to 2D/3D coordinates
// for the galaxy visualization.
package galaxy

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinVectors is the smallest corpus worth projecting. Below it the
// reduction returns no coordinates rather than a degenerate layout.
const MinVectors = 10

// Reduce projects vectors onto their first dims principal components,
// dims being 2 or 3. The projection is deterministic for identical
// input. Each output axis is normalized to [-1, 1]. Fewer than
// MinVectors inputs produce an empty result without error.
func Reduce(vectors [][]float32, dims int) ([][]float64, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("unsupported target dims %d, want 2 or 3", dims)
	}
	if len(vectors) < MinVectors {
		return nil, nil
	}

	d := len(vectors[0])
	if d < dims {
		return nil, fmt.Errorf("input dims %d below target %d", d, dims)
	}
	for i, v := range vectors {
		if len(v) != d {
			return nil, fmt.Errorf("vector %d has %d dims, want %d", i, len(v), d)
		}
	}

	n := len(vectors)
	data := mat.NewDense(n, d, nil)
	for i, v := range vectors {
		for j, x := range v {
			data.Set(i, j, float64(x))
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, errors.New("principal component decomposition failed")
	}

	var components mat.Dense
	pc.VectorsTo(&components)

	// Project the centered data onto the leading components.
	means := make([]float64, d)
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, data)
		var sum float64
		for _, x := range col {
			sum += x
		}
		means[j] = sum / float64(n)
	}
	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			centered.Set(i, j, data.At(i, j)-means[j])
		}
	}

	var projected mat.Dense
	projected.Mul(centered, components.Slice(0, d, 0, dims))

	coords := make([][]float64, n)
	for i := range coords {
		coords[i] = make([]float64, dims)
		for j := 0; j < dims; j++ {
			coords[i][j] = projected.At(i, j)
		}
	}

	normalize(coords, dims)
	return coords, nil
}

// normalize rescales each axis to [-1, 1]. A degenerate axis (all
// values equal) collapses to 0.
func normalize(coords [][]float64, dims int) {
	for j := 0; j < dims; j++ {
		minVal, maxVal := coords[0][j], coords[0][j]
		for _, c := range coords {
			if c[j] < minVal {
				minVal = c[j]
			}
			if c[j] > maxVal {
				maxVal = c[j]
			}
		}

		spread := maxVal - minVal
		for _, c := range coords {
			if spread > 0 {
				c[j] = 2*(c[j]-minVal)/spread - 1
			} else {
				c[j] = 0
			}
		}
	}
}

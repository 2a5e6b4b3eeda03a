// Package profiling describes the shape of a numeric column: quartiles, skew, tails and outliers.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Shape is the distribution profile of one monthly count
type Shape struct {
	Count          int      `json:"count"`
	Q1             float64  `json:"q1"`
	Median         float64  `json:"median"`
	Q3             float64  `json:"q3"`
	IQR            float64  `json:"iqr"`
	Skewness       float64  `json:"skewness"`
	ExcessKurtosis float64  `json:"excess_kurtosis"`
	NormalP        *float64 `json:"normal_p"` // nil below three values or for a constant column
	LooksNormal    bool     `json:"looks_normal"`
	Outliers       int      `json:"outliers"`
	Noise          float64  `json:"noise"`
}

// Analyze profiles data. It fails only on empty input.
func Analyze(data []float64) (Shape, error) {
	input := stats.Float64Data(data)
	mean, err := stats.Mean(input)
	if err != nil {
		return Shape{}, err
	}
	stdDev, _ := stats.StandardDeviation(input)
	median, _ := stats.Median(input)

	shape := Shape{
		Count:  len(data),
		Median: median,
		Q1:     median,
		Q3:     median,
	}
	if len(data) > 1 {
		quartiles, err := stats.Quartile(input)
		if err != nil {
			return Shape{}, err
		}
		shape.Q1, shape.Q3 = quartiles.Q1, quartiles.Q3
	}
	shape.IQR = shape.Q3 - shape.Q1

	shape.Skewness = skewness(data, stdDev)
	shape.ExcessKurtosis = excessKurtosis(data, stdDev)
	if p, ok := normalityP(len(data), stdDev, shape.Skewness, shape.ExcessKurtosis); ok {
		shape.NormalP = &p
		shape.LooksNormal = p > 0.05
	}
	shape.Outliers = countOutliers(data, shape.Q1, shape.Q3)
	shape.Noise = noiseCoefficient(mean, stdDev)
	return shape, nil
}

// skewness is the adjusted Fisher-Pearson coefficient
func skewness(data []float64, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	return stat.Skew(data, nil)
}

// excessKurtosis is the bias-corrected sample excess kurtosis
func excessKurtosis(data []float64, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	return stat.ExKurtosis(data, nil)
}

// normalityP approximates a joint skewness/kurtosis test against a chi-squared distribution
// with two degrees of freedom.
func normalityP(n int, stdDev, skew, kurt float64) (float64, bool) {
	if n < 3 || stdDev == 0 {
		return 0, false
	}
	score := math.Abs(skew) + math.Abs(kurt)/2
	chi := distuv.ChiSquared{K: 2}
	return 1 - chi.CDF(score*score), true
}

// countOutliers applies the 1.5 IQR fence
func countOutliers(data []float64, q1, q3 float64) int {
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}

// noiseCoefficient is the coefficient of variation scaled into [0,1]
func noiseCoefficient(mean, stdDev float64) float64 {
	if mean == 0 {
		return 0
	}
	return math.Min(stdDev/math.Abs(mean)/2, 1)
}

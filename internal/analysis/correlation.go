package analysis

import (
	"math"
	"sort"

	"conflictdash/domain/record"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// LowessOptions tune the trend curve. Fraction is the share of points in each local fit;
// Iterations is the number of robustifying passes after the first fit.
type LowessOptions struct {
	Fraction   float64 `json:"fraction"`
	Iterations int     `json:"iterations"`
}

// DefaultLowessOptions match the usual statsmodels defaults
var DefaultLowessOptions = LowessOptions{Fraction: 2.0 / 3.0, Iterations: 3}

// ScatterPoint is one month on the Events/Fatalities scatter
type ScatterPoint struct {
	Events     int    `json:"events"`
	Fatalities int    `json:"fatalities"`
	MonthYear  string `json:"month_year"`
}

// TrendPoint is one vertex of the smoothed curve
type TrendPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CorrelationView is the scatter of Events against Fatalities with its LOWESS trend
type CorrelationView struct {
	Points  []ScatterPoint `json:"points"`
	Trend   []TrendPoint   `json:"trend"`
	Pearson *float64       `json:"pearson"`
}

func (c CorrelationView) Empty() bool { return len(c.Points) == 0 }

// Correlation builds the scatter, its trend and the Pearson coefficient (nil when undefined)
func Correlation(view []record.Record, opts LowessOptions) CorrelationView {
	cv := CorrelationView{Points: []ScatterPoint{}, Trend: []TrendPoint{}}
	if len(view) == 0 {
		return cv
	}

	x := make([]float64, len(view))
	y := make([]float64, len(view))
	for i, r := range view {
		cv.Points = append(cv.Points, ScatterPoint{Events: r.Events, Fatalities: r.Fatalities, MonthYear: r.MonthYear})
		x[i] = float64(r.Events)
		y[i] = float64(r.Fatalities)
	}

	if len(view) > 1 {
		if r := stat.Correlation(x, y, nil); !math.IsNaN(r) {
			cv.Pearson = &r
		}
	}

	xs, fitted := Lowess(x, y, opts)
	for i := range xs {
		if i > 0 && xs[i] == xs[i-1] {
			continue
		}
		cv.Trend = append(cv.Trend, TrendPoint{X: xs[i], Y: fitted[i]})
	}
	return cv
}

// Lowess smooths y against x with locally weighted linear regression. It returns x sorted
// ascending and the fitted value at each sorted x.
func Lowess(x, y []float64, opts LowessOptions) ([]float64, []float64) {
	n := len(x)
	if n == 0 || len(y) != n {
		return []float64{}, []float64{}
	}
	if opts.Fraction <= 0 || opts.Fraction > 1 {
		opts.Fraction = DefaultLowessOptions.Fraction
	}
	if opts.Iterations < 0 {
		opts.Iterations = 0
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, o := range order {
		xs[i] = x[o]
		ys[i] = y[o]
	}

	span := int(math.Ceil(opts.Fraction * float64(n)))
	span = max(1, min(span, n))

	robust := make([]float64, n)
	for i := range robust {
		robust[i] = 1
	}
	fitted := make([]float64, n)
	weights := make([]float64, n)
	distances := make([]float64, n)

	for pass := 0; pass <= opts.Iterations; pass++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				distances[j] = math.Abs(xs[j] - xs[i])
			}
			h := kthSmallest(distances, span)

			for j := 0; j < n; j++ {
				weights[j] = neighbourWeight(distances[j], h) * robust[j]
			}
			v, ok := localFit(xs, ys, weights, xs[i])
			if !ok {
				// Every neighbour was discounted as an outlier; refit on distance alone.
				for j := 0; j < n; j++ {
					weights[j] = neighbourWeight(distances[j], h)
				}
				v, _ = localFit(xs, ys, weights, xs[i])
			}
			fitted[i] = v
		}

		if pass == opts.Iterations {
			break
		}

		residuals := make(stats.Float64Data, n)
		for i := range residuals {
			residuals[i] = math.Abs(ys[i] - fitted[i])
		}
		s, err := stats.Median(residuals)
		if err != nil || s == 0 {
			break
		}
		for i := range robust {
			robust[i] = bisquare((ys[i] - fitted[i]) / (6 * s))
		}
	}

	return xs, fitted
}

// neighbourWeight is the tricube weight of a point at distance d for bandwidth h. A zero
// bandwidth keeps only points at the same x.
func neighbourWeight(d, h float64) float64 {
	if h > 0 {
		return tricube(d / h)
	}
	if d == 0 {
		return 1
	}
	return 0
}

// localFit evaluates the weighted least-squares line at x0, falling back to the weighted mean
// when every weighted x is the same. ok is false when all weights are zero.
func localFit(xs, ys, weights []float64, x0 float64) (float64, bool) {
	var sw, swx, swy float64
	for j := range xs {
		sw += weights[j]
		swx += weights[j] * xs[j]
		swy += weights[j] * ys[j]
	}
	if sw == 0 {
		return 0, false
	}
	meanX := swx / sw

	var varX float64
	for j := range xs {
		d := xs[j] - meanX
		varX += weights[j] * d * d
	}
	if varX <= 1e-12*sw {
		return swy / sw, true
	}

	alpha, beta := stat.LinearRegression(xs, ys, weights, false)
	return alpha + beta*x0, true
}

// kthSmallest returns the k-th smallest value (1-based) without disturbing values
func kthSmallest(values []float64, k int) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[k-1]
}

func tricube(u float64) float64 {
	if u >= 1 {
		return 0
	}
	c := 1 - u*u*u
	return c * c * c
}

func bisquare(u float64) float64 {
	if math.Abs(u) >= 1 {
		return 0
	}
	c := 1 - u*u
	return c * c
}

package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"github.com/born-ml/matrix/tensor"
)

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	tableBorderColor  = "#705090"
)

// newTable returns a rounded table whose first column is right aligned.
func newTable(headers ...string) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return headerStyle
			case col == 0:
				return rightAlignedStyle
			}
			return normalStyle
		})
}

type benchResult struct {
	name   string
	mean   time.Duration
	min    time.Duration
	values []float64 // Result of the last batch
}

// record folds the per-batch durations into mean and min.
func (r *benchResult) record(durations []time.Duration) {
	var total time.Duration
	r.min = durations[0]
	for _, d := range durations {
		total += d
		r.min = min(r.min, d)
	}
	r.mean = total / time.Duration(len(durations))
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	backend := fs.String("backend", "", "backend configuration (default $MATRIX_BACKEND, then cpu)")
	n := fs.Int("n", 256, "side of the square operands")
	chain := fs.Int("chain", 4, "number of chained products per batch")
	batches := fs.Int("batches", 3, "number of timed batches")
	seed := fs.Int64("seed", 1, "random seed for the operands")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 1 || *chain < 1 || *batches < 1 {
		return errors.Errorf("bench: -n, -chain and -batches must be positive, got %d, %d and %d", *n, *chain, *batches)
	}

	eng, err := openEngine(*backend, *seed)
	if err != nil {
		return err
	}
	defer eng.Close()

	a, err := eng.Uniform(-1, 1, *n, *n)
	if err != nil {
		return err
	}
	engineRes, err := benchEngine(a, *chain, *batches)
	if err != nil {
		return err
	}
	engineRes.name = fmt.Sprintf("matrix (%s)", eng.Config())
	gonumRes := benchGonum(a, *chain, *batches)

	flops := 2 * float64(*n) * float64(*n) * float64(*n) * float64(*chain)
	table := newTable("implementation", "mean", "min", "GFLOP/s (min)")
	for _, r := range []benchResult{engineRes, gonumRes} {
		table.Row(r.name,
			r.mean.Round(time.Microsecond).String(),
			r.min.Round(time.Microsecond).String(),
			fmt.Sprintf("%.2f", flops/r.min.Seconds()/1e9))
	}

	fmt.Printf("%d batches of %d chained products of %s×%s float32 (%s operand, %s flops per batch)\n",
		*batches, *chain, humanize.Comma(int64(*n)), humanize.Comma(int64(*n)),
		humanize.Bytes(uint64(*n)*uint64(*n)*4), humanize.Comma(int64(flops)))
	fmt.Println(table)
	fmt.Printf("max relative difference vs gonum: %.3g\n", maxRelDiff(engineRes.values, gonumRes.values))
	return nil
}

// benchEngine computes a^(chain+1) by repeated right multiplication, once
// per batch.
func benchEngine(a *tensor.Matrix, chain, batches int) (benchResult, error) {
	var res benchResult
	durations := make([]time.Duration, batches)
	for b := range batches {
		start := time.Now()
		acc := a
		for i := range chain {
			next, err := acc.MatMul(a)
			if err != nil {
				return benchResult{}, errors.WithMessagef(err, "batch %d, product %d", b, i)
			}
			acc = next
		}
		durations[b] = time.Since(start)
		klog.V(1).Infof("engine batch %d done in %s", b, durations[b])
		res.values = float64s(acc.ToSlice())
	}
	res.record(durations)
	return res, nil
}

// benchGonum runs the same chain in float64 with gonum as the reference.
func benchGonum(a *tensor.Matrix, chain, batches int) benchResult {
	shape := a.Shape()
	rows, cols := shape[0], shape[1]
	ad := mat.NewDense(rows, cols, float64s(a.ToSlice()))

	res := benchResult{name: "gonum mat.Dense (float64)"}
	durations := make([]time.Duration, batches)
	for b := range batches {
		start := time.Now()
		acc := mat.DenseCopyOf(ad)
		for range chain {
			next := mat.NewDense(rows, cols, nil)
			next.Mul(acc, ad)
			acc = next
		}
		durations[b] = time.Since(start)
		res.values = acc.RawMatrix().Data
	}
	res.record(durations)
	return res
}

func float64s(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// maxRelDiff returns max |got-want| / max(1, |want|).
func maxRelDiff(got, want []float64) float64 {
	var worst float64
	for i := range got {
		d := math.Abs(got[i]-want[i]) / math.Max(1, math.Abs(want[i]))
		if d > worst || math.IsNaN(d) {
			worst = d
		}
	}
	return worst
}

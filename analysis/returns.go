// Package analysis consumes finished episodes and turns them into datasets
// and plots.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ordinskiy/rl/envs"
	"github.com/ordinskiy/rl/util"
)

// Returns collects the cumulative reward of every completed episode.
type Returns struct {
	returns []float64
	steps   []int
}

var _ envs.Analyzer = &Returns{}

func NewReturns() *Returns {
	return &Returns{
		returns: make([]float64, 0),
		steps:   make([]int, 0),
	}
}

func (r *Returns) Reset() {
	r.returns = r.returns[:0]
	r.steps = r.steps[:0]
}

func (r *Returns) Analyze(res *envs.EpisodeResult, _ *envs.Trace) {
	if res.Err != nil {
		return
	}
	r.returns = append(r.returns, res.Return)
	r.steps = append(r.steps, res.Steps)
}

func (r *Returns) Returns() []float64 {
	return util.CopyFloat64Slice(r.returns)
}

func (r *Returns) Episodes() int { return len(r.returns) }

func (r *Returns) Mean() float64 {
	if len(r.returns) == 0 {
		return 0
	}
	return stat.Mean(r.returns, nil)
}

// SavePlot renders the per-episode return curve to a PNG.
func (r *Returns) SavePlot(file string) error {
	if len(r.returns) == 0 {
		return fmt.Errorf("analysis: no episodes to plot")
	}
	p := plot.New()
	p.Title.Text = "Episode returns"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Return"

	points := make(plotter.XYs, len(r.returns))
	for i, v := range r.returns {
		points[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	return p.Save(8*vg.Inch, 8*vg.Inch, file)
}

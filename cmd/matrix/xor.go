package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"

	"github.com/born-ml/matrix/engine"
	"github.com/born-ml/matrix/nn"
	"github.com/born-ml/matrix/optim"
	"github.com/born-ml/matrix/tensor"
)

// XOR samples as columns: inputs [2, 4], targets [1, 4].
var (
	xorInputs  = []float32{0, 0, 1, 1, 0, 1, 0, 1}
	xorTargets = []float32{0, 1, 1, 0}
)

type xorOptions struct {
	backend    string
	epochs     int
	hidden     int
	lr         float64
	momentum   float64
	seed       int64
	plotPath   string
	checkpoint string
	quiet      bool
}

func runXOR(args []string) error {
	var opts xorOptions
	fs := flag.NewFlagSet("xor", flag.ContinueOnError)
	fs.StringVar(&opts.backend, "backend", "", "backend configuration (default $MATRIX_BACKEND, then cpu)")
	fs.IntVar(&opts.epochs, "epochs", 5000, "training epochs")
	fs.IntVar(&opts.hidden, "hidden", 8, "hidden layer width")
	fs.Float64Var(&opts.lr, "lr", 1.0, "learning rate")
	fs.Float64Var(&opts.momentum, "momentum", 0.5, "SGD momentum")
	fs.Int64Var(&opts.seed, "seed", 42, "random seed for weight initialization")
	fs.StringVar(&opts.plotPath, "plot", "", "write the loss curve to this PNG file")
	fs.StringVar(&opts.checkpoint, "checkpoint", "", "save the trained model to this SafeTensors file")
	fs.BoolVar(&opts.quiet, "quiet", false, "disable the progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := openEngine(opts.backend, opts.seed)
	if err != nil {
		return err
	}
	defer eng.Close()

	losses, predictions, err := trainXOR(eng, opts)
	if err != nil {
		return err
	}

	table := newTable("x1", "x2", "target", "prediction")
	for i, p := range predictions {
		table.Row(
			fmt.Sprint(xorInputs[i]), fmt.Sprint(xorInputs[4+i]),
			fmt.Sprint(xorTargets[i]), fmt.Sprintf("%.4f", p))
	}
	fmt.Println(table)
	fmt.Printf("final loss %.6f after %d epochs\n", losses[len(losses)-1], len(losses))

	if opts.plotPath != "" {
		if err := plotLoss(losses, opts.plotPath); err != nil {
			return err
		}
		fmt.Printf("loss curve written to %s\n", opts.plotPath)
	}
	return nil
}

// trainXOR fits a 2-hidden-1 Tanh/Sigmoid network and returns the loss per
// epoch and the final prediction for each sample.
func trainXOR(eng *engine.Engine, opts xorOptions) ([]float32, []float32, error) {
	if opts.epochs < 1 {
		return nil, nil, errors.Errorf("xor: -epochs must be positive, got %d", opts.epochs)
	}
	x, err := eng.FromSlice(tensor.Shape{2, 4}, xorInputs)
	if err != nil {
		return nil, nil, err
	}
	y, err := eng.FromSlice(tensor.Shape{1, 4}, xorTargets)
	if err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(opts.seed))
	model, err := nn.NewMLP(eng.Backend(), []int{2, opts.hidden, 1}, tensor.Tanh, tensor.Sigmoid, rng)
	if err != nil {
		return nil, nil, err
	}
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
		LR:       float32(opts.lr),
		Momentum: float32(opts.momentum),
	})

	var bar *progressbar.ProgressBar
	if !opts.quiet {
		bar = progressbar.NewOptions(opts.epochs,
			progressbar.OptionSetDescription("training"),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("epochs"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	losses := make([]float32, 0, opts.epochs)
	for epoch := range opts.epochs {
		optimizer.ZeroGrad()
		pred, err := model.Forward(x)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "epoch %d forward", epoch)
		}
		loss, grad, err := nn.Loss(tensor.MSE, pred, y)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "epoch %d loss", epoch)
		}
		if _, err := model.Backward(grad); err != nil {
			return nil, nil, errors.WithMessagef(err, "epoch %d backward", epoch)
		}
		if err := optimizer.Step(); err != nil {
			return nil, nil, errors.WithMessagef(err, "epoch %d step", epoch)
		}
		losses = append(losses, loss)

		if bar != nil {
			if epoch%100 == 0 {
				bar.Describe(fmt.Sprintf("training (loss %.4f)", loss))
			}
			_ = bar.Add(1)
		}
		if epoch%1000 == 0 {
			klog.V(1).Infof("epoch %d: loss %.6f", epoch, loss)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	pred, err := model.Forward(x)
	if err != nil {
		return nil, nil, err
	}

	if opts.checkpoint != "" {
		last := losses[len(losses)-1]
		if err := nn.SaveCheckpoint(opts.checkpoint, model, optimizer, opts.epochs, float64(last)); err != nil {
			return nil, nil, err
		}
		klog.Infof("checkpoint saved to %s", opts.checkpoint)
	}
	return losses, pred.ToSlice(), nil
}

// plotLoss renders the loss curve as a PNG.
func plotLoss(losses []float32, path string) error {
	p := plot.New()
	p.Title.Text = "XOR training loss"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "MSE"

	points := make(plotter.XYs, len(losses))
	for i, l := range losses {
		points[i].X = float64(i)
		points[i].Y = float64(l)
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.Wrap(err, "building loss line")
	}
	p.Add(line, plotter.NewGrid())
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}

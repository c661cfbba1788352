package nn

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/serialization"
	"github.com/born-ml/matrix/internal/tensor"
)

// OptimizerState represents an optimizer that can save/load its state.
//
// This interface is used by checkpoints to serialize optimizer state
// without creating import cycles. Optimizers from the optim package
// implement this interface.
type OptimizerState interface {
	StateDict() map[string]*tensor.Matrix
	LoadStateDict(state map[string]*tensor.Matrix) error
	GetLR() float32
}

// Checkpoint metadata keys.
const (
	metaCheckpoint = "checkpoint"
	metaEpoch      = "epoch"
	metaStep       = "step"
	metaLoss       = "loss"
	metaLR         = "lr"
	metaCreatedAt  = "created_at"

	optimizerPrefix = "optimizer."
)

// Checkpoint represents a training state snapshot: model parameters,
// optimizer buffers and the position in the training run.
//
// Example:
//
//	ckpt := &nn.Checkpoint{Model: model, Optimizer: sgd, Epoch: 10, Loss: 0.12}
//	err := ckpt.Save("xor.safetensors")
//
// To resume training:
//
//	ckpt, err := nn.LoadCheckpoint("xor.safetensors", model, sgd)
//	startEpoch := ckpt.Epoch + 1
type Checkpoint struct {
	Model     *Sequential
	Optimizer OptimizerState // May be nil
	Epoch     int
	Step      int64
	Loss      float64
	Metadata  map[string]string // Extra entries stored alongside the run fields
	CreatedAt time.Time
}

// Save writes the checkpoint as a SafeTensors file.
// Optimizer buffers are stored under the "optimizer." prefix.
func (c *Checkpoint) Save(path string) error {
	if c.Model == nil {
		return errors.New("checkpoint: nil model")
	}

	state := c.Model.StateDict()
	meta := make(map[string]string, len(c.Metadata)+6)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	if c.Optimizer != nil {
		for name, m := range c.Optimizer.StateDict() {
			state[optimizerPrefix+name] = m
		}
		meta[metaLR] = strconv.FormatFloat(float64(c.Optimizer.GetLR()), 'g', -1, 32)
	}

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	meta[metaCheckpoint] = "true"
	meta[metaEpoch] = strconv.Itoa(c.Epoch)
	meta[metaStep] = strconv.FormatInt(c.Step, 10)
	meta[metaLoss] = strconv.FormatFloat(c.Loss, 'g', -1, 64)
	meta[metaCreatedAt] = createdAt.Format(time.RFC3339Nano)

	if _, err := serialization.WriteFile(path, state, serialization.WriteOptions{Metadata: meta}); err != nil {
		return errors.WithMessage(err, "failed to write checkpoint")
	}
	return nil
}

// LoadCheckpoint restores a checkpoint into a model and optimizer built
// with the same architecture and configuration as when it was saved.
// The optimizer may be nil, in which case stored buffers are ignored.
func LoadCheckpoint(path string, model *Sequential, optimizer OptimizerState) (*Checkpoint, error) {
	if model == nil {
		return nil, errors.New("checkpoint: nil model")
	}
	params := model.Parameters()
	if len(params) == 0 {
		return nil, errors.New("checkpoint: model has no parameters")
	}
	b := params[0].Value().Backend()

	state, header, err := serialization.ReadFile(path, b, serialization.ReaderOptions{})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read checkpoint")
	}
	if header.Metadata[metaCheckpoint] != "true" {
		return nil, errors.Errorf("checkpoint: %s is not a checkpoint", path)
	}

	modelState := make(map[string]*tensor.Matrix)
	optimizerState := make(map[string]*tensor.Matrix)
	for name, m := range state {
		if rest, ok := strings.CutPrefix(name, optimizerPrefix); ok {
			optimizerState[rest] = m
		} else {
			modelState[name] = m
		}
	}

	if err := model.LoadStateDict(modelState); err != nil {
		return nil, errors.WithMessage(err, "failed to load model state")
	}
	if optimizer != nil {
		if err := optimizer.LoadStateDict(optimizerState); err != nil {
			return nil, errors.WithMessage(err, "failed to load optimizer state")
		}
	}

	ckpt := &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Metadata:  make(map[string]string),
	}
	for k, v := range header.Metadata {
		switch k {
		case metaEpoch:
			ckpt.Epoch, err = strconv.Atoi(v)
		case metaStep:
			ckpt.Step, err = strconv.ParseInt(v, 10, 64)
		case metaLoss:
			ckpt.Loss, err = strconv.ParseFloat(v, 64)
		case metaCreatedAt:
			ckpt.CreatedAt, err = time.Parse(time.RFC3339Nano, v)
		case metaCheckpoint, metaLR:
		default:
			ckpt.Metadata[k] = v
		}
		if err != nil {
			return nil, errors.Wrapf(err, "checkpoint: bad %s %q", k, v)
		}
	}
	return ckpt, nil
}

// SaveCheckpoint is a convenience wrapper around Checkpoint.Save.
func SaveCheckpoint(path string, model *Sequential, optimizer OptimizerState, epoch int, loss float64) error {
	ckpt := &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     epoch,
		Loss:      loss,
	}
	return ckpt.Save(path)
}

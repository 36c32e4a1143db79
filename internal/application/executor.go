package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"vired/internal/domain"
	"vired/internal/logging"
	"vired/internal/metrics"
)

// OperationResult is the outcome of one operation in a batch
type OperationResult struct {
	Op   domain.Operation
	Undo *domain.UndoOperation
	Err  error
}

// BatchResult groups per-operation outcomes. Operations keep their batch order
// inside each group.
type BatchResult struct {
	Succeeded []OperationResult
	Failed    []OperationResult
	Skipped   []OperationResult
	Duration  time.Duration
}

// HasFailures reports whether any operation failed
func (r *BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Total is the number of operations in the batch
func (r *BatchResult) Total() int {
	return len(r.Succeeded) + len(r.Failed) + len(r.Skipped)
}

// Summary formats the counts and the reason for every failure or skip
func (r *BatchResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d succeeded, %d failed, %d skipped", len(r.Succeeded), len(r.Failed), len(r.Skipped))
	for _, res := range r.Failed {
		fmt.Fprintf(&b, "\n  failed: %v", res.Err)
	}
	for _, res := range r.Skipped {
		fmt.Fprintf(&b, "\n  skipped: %s (%v)", res.Op, res.Err)
	}
	return b.String()
}

// Executor applies operations to the filesystem in order
type Executor struct {
	fs     afero.Fs
	ops    *FileOps
	logger *zap.Logger
}

// NewExecutor creates an executor that records through ops
func NewExecutor(fs afero.Fs, ops *FileOps) *Executor {
	return &Executor{fs: fs, ops: ops, logger: logging.Named("executor")}
}

// Execute applies ops strictly in order. A failure does not stop the batch or
// roll back earlier operations; each success is already on the undo log.
func (e *Executor) Execute(ctx context.Context, ops []domain.Operation) *BatchResult {
	start := time.Now()
	result := &BatchResult{}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			e.record(result, OperationResult{Op: op, Err: &ExecutionError{Op: op, Err: err}}, metrics.OutcomeFailed)
			continue
		}

		if op.Kind != domain.OpCreate && !exists(e.fs, op.Source) {
			e.record(result, OperationResult{Op: op, Err: fmt.Errorf("%s: %w", op.Source, ErrAlreadyApplied)}, metrics.OutcomeSkipped)
			continue
		}

		undo, err := e.apply(ctx, op)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && op.Kind != domain.OpCreate && !exists(e.fs, op.Source) {
				e.record(result, OperationResult{Op: op, Err: fmt.Errorf("%s: %w", op.Source, ErrAlreadyApplied)}, metrics.OutcomeSkipped)
				continue
			}
			e.record(result, OperationResult{Op: op, Err: &ExecutionError{Op: op, Err: err}}, metrics.OutcomeFailed)
			continue
		}
		e.record(result, OperationResult{Op: op, Undo: &undo}, metrics.OutcomeSucceeded)
	}

	result.Duration = time.Since(start)
	metrics.RecordBatch(result.Duration)
	e.logger.Info("batch applied",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Duration("duration", result.Duration),
	)
	return result
}

func (e *Executor) apply(ctx context.Context, op domain.Operation) (domain.UndoOperation, error) {
	switch op.Kind {
	case domain.OpRename:
		return e.ops.RenameWithUndo(ctx, op.Source, op.Dest)
	case domain.OpDelete:
		return e.ops.DeleteWithUndo(ctx, op.Source)
	case domain.OpCreate:
		if op.EntryKind == domain.KindDirectory {
			return e.ops.MkdirWithUndo(ctx, op.Dest)
		}
		return e.ops.TouchWithUndo(ctx, op.Dest)
	}
	return domain.UndoOperation{}, fmt.Errorf("unknown operation kind %d", op.Kind)
}

func (e *Executor) record(result *BatchResult, res OperationResult, outcome string) {
	metrics.RecordOperation(res.Op.Kind.String(), outcome)

	switch outcome {
	case metrics.OutcomeSucceeded:
		result.Succeeded = append(result.Succeeded, res)
		e.logger.Debug("applied", zap.String("op", res.Op.String()))
	case metrics.OutcomeSkipped:
		result.Skipped = append(result.Skipped, res)
		e.logger.Debug("skipped", zap.String("op", res.Op.String()), zap.Error(res.Err))
	default:
		result.Failed = append(result.Failed, res)
		e.logger.Warn("failed", zap.String("op", res.Op.String()), zap.Error(res.Err))
	}
}

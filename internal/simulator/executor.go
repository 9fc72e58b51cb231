package simulator

//go:generate mockgen -destination=mocks/mock_executor.go -package=mocks github.com/Vincent-lau/schedbench/internal/simulator Executor

import (
	"context"

	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/pkg/errors"
)

var ErrUnknownResource = errors.New("assignment references unknown resource")

// Executor runs an assignment to completion and reports one record per task.
// A returned error fails the whole trial.
type Executor interface {
	Execute(ctx context.Context, a model.Assignment, resources []model.Resource, tasks []model.Task) ([]model.CompletionRecord, error)
}

package cmd

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/DervexDev/wally-package-types/internal/domain"
)

// mockWorkflow is a testify mock of domain.Workflow for command tests.
type mockWorkflow struct {
	mock.Mock
}

func (w *mockWorkflow) Fix(ctx context.Context, args domain.FixArgs) error {
	return w.Called(ctx, args).Error(0)
}

func (w *mockWorkflow) Check(ctx context.Context, args domain.CheckArgs) error {
	return w.Called(ctx, args).Error(0)
}

func (w *mockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	return w.Called(ctx, args).Error(0)
}

// swapWorkflow installs a mock in place of the package-level workflow and
// returns a restore func.
func swapWorkflow(mocked domain.Workflow) func() {
	original := workflow
	workflow = mocked

	return func() { workflow = original }
}

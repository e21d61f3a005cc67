package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	"github.com/Apurer/poster-parlor-api/internal/shared/projection"
)

var testTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type stubService struct {
	ports.Service
	result *types.OrderProjection
	err    error
}

func (s *stubService) PlaceOrder(context.Context, types.PlaceOrderInput) (*types.OrderProjection, error) {
	return s.result, s.err
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, domain.Event) error {
	p.calls++
	return errors.New("broker down")
}

func TestInlineOrderWorkflows_PublishFailureStillReturnsOrder(t *testing.T) {
	placed := projection.New(&domain.Order{ID: "o-1", Status: domain.StatusPending}, testTime, testTime)
	publisher := &failingPublisher{}
	o := NewInlineOrderWorkflows(&stubService{result: placed}, WithPublisher(publisher))

	got, err := o.PlaceOrder(context.Background(), types.PlaceOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, "o-1", got.Entity.ID)
	assert.Equal(t, 1, publisher.calls)
}

func TestInlineOrderWorkflows_PropagatesRejection(t *testing.T) {
	publisher := &failingPublisher{}
	o := NewInlineOrderWorkflows(&stubService{err: application.ErrInsufficientStock}, WithPublisher(publisher))

	_, err := o.PlaceOrder(context.Background(), types.PlaceOrderInput{})
	assert.ErrorIs(t, err, application.ErrInsufficientStock)
	assert.Zero(t, publisher.calls)
}

func TestBuildPlacementWorkflowID(t *testing.T) {
	a := buildPlacementWorkflowID(types.PlaceOrderInput{IdempotencyKey: "checkout-1"}, "trace")
	b := buildPlacementWorkflowID(types.PlaceOrderInput{IdempotencyKey: " checkout-1 "}, "other")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "order-placement-idem-"))
	assert.Len(t, strings.TrimPrefix(a, "order-placement-idem-"), 16)

	keyless := buildPlacementWorkflowID(types.PlaceOrderInput{}, "trace")
	assert.True(t, strings.HasSuffix(keyless, "-trace"))
}

func TestTemporalOrderWorkflows_ReusedKeyAttachesToExistingRun(t *testing.T) {
	input := types.PlaceOrderInput{IdempotencyKey: "payment-pay_1"}
	workflowID := buildPlacementWorkflowID(input, "")

	existing := &mocks.WorkflowRun{}
	existing.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(1).(*types.OrderProjection) = *projection.New(&domain.Order{ID: "o-7", Status: domain.StatusPending}, testTime, testTime)
	}).Return(nil)

	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything,
		mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
			return opts.ID == workflowID && opts.WorkflowExecutionErrorWhenAlreadyStarted
		}),
		mock.Anything, mock.Anything,
	).Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "req-1", "run-1"))
	c.On("GetWorkflow", mock.Anything, workflowID, "run-1").Return(existing)

	got, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "o-7", got.Entity.ID)
	c.AssertExpectations(t)
	existing.AssertExpectations(t)
}

func TestTemporalOrderWorkflows_DuplicateStartWithoutKeyFails(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "req-1", "run-1"))

	_, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), types.PlaceOrderInput{})
	assert.ErrorIs(t, err, application.ErrInternal)
	c.AssertNotCalled(t, "GetWorkflow", mock.Anything, mock.Anything, mock.Anything)
}

func TestTranslateWorkflowError(t *testing.T) {
	err := translateWorkflowError(temporal.NewNonRetryableApplicationError("mismatch", "PriceMismatch", nil))
	assert.ErrorIs(t, err, application.ErrPriceMismatch)

	err = translateWorkflowError(errors.New("timeout"))
	assert.ErrorIs(t, err, application.ErrInternal)
}

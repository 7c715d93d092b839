package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/transport/kafka"
)

type ctxKey struct{}

type spyHandler struct {
	called int
	ctx    context.Context
	event  domain.DeliveryEvent
	err    error
}

func (s *spyHandler) Handle(ctx context.Context, e domain.DeliveryEvent) error {
	s.called++
	s.ctx = ctx
	s.event = e
	return s.err
}

func sampleEvent() domain.DeliveryEvent {
	return domain.DeliveryEvent{
		ID:         "5f0f3c0e-8a39-4a57-9d4e-2c0b8a3c1d11",
		DeliveryID: 7,
		Kind:       domain.EventAccepted,
		Status:     domain.StatusAccepted,
		ActorID:    2,
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestMakeAuditHandler_DelegatesToHandler(t *testing.T) {
	t.Parallel()

	spy := &spyHandler{}
	h := makeAuditHandler(spy)

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	in := sampleEvent()

	require.NoError(t, h(ctx, in))
	require.Equal(t, 1, spy.called)
	require.Equal(t, "v", spy.ctx.Value(ctxKey{}))
	require.Equal(t, in, spy.event)
}

func TestMakeAuditHandler_InvalidEventIsPermanent(t *testing.T) {
	t.Parallel()

	spy := &spyHandler{err: apperr.Invalid("event id %q is not a uuid", "nope")}
	err := makeAuditHandler(spy)(context.Background(), sampleEvent())

	var perm kafka.PermanentError
	require.ErrorAs(t, err, &perm)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestMakeAuditHandler_StoreErrorIsRetryable(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("db down")
	spy := &spyHandler{err: sentinel}
	err := makeAuditHandler(spy)(context.Background(), sampleEvent())

	require.ErrorIs(t, err, sentinel)
	var perm kafka.PermanentError
	require.False(t, errors.As(err, &perm))
}

package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"dogwalking/config"
	"dogwalking/internal/domains/ledger/model/dto"
	eventMocks "dogwalking/internal/events/mocks"
	settlementMocks "dogwalking/internal/settlement/mocks"
	"dogwalking/shared/constant"
	"dogwalking/transport/scheduler"
)

// wakingEmitter counts relays and lets the test fire notifications.
type wakingEmitter struct {
	*eventMocks.Recorder
	wake   chan struct{}
	relays atomic.Int32
}

func (e *wakingEmitter) Notifications() <-chan struct{} {
	return e.wake
}

func (e *wakingEmitter) Relay(context.Context) (int, error) {
	e.relays.Add(1)

	return 1, nil
}

func newEmitter() *wakingEmitter {
	return &wakingEmitter{Recorder: eventMocks.NewRecorder(), wake: make(chan struct{}, 1)}
}

func runScheduler(t *testing.T, s *scheduler.Scheduler) (context.CancelFunc, <-chan struct{}) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		s.Run(ctx)
		close(done)
	}()

	return cancel, done
}

func TestScheduler_SweepsOnStartAndTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	sweeper := settlementMocks.NewMockSweeper(ctrl)

	var sweeps atomic.Int32

	sweeper.EXPECT().Sweep(gomock.Any()).DoAndReturn(func(ctx context.Context) (dto.SweepResponse, error) {
		assert.Equal(t, constant.ActorSystem, ctx.Value(constant.ContextKeyUserID))
		assert.Equal(t, constant.RoleInternal, ctx.Value(constant.ContextKeyUserRole))
		sweeps.Add(1)

		return dto.SweepResponse{}, nil
	}).MinTimes(2)

	cfg := &config.Config{}
	cfg.Engine.Sweep.Interval = 10 * time.Millisecond

	cancel, done := runScheduler(t, scheduler.New(sweeper, newEmitter(), cfg))

	assert.Eventually(t, func() bool { return sweeps.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestScheduler_RelaysOnNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	sweeper := settlementMocks.NewMockSweeper(ctrl)
	sweeper.EXPECT().Sweep(gomock.Any()).Return(dto.SweepResponse{}, nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Engine.Sweep.Interval = time.Hour

	emitter := newEmitter()
	cancel, done := runScheduler(t, scheduler.New(sweeper, emitter, cfg))

	emitter.wake <- struct{}{}

	assert.Eventually(t, func() bool { return emitter.relays.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

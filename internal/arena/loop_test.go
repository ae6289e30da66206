package arena

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopDoRunsOnLoop(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()

	var got int
	require.NoError(t, loop.Do(ctx, func() { got = 42 }))
	assert.Equal(t, 42, got)
}

func TestLoopAfterFuncPostsCallback(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()

	fired := make(chan struct{})
	loop.AfterFunc(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer callback never ran")
	}

	stop := loop.AfterFunc(time.Hour, func() { t.Error("stopped timer fired") })
	assert.True(t, stop())
}

func TestLoopStopped(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.False(t, loop.Post(func() {}))
	assert.ErrorIs(t, loop.Do(context.Background(), func() {}), ErrLoopStopped)
}

func TestEngineOnRealLoop(t *testing.T) {
	loop := NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()

	settings := DefaultSettings()
	settings.TickInterval = time.Millisecond
	notifier := &recordingNotifier{}
	engine := NewEngine(settings, notifier, loop, WithCodeGenerator(fixedCodes("LOOP22")))

	require.NoError(t, loop.Do(ctx, func() {
		engine.Handle(CreateRoom{ConnID: "h"})
		engine.Handle(JoinRoom{ConnID: "g", Code: "loop22"})
		engine.Handle(StartGame{ConnID: "h"})
	}))

	require.Eventually(t, func() bool {
		var state string
		_ = loop.Do(ctx, func() {
			if summary, ok := engine.Summary("LOOP22"); ok {
				state = summary.State
			}
		})
		return state == statePlaying
	}, 2*time.Second, 5*time.Millisecond)
}

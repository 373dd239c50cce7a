package dashboard

import (
	"context"
	"testing"

	"listingsdash/internal/components/telemetry"
	"listingsdash/internal/listings"

	"github.com/stretchr/testify/require"
)

func TestStartJobStarted(t *testing.T) {
	env := newTestEnv(t, nil)
	env.client.startStatus = listings.StartStarted
	env.client.setStatuses(running())

	require.NoError(t, env.engine.StartJob(context.Background()))

	// the status is refreshed without waiting for the next tick
	require.Equal(t, 1, env.client.statusCalls)
	require.Equal(t, JobIndicator{Running: true}, env.view.lastStatus())
	require.True(t, env.engine.State().LastObservedIsRunning())
	require.Empty(t, env.view.noticeList())
}

func TestStartJobAlreadyRunning(t *testing.T) {
	env := newTestEnv(t, nil)
	env.client.startStatus = listings.StartAlreadyRunning

	err := env.engine.StartJob(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRunning)

	require.Equal(t, []string{NoticeAlreadyRunning}, env.view.noticeList())
	require.Zero(t, env.client.statusCalls)
	require.Empty(t, env.client.calls())
	require.Zero(t, env.view.renders(AllListingsTable))
	require.Empty(t, env.tel.Reports(telemetry.KindWarning))
}

func TestStartJobUnknownStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	env.client.startStatus = listings.StartStatus("queued")

	err := env.engine.StartJob(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.Equal(t, []string{NoticeAlreadyRunning}, env.view.noticeList())
	require.Len(t, env.tel.Reports(telemetry.KindWarning), 1)
}

func TestStartJobNetworkFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.client.startErr = errNetwork

	err := env.engine.StartJob(context.Background())
	require.ErrorIs(t, err, errNetwork)
	require.NotErrorIs(t, err, ErrAlreadyRunning)
	require.Equal(t, []string{NoticeStartFailed}, env.view.noticeList())
	require.Zero(t, env.client.statusCalls)
}

func TestStartJobThenFinishReloads(t *testing.T) {
	env := newTestEnv(t, nil)
	env.client.startStatus = listings.StartStarted
	env.client.setStatuses(running(), running(), idle("2024-05-01 12:30"))

	require.NoError(t, env.engine.StartJob(context.Background()))
	for range 2 {
		require.NoError(t, env.engine.Poller().Tick(context.Background()))
	}

	require.Equal(t, 1, env.view.renders(AllListingsTable))
	require.Equal(t, 1, env.view.renders(NewListingsTable))
	require.Equal(t, "2024-05-01 12:30", env.view.lastStatus().LastRun)
}

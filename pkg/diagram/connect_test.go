package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionModeWalkthrough(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{X: 0, Y: 0}, Point{X: 100, Y: 100})
	e.SetRelationType(Realization)

	assert.Equal(t, Idle, e.ConnectionMode())

	assert.Equal(t, Armed, e.ToggleConnectorMode())

	res, _ := e.ClickBox("b1")
	assert.Equal(t, ClickSelected, res)
	assert.Equal(t, PendingSource, e.ConnectionMode())
	assert.Equal(t, "b1", e.State().Pending())

	res, _ = e.ClickBox("b1")
	assert.Equal(t, ClickSameSource, res)
	assert.Equal(t, PendingSource, e.ConnectionMode())
	assert.Empty(t, e.State().Connectors())

	res, conn := e.ClickBox("b2")
	assert.Equal(t, ClickConnected, res)
	assert.Equal(t, Armed, e.ConnectionMode())
	require.Len(t, e.State().Connectors(), 1)
	got := e.State().Connectors()[0]
	assert.Equal(t, conn, got)
	assert.Equal(t, "b1", got.StartBoxID)
	assert.Equal(t, "b2", got.EndBoxID)
	assert.Equal(t, Realization, got.Type)
}

func TestConnectionModeIsSingleShot(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100}, Point{X: 200})
	e.ToggleConnectorMode()

	e.ClickBox("b1")
	e.ClickBox("b2")
	// The next click selects a new source instead of chaining from b2.
	res, _ := e.ClickBox("b3")
	assert.Equal(t, ClickSelected, res)
	assert.Len(t, e.State().Connectors(), 1)
	assert.Equal(t, "b3", e.State().Pending())
}

func TestToggleOffClearsPending(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100})
	e.ToggleConnectorMode()
	e.ClickBox("b1")

	assert.Equal(t, Idle, e.ToggleConnectorMode())
	assert.Empty(t, e.State().Pending())

	assert.Equal(t, Armed, e.ToggleConnectorMode(), "re-arming starts without a source")
}

func TestClickIgnoredWhenIdle(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100})
	res, _ := e.ClickBox("b1")
	assert.Equal(t, ClickIgnored, res)
	assert.Empty(t, e.State().Pending())
}

func TestClickUnknownBoxWhenArmed(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{})
	e.ToggleConnectorMode()
	res, _ := e.ClickBox("ghost")
	assert.Equal(t, ClickIgnored, res)
	assert.Equal(t, Armed, e.ConnectionMode())
}

func TestClickUnknownBoxWhenPending(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100})
	e.ToggleConnectorMode()
	res, _ := e.ClickBox("b1")
	require.Equal(t, ClickSelected, res)

	res, conn := e.ClickBox("ghost")
	assert.Equal(t, ClickIgnored, res)
	assert.Equal(t, Connector{}, conn)
	assert.Equal(t, PendingSource, e.ConnectionMode())
	assert.Equal(t, "b1", e.State().Pending())
	assert.Empty(t, e.State().Connectors())
}

func TestConnectIsOneCommit(t *testing.T) {
	e := newTestEditor(t)
	seed(t, e, Point{}, Point{X: 100})
	e.ToggleConnectorMode()
	e.ClickBox("b1")

	var seen []string
	e.State().Subscribe(func(uint64) {
		seen = append(seen, e.State().Pending())
	})
	v := e.State().Version()
	res, _ := e.ClickBox("b2")
	require.Equal(t, ClickConnected, res)
	assert.Equal(t, v+1, e.State().Version())
	assert.Equal(t, []string{""}, seen, "subscribers never see the connector with a pending source")
	assert.Len(t, e.State().Connectors(), 1)
}

func TestConnectionModeString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "armed", Armed.String())
	assert.Equal(t, "pending", PendingSource.String())
}

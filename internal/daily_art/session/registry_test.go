package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/daily_art/service"
)

func TestRegistry_OneControllerPerUser(t *testing.T) {
	reg := NewRegistry(newFakeGate(true), &fakeSubmitter{})
	defer reg.Close()

	alice := reg.For("alice")
	assert.Same(t, alice, reg.For("alice"))
	bob := reg.For("bob")
	assert.NotSame(t, alice, bob)
	assert.Equal(t, 2, reg.Len())

	mustDispatch(t, alice, EventOpenDiary)
	assert.Equal(t, StateViewDiary, alice.Snapshot().State)
	assert.Equal(t, StateMenu, bob.Snapshot().State)
}

func TestRegistry_SessionsShareTheGate(t *testing.T) {
	gate := newFakeGate(true)
	reg := NewRegistry(gate, &fakeSubmitter{})
	defer reg.Close()

	alice, bob := reg.For("alice"), reg.For("bob")
	mustDispatch(t, alice, EventOpenAddEntry)
	_, err := alice.Submit(context.Background(), "joy")
	require.NoError(t, err)

	gate.set(service.GateState{Known: true, Today: gate.State().Today})

	assert.True(t, alice.Snapshot().HasSubmitted)
	assert.False(t, bob.Snapshot().HasSubmitted)
	_, err = bob.Dispatch(EventOpenAddEntry)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmittedToday)
}

func TestRegistry_CloseForgetsSessions(t *testing.T) {
	reg := NewRegistry(newFakeGate(true), &fakeSubmitter{})

	first := reg.For("alice")
	mustDispatch(t, first, EventOpenDiary)
	reg.Close()

	assert.Zero(t, reg.Len())
	assert.Equal(t, StateMenu, reg.For("alice").Snapshot().State)
	reg.Close()
}

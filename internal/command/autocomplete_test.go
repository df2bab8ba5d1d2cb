package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteEmptyInputOffersFirstCommand(t *testing.T) {
	interp, _, _ := newTestInterp()
	assert.Equal(t, knownCommands[0]+" ", interp.Complete(""))
}

func TestCompleteSingleMatch(t *testing.T) {
	interp, _, sink := newTestInterp()

	assert.Equal(t, "fabricate ", interp.Complete("fab"))
	assert.Equal(t, "optimize ", interp.Complete("opt"))
	assert.Equal(t, "launch marketing ", interp.Complete("lau"))
	assert.Empty(t, sink.Entries) // no options reported
}

func TestCompleteNoMatchReturnsInputUnchanged(t *testing.T) {
	interp, _, sink := newTestInterp()
	assert.Equal(t, "xyzzy", interp.Complete("xyzzy"))
	assert.Empty(t, sink.Entries)
}

func TestCompleteExtendsToCommonPrefix(t *testing.T) {
	interp, _, _ := newTestInterp()
	// "b" matches the buttons and buy families; they agree on "bu".
	assert.Equal(t, "bu", interp.Complete("b"))
}

func TestCompleteStopsAtAmbiguousTokenBoundary(t *testing.T) {
	interp, _, _ := newTestInterp()
	// "buy" extends across the token boundary but no further: the next
	// token is ambiguous.
	assert.Equal(t, "buy ", interp.Complete("buy"))
	assert.Equal(t, "buttons ", interp.Complete("but"))
}

func TestCompleteTrailingSpaceListsOptions(t *testing.T) {
	interp, _, sink := newTestInterp()

	out := interp.Complete("buy ")
	assert.Equal(t, "buy ", out)

	require.NotEmpty(t, sink.Entries)
	msg := sink.Entries[0].Message
	assert.Contains(t, msg, "buy autoclipper")
	assert.Contains(t, msg, "buy factory")
	assert.Contains(t, msg, "buy wire")
}

func TestCompleteNoProgressListsOptions(t *testing.T) {
	interp, _, sink := newTestInterp()

	// "bu" is already the longest common prefix of its matches.
	assert.Equal(t, "bu", interp.Complete("bu"))
	require.NotEmpty(t, sink.Entries)
	assert.Contains(t, sink.Entries[0].Message, "options:")

	sink.Reset()
	// "buttons o" cannot advance between "buttons off" and "buttons on".
	assert.Equal(t, "buttons o", interp.Complete("buttons o"))
	assert.NotEmpty(t, sink.Entries)
}

func TestCompleteIsCaseInsensitive(t *testing.T) {
	interp, _, _ := newTestInterp()
	assert.Equal(t, "fabricate ", interp.Complete("FAB"))
}

func TestKnownCommandsSorted(t *testing.T) {
	for i := 1; i < len(knownCommands); i++ {
		assert.Less(t, knownCommands[i-1], knownCommands[i])
	}
}

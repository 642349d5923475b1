package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(p *Parser, lines ...string) ([]Block, []Outcome) {
	var blocks []Block
	var outcomes []Outcome
	for _, l := range lines {
		blk, out := p.Feed(l)
		outcomes = append(outcomes, out)
		if out == OutcomeCompleted {
			blocks = append(blocks, blk)
		}
	}
	return blocks, outcomes
}

func TestParser_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		kind  BlockKind
		body  string
	}{
		{name: "status", lines: []string{StartStatus, "Iteration: 1", EndStatus}, kind: BlockStatus, body: "Iteration: 1\n"},
		{name: "players", lines: []string{StartPlayer, "a", "b", EndPlayer}, kind: BlockPlayers, body: "a\nb\n"},
		{name: "map", lines: []string{StartMap, "AB", "", "CD", EndMap}, kind: BlockMap, body: "AB\n\nCD\n"},
		{name: "empty block", lines: []string{StartMap, EndMap}, kind: BlockMap, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()

			blocks, _ := feedAll(p, tt.lines...)

			require.Len(t, blocks, 1)
			assert.Equal(t, tt.kind, blocks[0].Kind)
			assert.Equal(t, tt.body, blocks[0].Body)
			assert.Equal(t, "Idle", p.State())
		})
	}
}

func TestParser_SentinelsMatchByPrefix(t *testing.T) {
	p := NewParser()

	_, out := p.Feed("START STATUS v2")
	assert.Equal(t, OutcomeStarted, out)
	assert.Equal(t, "InStatus", p.State())

	blk, out := p.Feed("END STATUSxyz")
	assert.Equal(t, OutcomeCompleted, out)
	assert.Equal(t, BlockStatus, blk.Kind)
}

func TestParser_IdleDiscardsNoise(t *testing.T) {
	p := NewParser()

	_, outcomes := feedAll(p, "hello", "Iteration: 3", EndStatus, " START MAP")

	for _, out := range outcomes {
		assert.Equal(t, OutcomeDiscarded, out)
	}
	assert.Equal(t, "Idle", p.State())
}

func TestParser_NestedSentinelIsBody(t *testing.T) {
	// Arrange
	p := NewParser()

	// Act
	blocks, outcomes := feedAll(p, StartPlayer, StartMap, EndMap, "x", EndPlayer)

	// Assert
	assert.Equal(t, []Outcome{OutcomeStarted, OutcomeNested, OutcomeNested, OutcomeAppended, OutcomeCompleted}, outcomes)
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockPlayers, blocks[0].Kind)
	assert.Equal(t, StartMap+"\n"+EndMap+"\nx\n", blocks[0].Body)
}

func TestParser_BackToBackBlocks(t *testing.T) {
	p := NewParser()

	blocks, _ := feedAll(p,
		StartStatus, "Iteration: 1", EndStatus,
		"noise",
		StartMap, "AB", EndMap,
		StartStatus, "Iteration: 2", EndStatus,
	)

	require.Len(t, blocks, 3)
	assert.Equal(t, BlockStatus, blocks[0].Kind)
	assert.Equal(t, BlockMap, blocks[1].Kind)
	assert.Equal(t, "AB\n", blocks[1].Body)
	assert.Equal(t, "Iteration: 2\n", blocks[2].Body, "body does not leak between blocks")
}

func TestBlockKind_String(t *testing.T) {
	assert.Equal(t, "status", BlockStatus.String())
	assert.Equal(t, "players", BlockPlayers.String())
	assert.Equal(t, "map", BlockMap.String())
	assert.Equal(t, "unknown", BlockKind(9).String())
}

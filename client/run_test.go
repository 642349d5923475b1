package client

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gameServer 最小的游戏服务端：完成握手、推送 stream，然后把收到的指令行交给 moves
type gameServer struct {
	ln    net.Listener
	moves chan string
}

func startGameServer(t *testing.T, reply, stream string, hangUp bool) *gameServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := &gameServer{ln: ln, moves: make(chan string, 16)}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		if _, err := r.ReadString('\n'); err != nil {
			return
		}
		if _, err := conn.Write([]byte(reply + "\n" + stream)); err != nil {
			return
		}
		if hangUp {
			return
		}
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				close(gs.moves)
				return
			}
			gs.moves <- strings.TrimSuffix(line, "\n")
		}
	}()
	return gs
}

func testConfig(target string) *Config {
	cfg := DefaultConfig()
	cfg.Server.Target = target
	cfg.Server.DialTimeout = time.Second
	cfg.Player.Name = "Bot"
	cfg.Player.Color = "red"
	cfg.Decision.Tick = time.Millisecond
	cfg.Decision.ReadyPoll = 2 * time.Millisecond
	return cfg
}

func TestRun_SendsScriptedMoveAndStopsOnCancel(t *testing.T) {
	// Arrange
	stream := EncodeStatus(WorldStatus{Iteration: 60}) +
		EncodePlayers([]PlayerRecord{{ID: 7, Name: "Bot", IsAlive: "true"}}) +
		EncodeMap([]string{"AB", "CD"})
	gs := startGameServer(t, "PLAYERID:7", stream, false)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	// Act
	go func() { errCh <- Run(ctx, testConfig(gs.ln.Addr().String())) }()

	// Assert
	select {
	case move := <-gs.moves:
		assert.Equal(t, "120.3|300.123", move)
	case <-time.After(2 * time.Second):
		t.Fatal("no move received")
	}
	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_StreamEndIsFatal(t *testing.T) {
	gs := startGameServer(t, "PLAYERID:1", EncodeStatus(WorldStatus{Iteration: 1}), true)

	err := Run(context.Background(), testConfig(gs.ln.Addr().String()))

	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestRun_HandshakeRejected(t *testing.T) {
	gs := startGameServer(t, "go away", "", true)

	err := Run(context.Background(), testConfig(gs.ln.Addr().String()))

	assert.ErrorIs(t, err, ErrHandshake)
}

func TestRun_UnknownStrategy(t *testing.T) {
	cfg := testConfig("127.0.0.1:1")
	cfg.Decision.Strategy = "nope"

	err := Run(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

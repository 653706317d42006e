// Package monitor follows a board's debug link from the host.
package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ledmaze/core"
	"ledmaze/host/serial"
	"ledmaze/maze"
	"ledmaze/protocol"
	"ledmaze/snapshot"
)

// TimingKeep is the number of timing events kept in State
const TimingKeep = 32

// State is what the monitor knows about the board
type State struct {
	Version   uint32
	Round     protocol.RoundInfo
	BallX     uint16
	BallY     uint16
	Maze      *maze.Maze
	Messages  int
	Logs      int
	Snapshots int
	Saved     int
	Timing    []protocol.TimingInfo
}

// Board represents a connection to the firmware's debug link
type Board struct {
	port   serial.Port
	reader *protocol.LinkReader

	out     io.Writer
	verbose bool
	saveDir string

	state     State
	connected bool
}

// NewBoard creates a board monitor printing to out (not yet connected)
func NewBoard(out io.Writer) *Board {
	return &Board{out: out}
}

// SetVerbose enables printing of every ball report
func (b *Board) SetVerbose(v bool) {
	b.verbose = v
}

// SetSaveDir makes every received snapshot get written to dir
func (b *Board) SetSaveDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b.saveDir = dir
	return nil
}

// Connect connects to a board via serial port
func (b *Board) Connect(device string) error {
	return b.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects to a board with a custom serial config
func (b *Board) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	b.Attach(port)
	return nil
}

// Replay reads a raw capture instead of a live port
func (b *Board) Replay(path string) error {
	port, err := serial.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	b.Attach(port)
	return nil
}

// Attach starts reading frames from port
func (b *Board) Attach(port serial.Port) {
	b.port = port
	b.reader = protocol.NewLinkReader(port)
	b.connected = true
}

// IsConnected returns whether a port is attached
func (b *Board) IsConnected() bool {
	return b.connected
}

// Close closes the connection to the board
func (b *Board) Close() error {
	if !b.connected {
		return nil
	}
	b.connected = false
	return b.reader.Close()
}

// Stats returns the link counters
func (b *Board) Stats() protocol.LinkStats {
	if b.reader == nil {
		return protocol.LinkStats{}
	}
	return b.reader.Stats()
}

// State returns a copy of the current state
func (b *Board) State() State {
	s := b.state
	s.Timing = append([]protocol.TimingInfo(nil), b.state.Timing...)
	return s
}

// Run handles messages until the link ends or ctx is cancelled
func (b *Board) Run(ctx context.Context) error {
	if !b.connected {
		return fmt.Errorf("not connected to board")
	}
	msgs := b.reader.Messages()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := b.Handle(msg); err != nil {
				fmt.Fprintf(b.out, "error: %v\n", err)
			}
		}
	}
}

// Handle applies one message to the state and prints it
func (b *Board) Handle(msg *protocol.Message) error {
	b.state.Messages++

	switch msg.ID {
	case protocol.MsgHello:
		v, err := msg.Version()
		if err != nil {
			return err
		}
		b.state.Version = v
		if v != protocol.LinkVersion {
			fmt.Fprintf(b.out, "warning: board link version %d, monitor speaks %d\n", v, protocol.LinkVersion)
		}

	case protocol.MsgRound:
		ri, err := msg.Round()
		if err != nil {
			return err
		}
		b.state.Round = ri

	case protocol.MsgBall:
		x, y, err := msg.Ball()
		if err != nil {
			return err
		}
		b.state.BallX, b.state.BallY = x, y
		if !b.verbose {
			return nil
		}

	case protocol.MsgSnapshot:
		return b.handleSnapshot(msg)

	case protocol.MsgLog:
		if _, err := msg.Text(); err != nil {
			return err
		}
		b.state.Logs++

	case protocol.MsgTiming:
		ti, err := msg.Timing()
		if err != nil {
			return err
		}
		b.state.Timing = append(b.state.Timing, ti)
		if n := len(b.state.Timing); n > TimingKeep {
			b.state.Timing = append(b.state.Timing[:0], b.state.Timing[n-TimingKeep:]...)
		}
		fmt.Fprintf(b.out, "timing %-10s src=%d clock=%d v1=%d v2=%d\n",
			core.EventName(ti.EventType), ti.Source, ti.Clock, ti.Value1, ti.Value2)
		return nil
	}

	fmt.Fprintln(b.out, msg.String())
	return nil
}

func (b *Board) handleSnapshot(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	m, err := snapshot.Decode(data)
	if err != nil {
		return err
	}
	b.state.Maze = m
	b.state.Snapshots++
	fmt.Fprintf(b.out, "snapshot round %d\n%s", b.state.Round.Round, m.String())

	if b.saveDir == "" {
		return nil
	}
	path := filepath.Join(b.saveDir, fmt.Sprintf("round-%04d%s", b.state.Round.Round, snapshot.Extension))
	if err := snapshot.Save(path, m); err != nil {
		return err
	}
	b.state.Saved++
	fmt.Fprintf(b.out, "saved %s\n", path)
	return nil
}

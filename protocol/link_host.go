package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var ErrShortMessage = errors.New("message shorter than its fields")

// Message is one decoded link frame
type Message struct {
	Sequence uint8
	ID       uint32
	Payload  []byte // fields after the message id
}

// RoundInfo is the content of a MsgRound message
type RoundInfo struct {
	Round          uint32
	StartX, StartY uint8
	EndX, EndY     uint8
	Steps          uint32
}

// TimingInfo is the content of a MsgTiming message
type TimingInfo struct {
	EventType uint8
	Source    uint8
	Clock     uint32
	Value1    uint32
	Value2    uint32
}

func decodeFields(data []byte, n int) ([]uint32, error) {
	out := make([]uint32, n)
	for i := range out {
		v, err := DecodeVLQUint(&data)
		if err != nil {
			return nil, ErrShortMessage
		}
		out[i] = v
	}
	return out, nil
}

// Version decodes a MsgHello
func (m *Message) Version() (uint32, error) {
	f, err := decodeFields(m.Payload, 1)
	if err != nil {
		return 0, err
	}
	return f[0], nil
}

// Round decodes a MsgRound
func (m *Message) Round() (RoundInfo, error) {
	f, err := decodeFields(m.Payload, 6)
	if err != nil {
		return RoundInfo{}, err
	}
	return RoundInfo{
		Round:  f[0],
		StartX: uint8(f[1]),
		StartY: uint8(f[2]),
		EndX:   uint8(f[3]),
		EndY:   uint8(f[4]),
		Steps:  f[5],
	}, nil
}

// Ball decodes a MsgBall
func (m *Message) Ball() (x, y uint16, err error) {
	f, err := decodeFields(m.Payload, 2)
	if err != nil {
		return 0, 0, err
	}
	return uint16(f[0]), uint16(f[1]), nil
}

// Bytes decodes the length-prefixed body of a MsgSnapshot
func (m *Message) Bytes() ([]byte, error) {
	data := m.Payload
	return DecodeVLQBytes(&data)
}

// Text decodes a MsgLog
func (m *Message) Text() (string, error) {
	data := m.Payload
	return DecodeVLQString(&data)
}

// Timing decodes a MsgTiming
func (m *Message) Timing() (TimingInfo, error) {
	f, err := decodeFields(m.Payload, 5)
	if err != nil {
		return TimingInfo{}, err
	}
	return TimingInfo{
		EventType: uint8(f[0]),
		Source:    uint8(f[1]),
		Clock:     f[2],
		Value1:    f[3],
		Value2:    f[4],
	}, nil
}

// LinkStats counts what the reader saw
type LinkStats struct {
	Frames    uint32
	Dropped   uint32 // frames missing from the sequence
	BadFrames uint32 // framing or CRC errors
}

// LinkReader parses debug frames from the board on the host side. A
// background goroutine reads the port and delivers messages on the
// channel returned by Messages, which is closed when the port reaches EOF
// or the reader is closed.
type LinkReader struct {
	port io.Reader

	inputBuffer *FifoBuffer
	msgChan     chan *Message

	isSynchronized uint32 // atomic bool (0 = false, 1 = true)
	haveSeq        bool
	lastSeq        uint8

	frames    atomic.Uint32
	dropped   atomic.Uint32
	badFrames atomic.Uint32

	readMutex sync.Mutex
	stopChan  chan struct{}
	doneChan  chan struct{}
	stopOnce  sync.Once
}

// NewLinkReader starts reading frames from port
func NewLinkReader(port io.Reader) *LinkReader {
	r := &LinkReader{
		port:           port,
		inputBuffer:    NewFifoBuffer(2048),
		msgChan:        make(chan *Message, 64),
		isSynchronized: 1,
		stopChan:       make(chan struct{}),
		doneChan:       make(chan struct{}),
	}
	go r.readLoop()
	return r
}

// Messages returns the decoded message stream
func (r *LinkReader) Messages() <-chan *Message {
	return r.msgChan
}

// Stats returns the frame counters
func (r *LinkReader) Stats() LinkStats {
	return LinkStats{
		Frames:    r.frames.Load(),
		Dropped:   r.dropped.Load(),
		BadFrames: r.badFrames.Load(),
	}
}

// Close stops the reader. If the port is an io.Closer it is closed to
// unblock a pending read.
func (r *LinkReader) Close() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.stopChan)
		if c, ok := r.port.(io.Closer); ok {
			err = c.Close()
		}
	})
	<-r.doneChan
	return err
}

func (r *LinkReader) readLoop() {
	defer close(r.doneChan)
	defer close(r.msgChan)

	buffer := make([]byte, 256)
	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		n, err := r.port.Read(buffer)
		if n > 0 {
			for data := buffer[:n]; len(data) > 0; {
				w := r.inputBuffer.Write(data)
				data = data[w:]
				r.processMessages()
				if w == 0 && r.inputBuffer.Free() == 0 {
					// a full buffer without a frame boundary is garbage
					r.inputBuffer.Reset()
					r.setSynchronized(false)
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			select {
			case <-r.stopChan:
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}
}

// processMessages parses every complete frame in the input buffer
func (r *LinkReader) processMessages() {
	r.readMutex.Lock()
	defer r.readMutex.Unlock()

	data := r.inputBuffer.Data()

	for len(data) > 0 {
		if !r.getSynchronized() {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos >= 0 {
				data = data[syncPos+1:]
				r.setSynchronized(true)
			} else {
				data = nil
			}
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}
		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		seq := data[MessagePositionSeq]
		if msgLen < MessageLengthMin || seq&^MessageSeqMask != MessageDest {
			r.badFrame()
			continue
		}
		if len(data) < msgLen {
			break
		}
		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			r.badFrame()
			continue
		}
		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			r.badFrame()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		data = data[msgLen:]

		r.trackSequence(seq)
		id, err := DecodeVLQUint(&payload)
		if err != nil {
			r.badFrames.Add(1)
			continue
		}
		r.frames.Add(1)
		r.dispatch(&Message{Sequence: seq, ID: id, Payload: payload})
	}

	consumed := r.inputBuffer.Available() - len(data)
	if consumed > 0 {
		r.inputBuffer.Pop(consumed)
	}
}

func (r *LinkReader) badFrame() {
	r.badFrames.Add(1)
	r.setSynchronized(false)
}

// trackSequence counts frames skipped between the last good frame and
// this one. More than 15 lost frames in a row alias to fewer.
func (r *LinkReader) trackSequence(seq uint8) {
	if r.haveSeq {
		expected := ((r.lastSeq + 1) & MessageSeqMask) | MessageDest
		if gap := (seq - expected) & MessageSeqMask; gap != 0 {
			r.dropped.Add(uint32(gap))
		}
	}
	r.haveSeq = true
	r.lastSeq = seq
}

// dispatch delivers a message, dropping the oldest one when the consumer
// falls behind
func (r *LinkReader) dispatch(msg *Message) {
	for {
		select {
		case r.msgChan <- msg:
			return
		default:
		}
		select {
		case <-r.msgChan:
		default:
		}
	}
}

func (r *LinkReader) getSynchronized() bool {
	return atomic.LoadUint32(&r.isSynchronized) != 0
}

func (r *LinkReader) setSynchronized(val bool) {
	if val {
		atomic.StoreUint32(&r.isSynchronized, 1)
	} else {
		atomic.StoreUint32(&r.isSynchronized, 0)
	}
}

// String formats a message for the monitor
func (m *Message) String() string {
	switch m.ID {
	case MsgHello:
		v, err := m.Version()
		if err == nil {
			return fmt.Sprintf("hello version=%d", v)
		}
	case MsgRound:
		ri, err := m.Round()
		if err == nil {
			return fmt.Sprintf("round %d start=(%d,%d) end=(%d,%d) steps=%d",
				ri.Round, ri.StartX, ri.StartY, ri.EndX, ri.EndY, ri.Steps)
		}
	case MsgBall:
		x, y, err := m.Ball()
		if err == nil {
			return fmt.Sprintf("ball (%d,%d)", x, y)
		}
	case MsgSnapshot:
		b, err := m.Bytes()
		if err == nil {
			return fmt.Sprintf("snapshot %d bytes", len(b))
		}
	case MsgLog:
		s, err := m.Text()
		if err == nil {
			return "log " + s
		}
	case MsgTiming:
		ti, err := m.Timing()
		if err == nil {
			return fmt.Sprintf("timing type=%d src=%d clock=%d v1=%d v2=%d",
				ti.EventType, ti.Source, ti.Clock, ti.Value1, ti.Value2)
		}
	}
	return fmt.Sprintf("%s seq=0x%02x %d bytes", MessageName(m.ID), m.Sequence, len(m.Payload))
}

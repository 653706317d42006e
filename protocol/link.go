package protocol

import (
	"errors"
	"io"
)

var ErrFrameTooLong = errors.New("frame exceeds link maximum")

// Link writes debug frames on the board side. It never waits for the
// host; frames go into the output buffer and the flush callback moves
// them to the UART.
type Link struct {
	output  OutputBuffer
	seq     uint8
	frames  uint32
	flush   func()
	scratch ScratchOutput

	writeErrors uint32
}

// NewLink creates a link writing into output
func NewLink(output OutputBuffer) *Link {
	return &Link{
		output: output,
		seq:    MessageDest,
	}
}

// NewStreamLink creates a link that writes every frame to w as soon as
// it is complete. Write errors are counted, not returned.
func NewStreamLink(w io.Writer) *Link {
	out := NewScratchOutput()
	l := NewLink(out)
	l.SetFlushCallback(func() {
		if _, err := w.Write(out.Result()); err != nil {
			l.writeErrors++
		}
		out.Reset()
	})
	return l
}

// WriteErrors returns the number of frames a stream link failed to write
func (l *Link) WriteErrors() uint32 {
	return l.writeErrors
}

// SetFlushCallback sets the function called after every frame
func (l *Link) SetFlushCallback(callback func()) {
	l.flush = callback
}

// Frames returns the number of frames sent
func (l *Link) Frames() uint32 {
	return l.frames
}

// SendMessage encodes one frame carrying message id and the fields args
// writes
func (l *Link) SendMessage(id uint32, args func(output OutputBuffer)) error {
	l.scratch.Reset()
	EncodeVLQUint(&l.scratch, id)
	if args != nil {
		args(&l.scratch)
	}
	payload := l.scratch.Result()
	if l.scratch.Dropped() > 0 || len(payload) > MessagePayloadMax {
		return ErrFrameTooLong
	}

	cursor := l.output.CurPosition()
	l.output.Output([]byte{uint8(len(payload) + MessageLengthMin), l.seq})
	l.output.Output(payload)

	var trailer [MessageTrailerSize]byte
	t := appendCRC(trailer[:0], l.output.DataSince(cursor))
	t = append(t, MessageValueSync)
	l.output.Output(t)

	l.seq = ((l.seq + 1) & MessageSeqMask) | MessageDest
	l.frames++
	if l.flush != nil {
		l.flush()
	}
	return nil
}

// SendHello announces the link version
func (l *Link) SendHello() error {
	return l.SendMessage(MsgHello, func(output OutputBuffer) {
		EncodeVLQUint(output, LinkVersion)
	})
}

// SendRound announces a published maze
func (l *Link) SendRound(round uint32, startX, startY, endX, endY uint8, steps uint32) error {
	return l.SendMessage(MsgRound, func(output OutputBuffer) {
		EncodeVLQUint(output, round)
		EncodeVLQUint(output, uint32(startX))
		EncodeVLQUint(output, uint32(startY))
		EncodeVLQUint(output, uint32(endX))
		EncodeVLQUint(output, uint32(endY))
		EncodeVLQUint(output, steps)
	})
}

// SendBall reports the ball position
func (l *Link) SendBall(x, y uint16) error {
	return l.SendMessage(MsgBall, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(x))
		EncodeVLQUint(output, uint32(y))
	})
}

// SendSnapshot carries an encoded maze snapshot
func (l *Link) SendSnapshot(data []byte) error {
	return l.SendMessage(MsgSnapshot, func(output OutputBuffer) {
		EncodeVLQBytes(output, data)
	})
}

// SendLog carries a log line, cut to fit one frame
func (l *Link) SendLog(msg string) error {
	return l.SendMessage(MsgLog, func(output OutputBuffer) {
		EncodeVLQString(output, msg, MessagePayloadMax-4)
	})
}

// SendTiming carries one timing ring event
func (l *Link) SendTiming(eventType, source uint8, clock, value1, value2 uint32) error {
	return l.SendMessage(MsgTiming, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(eventType))
		EncodeVLQUint(output, uint32(source))
		EncodeVLQUint(output, clock)
		EncodeVLQUint(output, value1)
		EncodeVLQUint(output, value2)
	})
}

package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameRecorder captures each flushed frame separately
type frameRecorder struct {
	out    *ScratchOutput
	frames [][]byte
}

func newRecordedLink() (*Link, *frameRecorder) {
	rec := &frameRecorder{out: NewScratchOutput()}
	link := NewLink(rec.out)
	link.SetFlushCallback(func() {
		rec.frames = append(rec.frames, append([]byte(nil), rec.out.Result()...))
		rec.out.Reset()
	})
	return link, rec
}

func readAll(t *testing.T, stream []byte) ([]*Message, LinkStats) {
	t.Helper()
	r := NewLinkReader(bytes.NewReader(stream))
	var msgs []*Message
	for m := range r.Messages() {
		msgs = append(msgs, m)
	}
	require.NoError(t, r.Close())
	return msgs, r.Stats()
}

func TestLinkRoundTrip(t *testing.T) {
	link, rec := newRecordedLink()

	require.NoError(t, link.SendHello())
	require.NoError(t, link.SendRound(3, 1, 2, 30, 14, 1023))
	require.NoError(t, link.SendBall(2047, 1023))
	require.NoError(t, link.SendSnapshot([]byte{1, 2, 3}))
	require.NoError(t, link.SendLog("maze ready"))
	require.NoError(t, link.SendTiming(1, 7, 0xFFFFFFF0, 12, 0))
	assert.Equal(t, uint32(6), link.Frames())

	msgs, stats := readAll(t, bytes.Join(rec.frames, nil))
	require.Len(t, msgs, 6)
	assert.Equal(t, LinkStats{Frames: 6}, stats)

	v, err := msgs[0].Version()
	require.NoError(t, err)
	assert.Equal(t, uint32(LinkVersion), v)

	ri, err := msgs[1].Round()
	require.NoError(t, err)
	assert.Equal(t, RoundInfo{Round: 3, StartX: 1, StartY: 2, EndX: 30, EndY: 14, Steps: 1023}, ri)

	x, y, err := msgs[2].Ball()
	require.NoError(t, err)
	assert.Equal(t, uint16(2047), x)
	assert.Equal(t, uint16(1023), y)

	b, err := msgs[3].Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)

	s, err := msgs[4].Text()
	require.NoError(t, err)
	assert.Equal(t, "maze ready", s)

	ti, err := msgs[5].Timing()
	require.NoError(t, err)
	assert.Equal(t, TimingInfo{EventType: 1, Source: 7, Clock: 0xFFFFFFF0, Value1: 12}, ti)

	for i, m := range msgs {
		assert.Equal(t, uint8(MessageDest|i), m.Sequence, "message %d", i)
		assert.NotEmpty(t, m.String())
	}
}

func TestLinkSequenceWraps(t *testing.T) {
	link, rec := newRecordedLink()
	for i := 0; i < 40; i++ {
		require.NoError(t, link.SendBall(uint16(i), 0))
	}
	msgs, stats := readAll(t, bytes.Join(rec.frames, nil))
	require.Len(t, msgs, 40)
	assert.Zero(t, stats.Dropped)
	assert.Equal(t, uint8(MessageDest|(39&MessageSeqMask)), msgs[39].Sequence)
}

func TestLinkCountsDroppedFrames(t *testing.T) {
	link, rec := newRecordedLink()
	for i := 0; i < 6; i++ {
		require.NoError(t, link.SendBall(uint16(i), 0))
	}
	// lose frames 2 and 3
	stream := bytes.Join([][]byte{rec.frames[0], rec.frames[1], rec.frames[4], rec.frames[5]}, nil)

	msgs, stats := readAll(t, stream)
	require.Len(t, msgs, 4)
	assert.Equal(t, uint32(2), stats.Dropped)

	x, _, err := msgs[2].Ball()
	require.NoError(t, err)
	assert.Equal(t, uint16(4), x)
}

func TestLinkResyncAfterCorruption(t *testing.T) {
	link, rec := newRecordedLink()
	for i := 0; i < 3; i++ {
		require.NoError(t, link.SendLog("line"))
	}
	bad := append([]byte(nil), rec.frames[1]...)
	bad[len(bad)-2] ^= 0xFF // crc low byte

	stream := bytes.Join([][]byte{{0x00, 0x42, 0x7E}, rec.frames[0], bad, rec.frames[2]}, nil)
	msgs, stats := readAll(t, stream)

	require.Len(t, msgs, 2)
	assert.Equal(t, uint8(MessageDest), msgs[0].Sequence)
	assert.Equal(t, uint8(MessageDest|2), msgs[1].Sequence)
	assert.Equal(t, uint32(1), stats.Dropped)
	assert.NotZero(t, stats.BadFrames)
}

func TestLinkFrameTooLong(t *testing.T) {
	link, rec := newRecordedLink()
	err := link.SendSnapshot(make([]byte, MessagePayloadMax))
	assert.ErrorIs(t, err, ErrFrameTooLong)
	assert.Empty(t, rec.frames)
	assert.Zero(t, link.Frames())

	// a long log line is cut instead of rejected
	long := string(bytes.Repeat([]byte{'x'}, 400))
	require.NoError(t, link.SendLog(long))
	msgs, _ := readAll(t, rec.frames[0])
	require.Len(t, msgs, 1)
	s, err := msgs[0].Text()
	require.NoError(t, err)
	assert.Less(t, len(s), MessagePayloadMax)
}

func TestMessageShort(t *testing.T) {
	m := &Message{ID: MsgRound, Payload: []byte{1, 2}}
	_, err := m.Round()
	assert.ErrorIs(t, err, ErrShortMessage)
	assert.Contains(t, m.String(), "round")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestStreamLink(t *testing.T) {
	var buf bytes.Buffer
	link := NewStreamLink(&buf)
	require.NoError(t, link.SendHello())
	require.NoError(t, link.SendBall(100, 200))

	msgs, stats := readAll(t, buf.Bytes())
	require.Len(t, msgs, 2)
	assert.Equal(t, uint32(2), stats.Frames)
	v, err := msgs[0].Version()
	require.NoError(t, err)
	assert.Equal(t, uint32(LinkVersion), v)

	bad := NewStreamLink(failWriter{})
	require.NoError(t, bad.SendHello())
	require.NoError(t, bad.SendHello())
	assert.Equal(t, uint32(2), bad.WriteErrors())
	assert.Equal(t, uint32(2), bad.Frames())
}

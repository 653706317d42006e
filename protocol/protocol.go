// Package protocol implements the framed debug link between the board
// and the serial monitor.
//
// A frame is [len][seq][payload][crc16 hi, lo][0x7E]. len counts the whole
// frame, seq is 0x10 | n with n incrementing per frame so the reader can
// count lost frames. The payload is a VLQ message id followed by the
// message fields.
package protocol

// LinkVersion is reported in the hello message
const LinkVersion = 1

// Protocol constants
const (
	MessageMax = 512 // Scratch output size, room for one full frame plus queued bytes

	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 255
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence masks
	MessageSeqMask = 0x0F
)

// Message ids
const (
	MsgHello    = 0 // link version
	MsgRound    = 1 // round, start x, start y, end x, end y, steps
	MsgBall     = 2 // x, y
	MsgSnapshot = 3 // length-prefixed snapshot bytes
	MsgLog      = 4 // length-prefixed text
	MsgTiming   = 5 // event type, source, clock, value1, value2
)

// MessageName returns a printable name for a message id
func MessageName(id uint32) string {
	switch id {
	case MsgHello:
		return "hello"
	case MsgRound:
		return "round"
	case MsgBall:
		return "ball"
	case MsgSnapshot:
		return "snapshot"
	case MsgLog:
		return "log"
	case MsgTiming:
		return "timing"
	}
	return "unknown"
}

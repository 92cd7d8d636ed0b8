// Package protocol implements the framed serial link used to control the
// counter over UART: message blocks with sequence numbers, CRC16 and a
// sync byte, carrying VLQ-encoded messages.
package protocol

// Version is the link protocol version reported by the firmware.
const Version = "1.0.0"

// Frame layout: [len][seq][payload...][crc hi][crc lo][sync]
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E

	// MessageDest is the fixed high nibble of every sequence byte.
	MessageDest    = 0x10
	MessageSeqMask = 0x0F

	// MessageMax is the size of the scratch output buffer.
	MessageMax = 512
)

// NextSequence returns the sequence byte that follows seq.
func NextSequence(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}

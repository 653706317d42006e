package protocol

// CRC16 is the CCITT checksum used in every link frame, computed over
// the header and payload
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// appendCRC appends the checksum of data high byte first
func appendCRC(dst []byte, data []byte) []byte {
	crc := CRC16(data)
	return append(dst, uint8(crc>>8), uint8(crc))
}

package id3

// Syncsafe integers spread 28 significant bits over 4 bytes, 7 bits
// per byte, so that no byte of the encoded form can resemble an MPEG
// sync marker.

const syncsafeMax = 1<<28 - 1

func desyncsafeInt(b [4]byte) (int, error) {
	if b[0]&0x80 != 0 || b[1]&0x80 != 0 || b[2]&0x80 != 0 || b[3]&0x80 != 0 {
		return 0, newError(ErrParsing, "syncsafe integer has a high bit set: % x", b[:])
	}
	return int(b[0])<<21 | int(b[1])<<14 | int(b[2])<<7 | int(b[3]), nil
}

func syncsafeInt(i int) [4]byte {
	return [4]byte{
		byte(i >> 21 & 0x7f),
		byte(i >> 14 & 0x7f),
		byte(i >> 7 & 0x7f),
		byte(i & 0x7f),
	}
}

func beUint32(b [4]byte) int {
	return int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
}

func beUint32Bytes(i int) [4]byte {
	return [4]byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)}
}

func beUint24(b []byte) int {
	return int(b[0])<<16 | int(b[1])<<8 | int(b[2])
}

func beUint24Bytes(i int) [3]byte {
	return [3]byte{byte(i >> 16), byte(i >> 8), byte(i)}
}

package ulora

// Marshaling of multi-byte register images in big-endian order.

func marshalUint16(n uint16) []byte {
	return []byte{byte(n >> 8), byte(n & 0xFF)}
}

// marshalUint24 encodes the low 24 bits of n, MSB first, the layout of the
// three consecutive FRF registers.
func marshalUint24(n uint32) []byte {
	return []byte{byte(n >> 16), byte(n >> 8), byte(n & 0xFF)}
}

package core

// String helpers that avoid pulling fmt into the firmware image.

func itoa(n int) string {
	if n < 0 {
		return "-" + utoa(uint32(-n))
	}
	return utoa(uint32(n))
}

func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// hex8 formats v as two upper-case hex digits.
func hex8(v uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[v>>4], digits[v&0x0F]})
}

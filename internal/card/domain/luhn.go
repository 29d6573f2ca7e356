package domain

// IsValidLuhn reports whether number passes the Luhn mod-10 checksum.
// Empty input and input containing anything but ASCII digits are invalid.
func IsValidLuhn(number string) bool {
	if number == "" {
		return false
	}

	sum := 0
	length := len(number)

	// Process all digits from right to left, doubling every second one
	for i := 0; i < length; i++ {
		c := number[length-1-i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')

		if i%2 == 1 {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
	}

	return sum%10 == 0
}

package classifier

// ValidGTIN reports whether code is a GTIN-8, UPC-A, EAN-13 or GTIN-14 with
// a correct GS1 mod-10 check digit.
func ValidGTIN(code string) bool {
	switch len(code) {
	case 8, 12, 13, 14:
	default:
		return false
	}

	sum := 0
	// weights alternate 3, 1 leftwards starting next to the check digit
	for i, pos := len(code)-2, 0; i >= 0; i, pos = i-1, pos+1 {
		d := code[i]
		if d < '0' || d > '9' {
			return false
		}
		digit := int(d - '0')
		if pos%2 == 0 {
			digit *= 3
		}
		sum += digit
	}

	check := code[len(code)-1]
	if check < '0' || check > '9' {
		return false
	}
	return int(check-'0') == (10-sum%10)%10
}

package customer

import "strings"

// Phone is a canonical 10-digit local number.
type Phone struct {
	digits string
}

// NormalizePhone strips everything but digits, then drops a leading country code when
// the result is 11 to 13 digits long, starts with countryCode and leaves a local number.
func NormalizePhone(raw, countryCode string) (Phone, error) {
	var sb strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	digits := sb.String()

	if n := len(digits); n >= 11 && n <= 13 && countryCode != "" && strings.HasPrefix(digits, countryCode) {
		if local := digits[len(countryCode):]; len(local) == LocalPhoneLength {
			digits = local
		}
	}
	// trunk prefix, e.g. 0XXXXXXXXXX
	if len(digits) == LocalPhoneLength+1 && digits[0] == '0' {
		digits = digits[1:]
	}

	if len(digits) != LocalPhoneLength {
		return Phone{}, ErrInvalidPhone
	}
	return Phone{digits: digits}, nil
}

// PhoneFromStored trusts a value already normalized on write.
func PhoneFromStored(digits string) Phone {
	return Phone{digits: digits}
}

func (p Phone) String() string { return p.digits }
func (p Phone) IsZero() bool   { return p.digits == "" }

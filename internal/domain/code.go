package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ConfirmationCodePrefix is the fixed prefix of every confirmation code
const ConfirmationCodePrefix = "AB"

// ErrInvalidConfirmationCode is returned for malformed codes or a wrong check digit
var ErrInvalidConfirmationCode = errors.New("domain: invalid confirmation code")

var confirmationCodeRe = regexp.MustCompile(`^AB-(\d{3,})-(\d{4})-(\d)$`)

// NewConfirmationCode builds AB-<seq>-<year>-<check>. seq is the booking id
// zero-padded to three digits, check is a Luhn digit over seq and year.
// Codes are unique as long as ids are.
func NewConfirmationCode(seq int64, year int) string {
	seqPart := fmt.Sprintf("%03d", seq)
	yearPart := fmt.Sprintf("%04d", year)
	return fmt.Sprintf("%s-%s-%s-%d", ConfirmationCodePrefix, seqPart, yearPart, luhnCheckDigit(seqPart+yearPart))
}

// ParseConfirmationCode validates the code and returns its sequence number
func ParseConfirmationCode(code string) (int64, error) {
	m := confirmationCodeRe.FindStringSubmatch(code)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidConfirmationCode, code)
	}
	if strconv.Itoa(luhnCheckDigit(m[1]+m[2])) != m[3] {
		return 0, fmt.Errorf("%w: check digit mismatch", ErrInvalidConfirmationCode)
	}
	seq, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConfirmationCode, err)
	}
	return seq, nil
}

// luhnCheckDigit computes the digit that makes digits+check pass a Luhn test
func luhnCheckDigit(digits string) int {
	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// ValidateConfirmationCode checks the format and the check digit
func ValidateConfirmationCode(code string) error {
	_, err := ParseConfirmationCode(code)
	return err
}

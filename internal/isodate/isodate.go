// Package isodate parses RFC 3339 or RFC 5322 timestamps into a
// broken-down date and emits the 16-character ISO 8601 basic form
// (YYYYMMDDThhmmssZ) the signer's credential scope and x-amz-date
// header must agree on exactly.
//
// Parsing is driven by a tiny format mini-language: a token is either a
// literal byte to match verbatim, or a field of a given length, one of
// Y (year), M (month, digits or a 3-letter abbreviation), D (day),
// h/m/s (hour/minute/second), or * (skip, ignore content).
package isodate

import "github.com/ethanadams/sigv4/internal/sigv4err"

// DateTime is a broken-down, timezone-less date (every input is UTC).
type DateTime struct {
	Year, Month, Day, Hour, Minute, Second int
}

const (
	IsoLen  = 16
	RFC3339Len = 20
	RFC5322Len = 29
)

var monthAbbrev = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

type fieldKind byte

const (
	fieldLiteral fieldKind = iota
	fieldYear
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	fieldSecond
	fieldSkip
)

type token struct {
	kind    fieldKind
	length  int
	literal byte
}

func lit(b byte) token               { return token{kind: fieldLiteral, length: 1, literal: b} }
func field(k fieldKind, n int) token { return token{kind: k, length: n} }

// rfc3339Tokens describes "YYYY-MM-DDThh:mm:ssZ" (20 bytes).
var rfc3339Tokens = []token{
	field(fieldYear, 4),
	lit('-'),
	field(fieldMonth, 2),
	lit('-'),
	field(fieldDay, 2),
	lit('T'),
	field(fieldHour, 2),
	lit(':'),
	field(fieldMinute, 2),
	lit(':'),
	field(fieldSecond, 2),
	lit('Z'),
}

// rfc5322Tokens describes "Day, DD Mon YYYY hh:mm:ss GMT" (29 bytes).
var rfc5322Tokens = []token{
	field(fieldSkip, 3),
	lit(','), lit(' '),
	field(fieldDay, 2),
	lit(' '),
	field(fieldMonth, 3),
	lit(' '),
	field(fieldYear, 4),
	lit(' '),
	field(fieldHour, 2),
	lit(':'),
	field(fieldMinute, 2),
	lit(':'),
	field(fieldSecond, 2),
	lit(' '), lit('G'), lit('M'), lit('T'),
}

func tokensLen(tokens []token) int {
	n := 0
	for _, t := range tokens {
		n += t.length
	}
	return n
}

// ParseRFC3339 parses a 20-byte "YYYY-MM-DDThh:mm:ssZ" timestamp.
func ParseRFC3339(input []byte) (DateTime, error) {
	return parse(input, rfc3339Tokens)
}

// ParseRFC5322 parses a 29-byte "Day, DD Mon YYYY hh:mm:ss GMT" timestamp.
func ParseRFC5322(input []byte) (DateTime, error) {
	return parse(input, rfc5322Tokens)
}

// ParseAny dispatches on input length: 20 bytes is treated as RFC 3339,
// 29 bytes as RFC 5322. Any other length is InvalidParameter.
func ParseAny(input []byte) (DateTime, error) {
	switch len(input) {
	case RFC3339Len:
		return ParseRFC3339(input)
	case RFC5322Len:
		return ParseRFC5322(input)
	default:
		return DateTime{}, sigv4err.Newf(sigv4err.InvalidParameter, "isodate: unexpected input length %d", len(input))
	}
}

func parse(input []byte, tokens []token) (DateTime, error) {
	if len(input) != tokensLen(tokens) {
		return DateTime{}, sigv4err.Newf(sigv4err.InvalidParameter, "isodate: expected length %d, got %d", tokensLen(tokens), len(input))
	}

	var dt DateTime
	pos := 0
	for _, t := range tokens {
		chunk := input[pos : pos+t.length]
		switch t.kind {
		case fieldLiteral:
			if chunk[0] != t.literal {
				return DateTime{}, sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: expected literal %q at offset %d", t.literal, pos)
			}
		case fieldSkip:
			// content ignored
		case fieldYear:
			v, err := parseDigits(chunk)
			if err != nil {
				return DateTime{}, err
			}
			dt.Year = v
		case fieldMonth:
			v, err := parseMonth(chunk)
			if err != nil {
				return DateTime{}, err
			}
			dt.Month = v
		case fieldDay:
			v, err := parseDigits(chunk)
			if err != nil {
				return DateTime{}, err
			}
			dt.Day = v
		case fieldHour:
			v, err := parseDigits(chunk)
			if err != nil {
				return DateTime{}, err
			}
			dt.Hour = v
		case fieldMinute:
			v, err := parseDigits(chunk)
			if err != nil {
				return DateTime{}, err
			}
			dt.Minute = v
		case fieldSecond:
			v, err := parseDigits(chunk)
			if err != nil {
				return DateTime{}, err
			}
			dt.Second = v
		}
		pos += t.length
	}

	if err := validate(dt); err != nil {
		return DateTime{}, err
	}
	return dt, nil
}

func parseDigits(b []byte) (int, error) {
	v := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: expected digit, got %q", c)
		}
		v = v*10 + int(c-'0')
	}
	return v, nil
}

func parseMonth(b []byte) (int, error) {
	if len(b) == 2 && b[0] >= '0' && b[0] <= '9' && b[1] >= '0' && b[1] <= '9' {
		return parseDigits(b)
	}
	for i, name := range monthAbbrev {
		if len(b) == len(name) && string(b) == name {
			return i + 1, nil
		}
	}
	return 0, sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: unrecognized month %q", b)
}

// IsLeapYear reports whether year is a leap year in the proleptic
// Gregorian calendar: divisible by 4, except century years, which must
// also be divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func validate(dt DateTime) error {
	if dt.Year < 1900 {
		return sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: year %d before 1900", dt.Year)
	}
	if dt.Month < 1 || dt.Month > 12 {
		return sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: month %d out of range", dt.Month)
	}
	if dt.Day < 1 || dt.Day > daysInMonth(dt.Year, dt.Month) {
		return sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: day %d out of range for %04d-%02d", dt.Day, dt.Year, dt.Month)
	}
	if dt.Hour < 0 || dt.Hour > 23 {
		return sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: hour %d out of range", dt.Hour)
	}
	if dt.Minute < 0 || dt.Minute > 59 {
		return sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: minute %d out of range", dt.Minute)
	}
	if dt.Second < 0 || dt.Second > 60 { // leap second tolerated
		return sigv4err.Newf(sigv4err.ISOFormattingError, "isodate: second %d out of range", dt.Second)
	}
	return nil
}

// WriteISO8601Basic writes the 16-byte YYYYMMDDThhmmssZ form of dt into
// out, which must be at least IsoLen bytes.
func WriteISO8601Basic(dt DateTime, out []byte) error {
	if len(out) < IsoLen {
		return sigv4err.New(sigv4err.InsufficientMemory, "isodate: output shorter than 16 bytes")
	}
	putDigits(out[0:4], dt.Year, 4)
	putDigits(out[4:6], dt.Month, 2)
	putDigits(out[6:8], dt.Day, 2)
	out[8] = 'T'
	putDigits(out[9:11], dt.Hour, 2)
	putDigits(out[11:13], dt.Minute, 2)
	putDigits(out[13:15], dt.Second, 2)
	out[15] = 'Z'
	return nil
}

func putDigits(dst []byte, v, width int) {
	for i := width - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
}

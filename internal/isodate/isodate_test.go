package isodate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/sigv4/internal/isodate"
)

func TestParseRFC3339AndRFC5322Agree(t *testing.T) {
	rfc3339, err := isodate.ParseRFC3339([]byte("2015-08-30T12:36:00Z"))
	require.NoError(t, err)

	rfc5322, err := isodate.ParseRFC5322([]byte("Sun, 30 Aug 2015 12:36:00 GMT"))
	require.NoError(t, err)

	require.Equal(t, rfc3339, rfc5322)

	out := make([]byte, isodate.IsoLen)
	require.NoError(t, isodate.WriteISO8601Basic(rfc3339, out))
	require.Equal(t, "20150830T123600Z", string(out))
}

func TestParseAnyDispatchesOnLength(t *testing.T) {
	_, err := isodate.ParseAny([]byte("2015-08-30T12:36:00Z"))
	require.NoError(t, err)
	_, err = isodate.ParseAny([]byte("Sun, 30 Aug 2015 12:36:00 GMT"))
	require.NoError(t, err)
	_, err = isodate.ParseAny([]byte("too short"))
	require.Error(t, err)
}

func TestLeapYearFebruary29(t *testing.T) {
	require.True(t, isodate.IsLeapYear(2000))
	require.False(t, isodate.IsLeapYear(1900))
	require.True(t, isodate.IsLeapYear(2016))
	require.False(t, isodate.IsLeapYear(2015))

	dt, err := isodate.ParseRFC3339([]byte("2016-02-29T00:00:00Z"))
	require.NoError(t, err)
	require.Equal(t, 29, dt.Day)

	_, err = isodate.ParseRFC3339([]byte("2015-02-29T00:00:00Z"))
	require.Error(t, err)
}

func TestLeapSecondTolerated(t *testing.T) {
	_, err := isodate.ParseRFC3339([]byte("2016-12-31T23:59:60Z"))
	require.NoError(t, err)
}

func TestRejectsMalformedLiteral(t *testing.T) {
	_, err := isodate.ParseRFC3339([]byte("2015-08-30X12:36:00Z"))
	require.Error(t, err)
}

func TestRejectsOutOfRangeMonth(t *testing.T) {
	_, err := isodate.ParseRFC3339([]byte("2015-13-01T00:00:00Z"))
	require.Error(t, err)
}

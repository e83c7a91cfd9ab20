package codec

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyvito/mpp/schedule"
)

func mustBytesFromHex(s string) []byte {
	s = strings.ReplaceAll(s, " ", "")
	v, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// encodeNibbles writes v as n bytes, placing the lowest nibble of each byte
// first and the lowest byte first.
func encodeNibbles(v uint64, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		lo := byte(v & 0x0F)
		v >>= 4
		hi := byte(v & 0x0F)
		v >>= 4
		out[i] = hi<<4 | lo
	}
	return out
}

// TestIntegerRoundTrip encodes random values through the nibble layout and
// ensures every width decodes back to the exact value.
func TestIntegerRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1983, 12))
	for i := 0; i < 1000; i++ {
		v := r.Uint64()

		assert.Equal(t, uint8(v), Uint8(encodeNibbles(v, 1), 0))
		assert.Equal(t, uint16(v), Uint16(encodeNibbles(v, 2), 0))
		assert.Equal(t, int16(v), Int16(encodeNibbles(v, 2), 0))
		assert.Equal(t, uint32(v), Uint32(encodeNibbles(v, 4), 0))
		assert.Equal(t, int32(v), Int32(encodeNibbles(v, 4), 0))
		assert.Equal(t, int64(v&0xFFFFFFFFFFFF), Int48(encodeNibbles(v, 6), 0))
		assert.Equal(t, int64(v), Int64(encodeNibbles(v, 8), 0))
	}
}

func TestIntegerLayoutMatchesLittleEndian(t *testing.T) {
	data := mustBytesFromHex("12 34 56 78 9A BC DE F0")
	assert.Equal(t, binary.LittleEndian.Uint16(data), Uint16(data, 0))
	assert.Equal(t, binary.LittleEndian.Uint32(data), Uint32(data, 0))
	assert.Equal(t, int64(binary.LittleEndian.Uint64(data)), Int64(data, 0))
	assert.Equal(t, uint16(0x5634), Uint16(data, 1))
	assert.Equal(t, int32(-1), Int32(mustBytesFromHex("FFFFFFFF"), 0))
}

func TestDouble(t *testing.T) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(1234.5))
	assert.Equal(t, 1234.5, Double(b, 0))

	binary.LittleEndian.PutUint64(b, math.Float64bits(math.NaN()))
	assert.Equal(t, 0.0, Double(b, 0))
}

func TestWithinAndBias(t *testing.T) {
	b := make([]byte, 8)
	assert.True(t, Within(b, 4, 4))
	assert.False(t, Within(b, 5, 4))
	assert.False(t, Within(b, -1, 1))
	assert.True(t, Within(b, 8, 0))

	assert.Equal(t, 0, BiasedOffset(-1))
	assert.Equal(t, 40, BiasedOffset(-41))
}

// TestDateSentinel ensures the absent marker never decodes to the epoch,
// whatever zone the reader is configured with.
func TestDateSentinel(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	zones := []*time.Location{nil, time.UTC, time.Local, ny, time.FixedZone("X", 13*3600)}

	for _, loc := range zones {
		assert.Nil(t, Date(mustBytesFromHex("FFFF"), 0, loc))
		assert.Nil(t, Timestamp(mustBytesFromHex("0000 FFFF"), 0, loc))
	}

	d := Date(mustBytesFromHex("0100"), 0, time.UTC)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(1984, time.January, 1, 0, 0, 0, 0, time.UTC), *d)
}

func TestTimeAndTimestamp(t *testing.T) {
	// 08:00 is 480 minutes, 4800 tenths
	assert.Equal(t, 8*time.Hour, Time(mustBytesFromHex("C012"), 0))
	assert.Equal(t, 9*time.Hour, CalendarDuration(mustBytesFromHex("1815"), 0))

	// 600 tenths after midnight on day 1
	ts := Timestamp(mustBytesFromHex("5802 0100"), 0, time.UTC)
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(1984, time.January, 1, 1, 0, 0, 0, time.UTC), *ts)

	// The time sentinel reads as midnight
	ts = Timestamp(mustBytesFromHex("FFFF 0100"), 0, time.UTC)
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(1984, time.January, 1, 0, 0, 0, 0, time.UTC), *ts)
}

func TestTimestampAbsent(t *testing.T) {
	tests := map[string]string{
		"zero day count":  "5802 0000",
		"absent sentinel": "5802 FFFF",
		"both sentinels":  "FFFF FFFF",
		"midnight, day 0": "0000 0000",
	}
	for name, raw := range tests {
		assert.Nilf(t, Timestamp(mustBytesFromHex(raw), 0, nil), "%s: expected no date", name)
		assert.Nilf(t, Timestamp(mustBytesFromHex(raw), 0, time.UTC), "%s: expected no date", name)
	}
}

// TestTimestampDaylightSaving decodes a summer timestamp and checks its wall
// clock is preserved with the zone's DST offset applied.
func TestTimestampDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 1984-07-01 (day 183) 12:00 (7200 tenths)
	b := append(encodeNibbles(7200, 2), encodeNibbles(183, 2)...)
	ts := Timestamp(b, 0, ny)
	require.NotNil(t, ts)
	assert.Equal(t, 12, ts.Hour())
	assert.Equal(t, time.July, ts.Month())
	_, offset := ts.Zone()
	assert.Equal(t, -4*3600, offset)
	assert.True(t, ts.IsDST())
}

// TestDurationScaleExactness pins the fixed divisors of each unit.
func TestDurationScaleExactness(t *testing.T) {
	assert.Equal(t, 1.0, Duration(4800, schedule.Days))
	assert.Equal(t, 1.0, Duration(600, schedule.Hours))
	assert.Equal(t, 1.0, Duration(10, schedule.Minutes))
	assert.Equal(t, 1.0, Duration(14400, schedule.ElapsedDays))
	assert.Equal(t, 1.0, Duration(24000, schedule.Weeks))
	assert.Equal(t, 1.0, Duration(100800, schedule.ElapsedWeeks))
	assert.Equal(t, 1.0, Duration(96000, schedule.Months))
	assert.Equal(t, 1.0, Duration(432000, schedule.ElapsedMonths))
	assert.Equal(t, 50.0, Duration(50, schedule.Percent))
}

func TestAdjustedDuration(t *testing.T) {
	def := DefaultDurationSettings()
	d := AdjustedDuration(4800, schedule.Days, def)
	require.NotNil(t, d)
	assert.Equal(t, schedule.Duration{Value: 1, Units: schedule.Days}, *d)

	long := DurationSettings{MinutesPerDay: 600, MinutesPerWeek: 3000, DaysPerMonth: 20}
	assert.Equal(t, 0.8, AdjustedDuration(4800, schedule.Days, long).Value)
	assert.Equal(t, 1.0, AdjustedDuration(30000, schedule.Weeks, long).Value)
	assert.Equal(t, 1.0, AdjustedDuration(120000, schedule.Months, long).Value)

	// Elapsed units are not affected by project settings
	assert.Equal(t, 1.0, AdjustedDuration(14400, schedule.ElapsedDays, long).Value)

	assert.Equal(t, 0.0, AdjustedDuration(4800, schedule.Days, DurationSettings{}).Value)
	assert.Nil(t, AdjustedDuration(-1, schedule.Days, def))
}

func TestDurationUnits(t *testing.T) {
	assert.Equal(t, schedule.Minutes, DurationUnits(3, schedule.Days))
	assert.Equal(t, schedule.ElapsedHours, DurationUnits(6, schedule.Days))
	assert.Equal(t, schedule.Weeks, DurationUnits(9|0x20, schedule.Days))
	assert.Equal(t, schedule.Hours, DurationUnits(21, schedule.Hours))
	assert.Equal(t, schedule.Days, DurationUnits(0, schedule.Hours))
	assert.True(t, DurationEstimated(0x27))
	assert.False(t, DurationEstimated(0x07))
}

func TestText(t *testing.T) {
	b := mustBytesFromHex("48006900 0000 4100")
	assert.Equal(t, "Hi", UnicodeString(b, 0, -1))
	assert.Equal(t, "H", UnicodeString(b, 0, 2))
	assert.Equal(t, "A", UnicodeString(b, 6, -1))
	assert.Equal(t, "", UnicodeString(b, 8, -1))

	c := mustBytesFromHex("636166E9 00 7A")
	assert.Equal(t, "café", String(c, 0, -1))
	assert.Equal(t, "ca", String(c, 0, 2))
	assert.Equal(t, "z", String(c, 5, -1))
}

func TestGUIDAndPercentage(t *testing.T) {
	b := mustBytesFromHex("33221100 5544 7766 8899AABBCCDDEEFF")
	assert.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", GUID(b, 0).String())

	assert.Equal(t, 75, Percentage(mustBytesFromHex("4B00"), 0))
	assert.Equal(t, 0, Percentage(mustBytesFromHex("6500"), 0))
}

func TestXORAndPassword(t *testing.T) {
	data := []byte("plain data")
	XOR(data, 0x5A)
	assert.NotEqual(t, []byte("plain data"), data)
	XOR(data, 0x5A)
	assert.Equal(t, []byte("plain data"), data)

	block := make([]byte, 64)
	for i, c := range []byte("secret") {
		block[passwordMask[i]] = c
	}
	XOR(block, 0x11)
	original := append([]byte(nil), block...)

	pwd, ok := DecodePassword(block, 0x11)
	require.True(t, ok)
	assert.Equal(t, "secret", pwd)
	assert.Equal(t, original, block)

	_, ok = DecodePassword(block[:63], 0x11)
	assert.False(t, ok)
}

package lineprotocol

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustBuild builds a point or fails the test.
func mustBuild(t *testing.T, b *PointBuilder) Point {
	t.Helper()
	point, err := b.Build()
	require.NoError(t, err)
	return point
}

func TestEncode_Canonical(t *testing.T) {
	tests := []struct {
		name  string
		point *PointBuilder
		want  string
	}{
		{
			name:  "minimal",
			point: NewPoint("weather").AddFloat("temperature", 82),
			want:  "weather temperature=82\n",
		},
		{
			name: "tags sorted by key",
			point: NewPoint("weather").
				AddTag("season", "summer").
				AddTag("location", "us-midwest").
				AddFloat("temperature", 82),
			want: "weather,location=us-midwest,season=summer temperature=82\n",
		},
		{
			name: "fields keep given order",
			point: NewPoint("weather").
				AddInt("humidity", 71).
				AddFloat("temperature", 82),
			want: "weather humidity=71i,temperature=82\n",
		},
		{
			name: "all value kinds",
			point: NewPoint("m").
				AddFloat("f", 1.5).
				AddInt("i", -3).
				AddUint("u", 7).
				AddBool("b", true).
				AddString("s", "hi"),
			want: `m f=1.5,i=-3i,u=7u,b=true,s="hi"` + "\n",
		},
		{
			name: "escaping in every context",
			point: NewPoint("wea ther,x").
				AddTag("tag key", "val=ue,s").
				AddString("field key", `say "hi" \o`),
			want: `wea\ ther\,x,tag\ key=val\=ue\,s field\ key="say \"hi\" \\o"` + "\n",
		},
		{
			name:  "timestamp",
			point: NewPoint("m").AddFloat("f", 1).Timestamp(1465839830100400200),
			want:  "m f=1 1465839830100400200\n",
		},
		{
			name:  "negative timestamp",
			point: NewPoint("m").AddFloat("f", 1).Timestamp(-100),
			want:  "m f=1 -100\n",
		},
		{
			name:  "float renders shortest round trip",
			point: NewPoint("m").AddFloat("f", 0.1),
			want:  "m f=0.1\n",
		},
		{
			name:  "large float uses exponent form",
			point: NewPoint("m").AddFloat("f", 1e21),
			want:  "m f=1e+21\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Encode(mustBuild(t, tt.point))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestEncode_DuplicateTagKeysStableOrder(t *testing.T) {
	point := mustBuild(t, NewPoint("m").
		AddTag("b", "2").
		AddTag("a", "1").
		AddTag("b", "3").
		AddFloat("f", 1))

	out, err := Encode(point)
	require.NoError(t, err)
	assert.Equal(t, "m,a=1,b=2,b=3 f=1\n", string(out))
}

func TestEncode_SortDoesNotMutatePoint(t *testing.T) {
	point := mustBuild(t, NewPoint("m").
		AddTag("z", "1").
		AddTag("a", "2").
		AddFloat("f", 1))

	_, err := Encode(point)
	require.NoError(t, err)

	// The point's own tag order is still as given.
	assert.Equal(t, "z", point.Tags()[0].Key)
	assert.Equal(t, "a", point.Tags()[1].Key)
}

func TestEncode_Errors(t *testing.T) {
	t.Run("no fields", func(t *testing.T) {
		p := Point{measurement: "m"}
		_, err := Encode(p)
		assert.ErrorIs(t, err, ErrMissingFieldSet)
	})

	t.Run("empty measurement", func(t *testing.T) {
		p := Point{fields: []Field{{Key: "f", Value: FloatValue(1)}}}
		_, err := Encode(p)
		assert.ErrorIs(t, err, ErrEmptyMeasurement)
	})

	t.Run("nan float", func(t *testing.T) {
		p := Point{
			measurement: "m",
			fields:      []Field{{Key: "f", Value: FloatValue(math.NaN())}},
		}
		_, err := Encode(p)
		assert.ErrorIs(t, err, ErrNonFiniteFloat)
	})

	t.Run("infinite float", func(t *testing.T) {
		p := Point{
			measurement: "m",
			fields:      []Field{{Key: "f", Value: FloatValue(math.Inf(1))}},
		}
		_, err := Encode(p)
		assert.ErrorIs(t, err, ErrNonFiniteFloat)
	})

	t.Run("newline in string value", func(t *testing.T) {
		p := Point{
			measurement: "m",
			fields:      []Field{{Key: "f", Value: StringValue("a\nb")}},
		}
		_, err := Encode(p)
		assert.ErrorIs(t, err, ErrNewlineInToken)
	})

	t.Run("zero value", func(t *testing.T) {
		p := Point{
			measurement: "m",
			fields:      []Field{{Key: "f", Value: Value{}}},
		}
		_, err := Encode(p)
		assert.ErrorIs(t, err, ErrInvalidFieldValue)
	})
}

func TestEncode_ParseRoundTrip(t *testing.T) {
	lines := []string{
		"weather,location=us-midwest temperature=82 1465839830100400200",
		`wea\ ther,tag\,key=va\=lue field="quoted \"text\"" -42`,
		"m f=1i,g=2u,h=true,s=\"x\"",
		"m temperature=-0.5e-3",
	}

	for _, line := range lines {
		point, err := ParseLine([]byte(line))
		require.NoError(t, err, line)

		out, err := Encode(point)
		require.NoError(t, err, line)

		reparsed, err := ParseLine(bytes.TrimSuffix(out, []byte("\n")))
		require.NoError(t, err, string(out))

		assert.Equal(t, point.Measurement(), reparsed.Measurement())
		assert.Equal(t, point.Tags(), reparsed.Tags())
		assert.Equal(t, point.Fields(), reparsed.Fields())

		ts1, ok1 := point.Timestamp()
		ts2, ok2 := reparsed.Timestamp()
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, ts1, ts2)
	}
}

func TestEncode_Idempotent(t *testing.T) {
	// Once canonical, re-encoding after a parse changes nothing.
	point := mustBuild(t, NewPoint("m").
		AddTag("z", "1").
		AddTag("a", "2").
		AddFloat("f", 0.30000000000000004).
		Timestamp(100))

	first, err := Encode(point)
	require.NoError(t, err)

	reparsed, err := ParseLine(bytes.TrimSuffix(first, []byte("\n")))
	require.NoError(t, err)

	second, err := Encode(reparsed)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestPoint_String(t *testing.T) {
	point := mustBuild(t, NewPoint("m").AddFloat("f", 1))
	assert.Equal(t, "m f=1", point.String())

	bad := Point{measurement: "m"}
	assert.Contains(t, bad.String(), "invalid point")
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "1.5", FloatValue(1.5).String())
	assert.Equal(t, "-3i", IntValue(-3).String())
	assert.Equal(t, "7u", UintValue(7).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, `"hi"`, StringValue("hi").String())
	assert.Equal(t, "NaN", FloatValue(math.NaN()).String())
	assert.Equal(t, "<invalid value>", Value{}.String())
}

func TestBatch(t *testing.T) {
	var b Batch
	b = b.Add(
		mustBuild(t, NewPoint("m").AddFloat("f", 1)),
		mustBuild(t, NewPoint("m").AddFloat("f", 2)),
	)
	b = b.Add(mustBuild(t, NewPoint("n").AddInt("g", 3).Timestamp(9)))

	out, err := b.Encode()
	require.NoError(t, err)
	assert.Equal(t, "m f=1\nm f=2\nn g=3i 9\n", string(out))

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, string(out), buf.String())
}

func TestBatch_WriteToFailsWithoutPartialWrite(t *testing.T) {
	b := Batch{
		{measurement: "m", fields: []Field{{Key: "f", Value: FloatValue(1)}}},
		{measurement: ""},
	}

	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

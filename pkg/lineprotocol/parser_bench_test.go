package lineprotocol_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/shapestone/shape-lineprotocol/pkg/lineprotocol"
)

// Benchmark data is generated once and reused across all benchmarks.
var (
	benchSmall  []byte
	benchLarge  []byte
	benchPoints []lineprotocol.Point
)

func init() {
	benchSmall = []byte("weather,location=us-midwest,season=summer temperature=82,humidity=71i 1465839830100400200\n")

	var buf bytes.Buffer
	for i := 0; i < 10000; i++ {
		fmt.Fprintf(&buf,
			"cpu,host=server%02d,region=us-west usage=%d.%02d,idle=%di,label=\"core %d\" %d\n",
			i%32, i%100, i%97, 100-i%100, i%8, 1465839830100400200+int64(i))
	}
	benchLarge = buf.Bytes()

	points, err := lineprotocol.Parse(benchLarge)
	if err != nil {
		panic(err)
	}
	benchPoints = points
}

func BenchmarkParseLine(b *testing.B) {
	b.SetBytes(int64(len(benchSmall)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := lineprotocol.ParseLine(benchSmall); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_10kLines(b *testing.B) {
	b.SetBytes(int64(len(benchLarge)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := lineprotocol.Parse(benchLarge); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanner_10kLines(b *testing.B) {
	b.SetBytes(int64(len(benchLarge)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sc := lineprotocol.NewScanner(benchLarge)
		for sc.Scan() {
			if _, err := sc.Point(); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkEncode_10kPoints(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := lineprotocol.Encode(benchPoints...); err != nil {
			b.Fatal(err)
		}
	}
}

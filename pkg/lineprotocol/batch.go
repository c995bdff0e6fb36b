package lineprotocol

import (
	"bytes"
	"io"
)

// Batch is a collection of points serialized together, one line per
// point.
type Batch []Point

// Add appends points to the batch and returns the extended batch,
// following the append convention.
func (b Batch) Add(points ...Point) Batch {
	return append(b, points...)
}

// Encode renders the whole batch as newline-terminated canonical
// line-protocol bytes.
func (b Batch) Encode() ([]byte, error) {
	return Encode(b...)
}

// WriteTo encodes the batch and writes it to w, implementing
// io.WriterTo. Nothing is written if any point in the batch fails to
// encode.
func (b Batch) WriteTo(w io.Writer) (int64, error) {
	data, err := b.Encode()
	if err != nil {
		return 0, err
	}
	n, err := bytes.NewReader(data).WriteTo(w)
	return n, err
}

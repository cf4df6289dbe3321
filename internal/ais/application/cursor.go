package application

import "go162/internal/ais"

// reader walks envelope data bits with a sticky error, keeping the variable
// layout payload decoders as flat field reads.
type reader struct {
	bv  *ais.BitVector
	pos int
	err error
}

func newReader(bv *ais.BitVector) *reader {
	return &reader{bv: bv}
}

// remaining returns the number of unread bits.
func (r *reader) remaining() int {
	return r.bv.Len() - r.pos
}

func (r *reader) readUint(n int) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.bv.GetUint(r.pos, n)
	if err != nil {
		r.err = err
		return 0
	}
	r.pos += n
	return v
}

func (r *reader) readInt(n int) int64 {
	if r.err != nil {
		return 0
	}
	v, err := r.bv.GetInt(r.pos, n)
	if err != nil {
		r.err = err
		return 0
	}
	r.pos += n
	return v
}

// writer is the appending counterpart of reader.
type writer struct {
	bv  *ais.BitVector
	err error
}

func newWriter(bv *ais.BitVector) *writer {
	return &writer{bv: bv}
}

func (w *writer) writeUint(v uint64, n int) {
	if w.err != nil {
		return
	}
	w.err = w.bv.AppendUint(v, n)
}

func (w *writer) writeInt(v int64, n int) {
	if w.err != nil {
		return
	}
	w.err = w.bv.AppendInt(v, n)
}

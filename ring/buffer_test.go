// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package ring_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/jetsetilly/zwinder/ring"
)

func byteSnapshot(b byte) ring.SnapshotFunc {
	return func(w io.Writer) error {
		_, err := w.Write([]byte{b})
		return err
	}
}

func TestCapture_cadence(t *testing.T) {
	b := ring.New(ring.Config{RewindFrequency: 3, ByteBudget: 1000})

	ok, err := b.Capture(0, byteSnapshot(0), nil, false)
	if err != nil || !ok {
		t.Fatalf("expected first capture to be admitted")
	}

	ok, err = b.Capture(2, byteSnapshot(2), nil, false)
	if err != nil || ok {
		t.Fatalf("expected capture within frequency to be refused")
	}

	ok, err = b.Capture(3, byteSnapshot(3), nil, false)
	if err != nil || !ok {
		t.Fatalf("expected capture at exactly frequency to be admitted")
	}

	ok, err = b.Capture(4, byteSnapshot(4), nil, true)
	if err != nil || !ok {
		t.Fatalf("expected forced capture to be admitted regardless of cadence")
	}

	if b.Count() != 3 {
		t.Fatalf("expected 3 entries, got %d", b.Count())
	}
}

func TestCapture_evictsOldestOnOverBudget(t *testing.T) {
	b := ring.New(ring.Config{RewindFrequency: 1, ByteBudget: 3})

	var evicted []ring.Entry
	onEvict := func(e ring.Entry) { evicted = append(evicted, e) }

	for i := uint32(0); i < 4; i++ {
		ok, err := b.Capture(i, byteSnapshot(byte(i)), onEvict, false)
		if err != nil || !ok {
			t.Fatalf("capture %d: want admitted, got ok=%v err=%v", i, ok, err)
		}
	}

	if b.Count() != 3 {
		t.Fatalf("expected budget of 3 bytes to hold 3 one-byte entries, got %d", b.Count())
	}
	if len(evicted) != 1 || evicted[0].Frame != 0 {
		t.Fatalf("expected frame 0 to be the sole eviction, got %+v", evicted)
	}
}

func TestCapture_insertsOutOfOrderForGapFill(t *testing.T) {
	b := ring.New(ring.Config{RewindFrequency: 1, ByteBudget: 1000})

	for _, f := range []uint32{10, 20, 15} {
		ok, err := b.Capture(f, byteSnapshot(byte(f)), nil, true)
		if err != nil || !ok {
			t.Fatalf("capture %d failed: %v", f, err)
		}
	}

	want := []uint32{10, 15, 20}
	for i, w := range want {
		e, ok := b.Get(i)
		if !ok || e.Frame != w {
			t.Fatalf("index %d: want frame %d, got %+v (ok=%v)", i, w, e, ok)
		}
	}
}

func TestInvalidateEnd(t *testing.T) {
	b := ring.New(ring.Config{RewindFrequency: 1, ByteBudget: 1000})
	for _, f := range []uint32{1, 2, 3, 4, 5} {
		if _, err := b.Capture(f, byteSnapshot(byte(f)), nil, true); err != nil {
			t.Fatal(err)
		}
	}

	b.InvalidateEnd(2)
	if b.Count() != 2 {
		t.Fatalf("expected 2 entries after truncation, got %d", b.Count())
	}
	e, _ := b.Get(1)
	if e.Frame != 2 {
		t.Fatalf("expected newest remaining frame to be 2, got %d", e.Frame)
	}
}

func TestRoundTrip(t *testing.T) {
	b := ring.New(ring.Config{RewindFrequency: 1, ByteBudget: 1000})
	for _, f := range []uint32{1, 2, 3} {
		if _, err := b.Capture(f, byteSnapshot(byte(f*10)), nil, true); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := b.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := ring.Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Count() != b.Count() {
		t.Fatalf("expected %d entries, got %d", b.Count(), loaded.Count())
	}
	for i := 0; i < b.Count(); i++ {
		want, _ := b.Get(i)
		got, _ := loaded.Get(i)
		if want.Frame != got.Frame || !bytes.Equal(want.Bytes(), got.Bytes()) {
			t.Fatalf("entry %d mismatch: want %+v got %+v", i, want, got)
		}
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	b := ring.New(ring.Config{RewindFrequency: 1, ByteBudget: 10})
	if _, err := b.Capture(1, byteSnapshot(1), nil, true); err != nil {
		t.Fatal(err)
	}
	b.Dispose()
	b.Dispose()
	if b.Count() != 0 {
		t.Fatalf("expected disposed buffer to be empty")
	}
	if _, err := b.Capture(2, byteSnapshot(2), nil, true); err == nil {
		t.Fatalf("expected capture on disposed buffer to fail")
	}
}

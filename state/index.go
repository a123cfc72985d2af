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

package state

import "sort"

// frameIndex is a sorted set of distinct frame numbers. It is a pure
// index: it never owns snapshot bytes, only the fact that a frame is
// addressable somewhere in the manager's stores.
//
// No ordered-set or btree library appears anywhere in the retrieved
// example pack (see DESIGN.md), so this is a plain sorted slice
// searched with binary search - O(log n) for lookups, O(n) worst case
// for insert/remove, which in practice is dominated by memmove of a
// slice of uint32 and is fast enough for the entry counts this cache
// deals with (low thousands at most).
type frameIndex struct {
	frames []uint32
}

func newFrameIndex() *frameIndex {
	return &frameIndex{}
}

// search returns the position of frame in the slice, and whether it
// was found. If not found, the position is where it would be inserted
// to keep the slice sorted.
func (fi *frameIndex) search(frame uint32) (int, bool) {
	i := sort.Search(len(fi.frames), func(i int) bool { return fi.frames[i] >= frame })
	if i < len(fi.frames) && fi.frames[i] == frame {
		return i, true
	}
	return i, false
}

// insert adds frame to the index. A no-op if already present.
func (fi *frameIndex) insert(frame uint32) {
	i, ok := fi.search(frame)
	if ok {
		return
	}
	fi.frames = append(fi.frames, 0)
	copy(fi.frames[i+1:], fi.frames[i:])
	fi.frames[i] = frame
}

// remove deletes frame from the index. A no-op if not present.
func (fi *frameIndex) remove(frame uint32) {
	i, ok := fi.search(frame)
	if !ok {
		return
	}
	fi.frames = append(fi.frames[:i], fi.frames[i+1:]...)
}

// contains reports whether frame is in the index.
func (fi *frameIndex) contains(frame uint32) bool {
	_, ok := fi.search(frame)
	return ok
}

// max returns the largest frame in the index. Panics if the index is
// empty - callers must only call this once frame 0 has been engaged.
func (fi *frameIndex) max() uint32 {
	return fi.frames[len(fi.frames)-1]
}

// closestLE returns the largest frame <= target, and whether one
// exists.
func (fi *frameIndex) closestLE(target uint32) (uint32, bool) {
	i := sort.Search(len(fi.frames), func(i int) bool { return fi.frames[i] > target })
	if i == 0 {
		return 0, false
	}
	return fi.frames[i-1], true
}

// removeWhile removes every frame for which remove returns true,
// preserving order.
func (fi *frameIndex) removeWhile(remove func(frame uint32) bool) {
	kept := fi.frames[:0]
	for _, f := range fi.frames {
		if !remove(f) {
			kept = append(kept, f)
		}
	}
	fi.frames = kept
}

// len returns the number of frames in the index.
func (fi *frameIndex) len() int {
	return len(fi.frames)
}

// all returns every frame in the index in ascending order. The
// returned slice must not be mutated by the caller.
func (fi *frameIndex) all() []uint32 {
	return fi.frames
}

// reset discards every frame and reinitialises the index to contain
// only frame 0.
func (fi *frameIndex) reset() {
	fi.frames = []uint32{0}
}

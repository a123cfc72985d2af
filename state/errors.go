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

import "github.com/jetsetilly/zwinder/curated"

// error patterns used to classify curated errors raised by this package.
const (
	patternOutOfRange       = "state: out of range: %v"
	patternInvalidOperation = "state: invalid operation: %v"
)

// errOutOfRange raises a curated error for a precondition violation -
// a negative frame passed to GetClosest or InvalidateAfter.
func errOutOfRange(detail string) error {
	return curated.Errorf(patternOutOfRange, detail)
}

// errInvalidOperation raises a curated error for an illegal operation -
// currently only EvictReserved(0).
func errInvalidOperation(detail string) error {
	return curated.Errorf(patternInvalidOperation, detail)
}

// IsOutOfRange reports whether err was raised because of a
// precondition violation (a negative frame).
func IsOutOfRange(err error) bool {
	return curated.Is(err, patternOutOfRange)
}

// IsInvalidOperation reports whether err was raised because of an
// illegal operation, such as evicting frame 0 from the reserved map.
func IsInvalidOperation(err error) bool {
	return curated.Is(err, patternInvalidOperation)
}

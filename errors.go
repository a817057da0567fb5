/*
Copyright © 2019 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package atmcorr

import "fmt"

// RangeError is returned when a solar zenith angle lies beyond the
// angular domain covered by the lookup tables. It is the only error the
// inversion itself reports; all other inputs are assumed to be valid.
type RangeError struct {
	// SolarZenith is the offending angle [degrees].
	SolarZenith float64

	// Max is the largest solar zenith angle the tables cover [degrees].
	Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("atmcorr: solar zenith %g° is too large; the lookup tables end at %g°",
		e.SolarZenith, e.Max)
}

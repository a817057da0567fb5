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

package hash

import "testing"

type source struct {
	File  string
	Bands []int
	Opt   *float64
}

func TestKey(t *testing.T) {
	a, b := 1., 1.
	k1 := Key(source{File: "a.ncf", Bands: []int{1, 2}, Opt: &a})
	k2 := Key(source{File: "a.ncf", Bands: []int{1, 2}, Opt: &b})
	if k1 != k2 {
		t.Errorf("equal values have different keys %s and %s", k1, k2)
	}
	if len(k1) != 32 {
		t.Errorf("key length %d; want 32", len(k1))
	}
	b = 2
	if k3 := Key(source{File: "a.ncf", Bands: []int{1, 2}, Opt: &b}); k3 == k1 {
		t.Error("different values have the same key")
	}
	if k4 := Key(source{File: "b.ncf", Bands: []int{1, 2}, Opt: &a}); k4 == k1 {
		t.Error("different files have the same key")
	}
}

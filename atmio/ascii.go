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

package atmio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/atmcorr"
)

// sunAngleTolerance is the largest allowed difference [degrees] between
// the angles in a transmission file and the sun angle table.
const sunAngleTolerance = 1e-5

// fileBands returns the number of bands in the ASCII coefficient files of
// sensor s, and whether a band of the files is not part of the tables.
// Sentinel-2 files hold all 13 MSI bands, of which the water vapor and
// cirrus bands (9 and 10) are not used.
func fileBands(s atmcorr.Sensor) (int, func(int) bool) {
	if s == atmcorr.Sentinel2 {
		return 13, func(b int) bool { return b == 9 || b == 10 }
	}
	return s.NumBands(), func(int) bool { return false }
}

// lineReader reads an ASCII table one line at a time.
type lineReader struct {
	s    *bufio.Scanner
	name string
	line int
}

func newLineReader(r io.Reader, name string) *lineReader {
	return &lineReader{s: bufio.NewScanner(r), name: name}
}

func (l *lineReader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("atmio: %s line %d: %s", l.name, l.line, fmt.Sprintf(format, args...))
}

// skip discards n lines.
func (l *lineReader) skip(n int) error {
	for i := 0; i < n; i++ {
		if !l.s.Scan() {
			if err := l.s.Err(); err != nil {
				return fmt.Errorf("atmio: %s: %v", l.name, err)
			}
			return l.errorf("unexpected end of file")
		}
		l.line++
	}
	return nil
}

// floats reads the first n numbers of the next non-blank line.
func (l *lineReader) floats(n int) ([]float64, error) {
	for {
		if err := l.skip(1); err != nil {
			return nil, err
		}
		fields := strings.Fields(l.s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < n {
			return nil, l.errorf("have %d values, want %d", len(fields), n)
		}
		o := make([]float64, n)
		for i := range o {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, l.errorf("%v", err)
			}
			o[i] = v
		}
		return o, nil
	}
}

// ReadTransmission reads an ASCII transmission table for sensor s with
// nPres pressure levels and nAOT AOT levels. For every band the file holds
// a description line followed, for every pressure level, by a description
// line and one line per sun angle holding the angle and the transmission at
// every AOT level. The file covers all but the last entry of sunAngle,
// whose transmission is left at zero.
// The result has shape [band][pressure][aot][sun angle].
func ReadTransmission(r io.Reader, s atmcorr.Sensor, sunAngle []float64, nPres, nAOT int) (*sparse.DenseArray, error) {
	nSun := len(sunAngle)
	nFile, skip := fileBands(s)
	o := sparse.ZerosDense(s.NumBands(), nPres, nAOT, nSun)
	l := newLineReader(r, "transmission file")
	band := 0
	for fb := 0; fb < nFile; fb++ {
		if skip(fb) {
			if err := l.skip(1 + nPres*nSun); err != nil {
				return nil, err
			}
			continue
		}
		if err := l.skip(1); err != nil {
			return nil, err
		}
		for ip := 0; ip < nPres; ip++ {
			if err := l.skip(1); err != nil {
				return nil, err
			}
			for k := 0; k < nSun-1; k++ {
				v, err := l.floats(nAOT + 1)
				if err != nil {
					return nil, err
				}
				if math.Abs(v[0]-sunAngle[k]) > sunAngleTolerance {
					return nil, l.errorf("sun angle %g does not match the table value %g", v[0], sunAngle[k])
				}
				for ia, t := range v[1:] {
					o.Set(t, band, ip, ia, k)
				}
			}
		}
		band++
	}
	return o, nil
}

// ReadSphericalAlbedo reads an ASCII spherical albedo table for sensor s
// with nPres pressure levels and nAOT AOT levels. For every band the file
// holds a description line followed, for every pressure level, by a
// description line and one line per AOT level holding the AOT, the
// spherical albedo and the normalized extinction coefficient.
// It returns the AOT levels of the first band and pressure level, and the
// spherical albedo and normalized extinction, with shape
// [band][pressure][aot].
func ReadSphericalAlbedo(r io.Reader, s atmcorr.Sensor, nPres, nAOT int) (aot []float64, sphericalAlbedo, normExt *sparse.DenseArray, err error) {
	nFile, skip := fileBands(s)
	sphericalAlbedo = sparse.ZerosDense(s.NumBands(), nPres, nAOT)
	normExt = sparse.ZerosDense(s.NumBands(), nPres, nAOT)
	aot = make([]float64, nAOT)
	l := newLineReader(r, "spherical albedo file")
	band := 0
	for fb := 0; fb < nFile; fb++ {
		if skip(fb) {
			if err = l.skip(1 + nPres*(nAOT+1)); err != nil {
				return nil, nil, nil, err
			}
			continue
		}
		if err = l.skip(1); err != nil {
			return nil, nil, nil, err
		}
		for ip := 0; ip < nPres; ip++ {
			if err = l.skip(1); err != nil {
				return nil, nil, nil, err
			}
			for ia := 0; ia < nAOT; ia++ {
				v, err := l.floats(3)
				if err != nil {
					return nil, nil, nil, err
				}
				if band == 0 && ip == 0 {
					aot[ia] = v[0]
				}
				sphericalAlbedo.Set(v[1], band, ip, ia)
				normExt.Set(v[2], band, ip, ia)
			}
		}
		band++
	}
	return aot, sphericalAlbedo, normExt, nil
}

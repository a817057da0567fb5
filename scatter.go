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

import "math"

// ScatteringAngle returns the scattering angle [degrees] for the cosines
// of the solar zenith, view zenith and relative azimuth angles.
func ScatteringAngle(mus, muv, cosPhi float64) float64 {
	c := -mus*muv - cosPhi*math.Sqrt(1-mus*mus)*math.Sqrt(1-muv*muv)
	return math.Acos(c) * 180 / math.Pi
}

// scatterCorner addresses the reflectance of one view/solar corner:
// either a single sample, or an interpolation between two neighboring
// scattering angle samples.
type scatterCorner struct {
	offset int
	frac   float64
	single bool
}

// setCorners finds the scattering angle samples of the four view/solar
// corners around g and the weights that blend them. Corners are ordered
// (solar, view), (solar+1, view), (solar, view+1), (solar+1, view+1).
func (s *Store) setCorners(b *Brackets, g Geometry) {
	for i := range b.corners {
		is := b.Solar + i%2
		iv := b.View
		if i >= 2 {
			iv++
		}
		cell := iv*s.nSolar + is
		j := s.t.SunAngleIndex[is] + s.nbfic[cell] - s.nbfi[cell]
		if is == 0 || iv == 0 {
			b.corners[i] = scatterCorner{offset: j, single: true}
			continue
		}
		tsmax := s.grid(s.t.ScatterMax, iv, is)
		nbfi := s.nbfi[cell]
		isca := int((tsmax-b.ScatteringAngle)/scatterStep + 1)
		if isca <= 0 {
			isca = 1
		}
		var sca1, sca2 float64
		if isca+1 < nbfi {
			sca1 = tsmax - float64(isca-1)*scatterStep
			sca2 = sca1 - scatterStep
		} else {
			isca = nbfi - 1
			sca1 = tsmax - float64(isca-1)*scatterStep
			sca2 = s.grid(s.t.ScatterMin, iv, is)
		}
		b.corners[i] = scatterCorner{
			offset: j + isca - 1,
			frac:   (b.ScatteringAngle - sca1) / (sca2 - sca1),
		}
	}

	ts1, ts2 := s.t.SunAngle[b.Solar], s.t.SunAngle[b.Solar+1]
	b.solarWt = (ts2 - g.SolarZenith) / (ts2 - ts1)
	tv1 := s.grid(s.t.ViewAngle, b.View, b.Solar)
	tv2 := s.grid(s.t.ViewAngle, b.View+1, b.Solar)
	b.viewWt = (tv2 - g.ViewZenith) / (tv2 - tv1)
}

// scatterReflectance returns the intrinsic reflectance of band at pressure
// index ip and AOT index ia, interpolated in scattering angle at each
// view/solar corner and blended across the corners.
func (s *Store) scatterReflectance(band, ip, ia int, b *Brackets) float64 {
	var ro [4]float64
	for i, c := range b.corners {
		if c.single {
			ro[i] = s.reflectance(band, ip, ia, c.offset)
			continue
		}
		inf := s.reflectance(band, ip, ia, c.offset)
		sup := s.reflectance(band, ip, ia, c.offset+1)
		ro[i] = inf + (sup-inf)*c.frac
	}
	t, u := b.solarWt, b.viewWt
	return ro[3] + u*(ro[1]-ro[3]) + t*(ro[2]-ro[3]) + u*t*(ro[0]-ro[1]-ro[2]+ro[3])
}

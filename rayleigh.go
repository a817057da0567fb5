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

// rayleighPhaseFactor is (1-δ')/(1+2δ'), with δ' = δ/(2-δ) derived from
// the depolarization factor of air δ = 0.0279. It scales the anisotropic
// terms of the Rayleigh phase function.
const rayleighPhaseFactor = 0.958725777

// Multiple scattering fit coefficients of the three Fourier terms.
var (
	rayleighFourier0 = [10]float64{0.33243832, -6.777104e-02, 0.16285370, 1.577425e-03, -0.30924818,
		-1.240906e-02, -0.10324388, 3.241678e-02, 0.11493334, -3.503695e-02}
	rayleighFourier1 = [2]float64{0.19666292, -5.439061e-02}
	rayleighFourier2 = [2]float64{0.14545937, -2.910845e-02}
)

// RayleighReflectance returns the molecular reflectance for the relative
// azimuth phi [degrees], cosines of the view and solar zenith angles muv
// and mus, and the Rayleigh optical thickness tau. The result is a Fourier
// series in phi with three terms, each the sum of the single scattering
// contribution and a polynomial fit of multiple scattering in ln(tau).
func RayleighReflectance(phi, muv, mus, tau float64) float64 {
	phios := phi * math.Pi / 180
	cosf2 := -math.Cos(phios)
	cosf3 := math.Cos(2 * phios)

	fd := rayleighPhaseFactor
	mus2, muv2 := mus*mus, muv*muv

	ph1 := 1 + (3*mus2-1)*(3*muv2-1)*fd*0.125
	ph3 := (1 - mus2) * (1 - muv2)
	ph2 := -mus * muv * math.Sqrt(ph3) * fd * 0.75
	ph3 *= fd * 0.1875

	// Single scattering.
	itm := (1 - math.Exp(-tau*(1/mus+1/muv))) / (4 * (mus + muv))
	p1, p2, p3 := ph1*itm, ph2*itm, ph3*itm

	// Multiple scattering weights.
	itm = (1 - math.Exp(-tau/mus)) * (1 - math.Exp(-tau/muv))
	c1, c2, c3 := ph1*itm, ph2*itm, ph3*itm

	lt := math.Log(tau)
	var pl [10]float64
	pl[0] = 1
	pl[1] = lt
	pl[2] = mus + muv
	pl[3] = lt * pl[2]
	pl[4] = mus * muv
	pl[5] = lt * pl[4]
	pl[6] = mus2 + muv2
	pl[7] = lt * pl[6]
	pl[8] = mus2 * muv2
	pl[9] = lt * pl[8]

	var fs0 float64
	for i, p := range pl {
		fs0 += p * rayleighFourier0[i]
	}
	fs1 := rayleighFourier1[0] + lt*rayleighFourier1[1]
	fs2 := rayleighFourier2[0] + lt*rayleighFourier2[1]

	tot1 := p1 + c1*fs0
	tot2 := p2 + c2*fs1
	tot3 := p3 + c3*fs2
	return tot1 + 2*(tot2*cosf2+tot3*cosf3)
}

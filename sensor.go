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

import (
	"fmt"
	"math"
	"strings"
)

// Sensor is a family of instruments that share one set of lookup tables.
type Sensor int

const (
	// Landsat is the Landsat 8/9 Operational Land Imager.
	Landsat Sensor = iota

	// Sentinel2 is the Sentinel-2 MultiSpectral Instrument, without the
	// water vapor and cirrus bands (9 and 10).
	Sentinel2
)

// Central wavelengths [µm] of the reflective bands of each sensor family.
var (
	landsatWavelengths  = []float64{0.443, 0.480, 0.585, 0.655, 0.865, 1.61, 2.2}
	sentinelWavelengths = []float64{0.443, 0.490, 0.560, 0.665, 0.705, 0.740, 0.783, 0.842, 0.865, 1.61, 2.19}
)

// Last band index whose AOT is rescaled from 550 nm.
const (
	landsatMaxExtinction  = 6  // 2.2 µm
	sentinelMaxExtinction = 10 // band 12, 2.19 µm
)

func (s Sensor) String() string {
	switch s {
	case Landsat:
		return "landsat"
	case Sentinel2:
		return "sentinel2"
	default:
		return fmt.Sprintf("Sensor(%d)", int(s))
	}
}

// ParseSensor returns the sensor family with the given name. Case is
// ignored, and the names "landsat8", "landsat9", "oli" and "msi" are
// accepted as aliases.
func ParseSensor(name string) (Sensor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "landsat", "landsat8", "landsat9", "oli":
		return Landsat, nil
	case "sentinel2", "sentinel-2", "msi":
		return Sentinel2, nil
	}
	return 0, fmt.Errorf("atmcorr: unknown sensor %q", name)
}

// Wavelengths returns the central wavelength [µm] of every band the
// lookup tables cover. The returned slice must not be modified.
func (s Sensor) Wavelengths() []float64 {
	if s == Sentinel2 {
		return sentinelWavelengths
	}
	return landsatWavelengths
}

// NumBands returns the number of bands the lookup tables cover.
func (s Sensor) NumBands() int { return len(s.Wavelengths()) }

// extinctionAware reports whether the AOT of band is rescaled from the
// reference wavelength with the Angstrom exponent.
func (s Sensor) extinctionAware(band int) bool {
	if s == Sentinel2 {
		return band <= sentinelMaxExtinction
	}
	return band <= landsatMaxExtinction
}

// AdjustAOT rescales an AOT at 550 nm to the wavelength of band using the
// normalized extinction coefficient normExt and the Angstrom exponent.
// A negative exponent, or a band outside the extinction-aware set, leaves
// the AOT unchanged.
func (s Sensor) AdjustAOT(band int, aot, normExt, angstrom float64) float64 {
	if angstrom < 0 || !s.extinctionAware(band) {
		return aot
	}
	lambda := s.Wavelengths()[band]
	return aot / normExt * math.Pow(lambda/referenceWavelength, -angstrom)
}

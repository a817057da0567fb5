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
)

// GasCoefficients holds the calibrated absorption and scattering
// constants of one band.
type GasCoefficients struct {
	// Tauray is the Rayleigh optical thickness at StandardPressure.
	Tauray float64

	// OzoneA is the ozone absorption coefficient.
	OzoneA float64

	// WaterVaporA and WaterVaporB parameterize water vapor absorption
	// as exp(-A·x^B), with x the slant water vapor content.
	WaterVaporA, WaterVaporB float64

	// OtherA1, OtherB0 and OtherB1 parameterize absorption by the other
	// well-mixed gases (O2, CO2, CH4, ...).
	OtherA1, OtherB0, OtherB1 float64
}

// landsatGas are the coefficients of the OLI reflective bands 1-7.
var landsatGas = []GasCoefficients{
	{Tauray: 0.23638, OzoneA: -0.00255649, WaterVaporA: 2.29849e-27, WaterVaporB: 0.999742, OtherA1: 4.91586e-20, OtherB0: 0.000197019, OtherB1: 9.57011e-16},
	{Tauray: 0.16933, OzoneA: -0.0177861, WaterVaporA: 2.29849e-27, WaterVaporB: 0.999742, OtherA1: 4.91586e-20, OtherB0: 0.000197019, OtherB1: 9.57011e-16},
	{Tauray: 0.09070, OzoneA: -0.0969872, WaterVaporA: 0.000777307, WaterVaporB: 0.891099, OtherA1: 4.91586e-20, OtherB0: 0.000197019, OtherB1: 9.57011e-16},
	{Tauray: 0.04827, OzoneA: -0.0611428, WaterVaporA: 0.00273479, WaterVaporB: 0.754895, OtherA1: 1.04801e-05, OtherB0: 0.0700621, OtherB1: -1.74568},
	{Tauray: 0.01563, OzoneA: 0.0001, WaterVaporA: 0.00069551, WaterVaporB: 0.940812, OtherA1: 1.35216e-05, OtherB0: 0.0819431, OtherB1: -1.16221},
	{Tauray: 0.00129, OzoneA: 0.0001, WaterVaporA: 0.0013545, WaterVaporB: 0.901218, OtherA1: 0.0205425, OtherB0: 0.0755606, OtherB1: -0.0782735},
	{Tauray: 0.00037, OzoneA: 0.0001, WaterVaporA: 0.0250255, WaterVaporB: 0.614936, OtherA1: 0.0256526, OtherB0: 0.0826618, OtherB1: -0.0960356},
}

// DefaultGasCoefficients returns a copy of the built-in gas coefficients
// of sensor s. Only the Landsat family has built-in coefficients; the
// Sentinel-2 coefficients must be read from a coefficient file.
func DefaultGasCoefficients(s Sensor) ([]GasCoefficients, error) {
	if s != Landsat {
		return nil, fmt.Errorf("atmcorr: no built-in gas coefficients for sensor %s", s)
	}
	o := make([]GasCoefficients, len(landsatGas))
	copy(o, landsatGas)
	return o, nil
}

// GasTransmission holds the gaseous transmission along the
// sun-surface-sensor path.
type GasTransmission struct {
	Ozone float64

	// WaterVapor is the transmission of the full water vapor column and
	// WaterVaporHalf the transmission of half of it, which is applied to
	// the path reflectance of the aerosol layer.
	WaterVapor, WaterVaporHalf float64

	Other float64
}

// OzoneAndOther returns the combined ozone and other-gas transmission.
func (g GasTransmission) OzoneAndOther() float64 { return g.Other * g.Ozone }

// waterVaporMin is the slant water vapor content below which absorption
// is neglected.
const waterVaporMin = 1e-6

// Transmission returns the gaseous transmission for cosines of the solar
// and view zenith angles mus and muv, total column ozone [cm-atm], total
// column water vapor [g/cm2] and surface pressure [mb].
func (c GasCoefficients) Transmission(mus, muv, ozone, waterVapor, pressure float64) GasTransmission {
	var g GasTransmission
	m := 1/mus + 1/muv

	g.Ozone = math.Exp(c.OzoneA * m * ozone)

	g.WaterVapor = c.waterVapor(m * waterVapor)
	g.WaterVaporHalf = c.waterVapor(m * waterVapor * 0.5)

	pr := pressure / StandardPressure
	g.Other = math.Exp(-(c.OtherA1 * pr) * math.Pow(m, math.Exp(-(c.OtherB0+c.OtherB1*pr))))
	return g
}

func (c GasCoefficients) waterVapor(x float64) float64 {
	if x > waterVaporMin {
		return math.Exp(-c.WaterVaporA * math.Pow(x, c.WaterVaporB))
	}
	return 1
}

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

// Package atmcorr converts top-of-atmosphere reflectance into surface
// reflectance by interpolating precomputed radiative-transfer lookup tables
// and inverting a Lambertian surface model.
//
// A Store holds the tables for one sensor family. It is read-only once
// built, so any number of goroutines may invert pixels against the same
// Store.
package atmcorr

// Version gives the version number.
const Version = "0.1.0"

const (
	// StandardPressure is the sea-level reference pressure [mb] used
	// to scale the Rayleigh optical thickness and the other-gas absorption.
	StandardPressure = 1013.

	// scatterStep is the spacing [degrees] of the scattering-angle samples
	// stored for each view/solar cell of the reflectance table.
	scatterStep = 4.

	// sunAngleStep is the spacing [degrees] of the angle axis of the
	// transmission table.
	sunAngleStep = 4.

	// referenceWavelength [µm] is the wavelength the input AOT refers to.
	referenceWavelength = 0.55

	// extinctionAOTIndex is the AOT index of the normalized extinction
	// coefficient used to rescale the AOT to another wavelength.
	extinctionAOTIndex = 3
)

// Nominal table sizes of the operational lookup tables.
const (
	NumPressure    = 7
	NumAOT         = 22
	NumSolarZenith = 20
	NumViewZenith  = 20
	NumSunAngle    = 22
	NumReflSamples = 8000
)

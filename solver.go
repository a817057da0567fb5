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

// Result holds a surface reflectance and the atmospheric quantities it was
// derived from.
type Result struct {
	// SurfaceReflectance is the Lambertian surface reflectance.
	SurfaceReflectance float64

	// GasTransmission is the combined ozone and other-gas transmission.
	GasTransmission float64

	// PathReflectance is the atmospheric path reflectance, including the
	// water vapor absorption of the aerosol layer.
	PathReflectance float64

	// Transmission is the total two-way transmission, including water
	// vapor absorption.
	Transmission float64

	// SphericalAlbedo is the spherical albedo of the atmosphere.
	SphericalAlbedo float64

	// RayleighReflectance is the molecular reflectance.
	RayleighReflectance float64

	// AOT is the rescaled, bounded AOT that was used.
	AOT float64

	// Valid is set by Corrector; it is false for pixels that could
	// not be inverted.
	Valid bool
}

// Invert returns the surface reflectance of band for the top-of-atmosphere
// reflectance rotoa observed with geometry g through atmosphere a. It
// returns a *RangeError if the solar zenith angle is beyond the tables.
func (s *Store) Invert(band int, rotoa float64, g Geometry, a Atmosphere) (Result, error) {
	b, err := s.Locate(band, g, a)
	if err != nil {
		return Result{}, err
	}
	r := s.path(band, g, a, &b)
	r.SurfaceReflectance = invert(rotoa/r.GasTransmission-r.PathReflectance, r.Transmission, r.SphericalAlbedo)
	return r, nil
}

// GasTransmission returns the gaseous transmission of band.
func (s *Store) GasTransmission(band int, g Geometry, a Atmosphere) GasTransmission {
	return s.t.Gas[band].Transmission(g.CosSolarZenith, g.CosViewZenith, a.Ozone, a.WaterVapor, a.Pressure)
}

// path returns the atmospheric quantities of band at b.
func (s *Store) path(band int, g Geometry, a Atmosphere, b *Brackets) Result {
	gas := s.GasTransmission(band, g, a)
	tau := s.t.Gas[band].Tauray * a.Pressure / StandardPressure
	rorayp := RayleighReflectance(g.RelAzimuth, g.CosViewZenith, g.CosSolarZenith, tau)

	roatm := s.AtmosphericReflectance(band, b)
	ttatm := s.SolarTransmission(band, b) * s.ViewTransmission(band, b)
	return Result{
		GasTransmission:     gas.OzoneAndOther(),
		PathReflectance:     (roatm-rorayp)*gas.WaterVaporHalf + rorayp,
		Transmission:        ttatm * gas.WaterVapor,
		SphericalAlbedo:     s.SphericalAlbedo(band, b),
		RayleighReflectance: rorayp,
		AOT:                 b.AOT,
	}
}

// invert solves the Lambertian surface model for the surface reflectance,
// given the reflectance ro left after removing the path contribution and
// the transmission term of the model.
func invert(ro, transmission, sphericalAlbedo float64) float64 {
	return ro / (transmission + sphericalAlbedo*ro)
}

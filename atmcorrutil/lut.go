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

package atmcorrutil

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/atmcorr"
	"github.com/spatialmodel/atmcorr/atmio"
)

// Convert writes the tables of s to outputFile in NetCDF format.
func Convert(s *atmcorr.Store, outputFile string) error {
	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("atmcorr: creating lookup table file: %v", err)
	}
	if err = atmio.WriteStore(w, s); err != nil {
		w.Close()
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":   outputFile,
		"sensor": s.Sensor(),
	}).Info("atmcorr: wrote lookup tables")
	return w.Close()
}

// Invert inverts the top-of-atmosphere reflectance toa in every band in
// bands and writes the results to w, one line per band.
func Invert(w io.Writer, s *atmcorr.Store, bands []int, toa float64, g atmcorr.Geometry, a atmcorr.Atmosphere) error {
	fmt.Fprintf(w, "%4s %10s %10s %10s %10s %10s %10s %10s\n",
		"band", "sr", "aot", "tgo", "roatm", "ttatmg", "satm", "roray")
	for _, b := range bands {
		r, err := s.Invert(b, toa, g, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%4d %10.6f %10.6f %10.6f %10.6f %10.6f %10.6f %10.6f\n",
			b, r.SurfaceReflectance, r.AOT, r.GasTransmission, r.PathReflectance,
			r.Transmission, r.SphericalAlbedo, r.RayleighReflectance)
	}
	return nil
}

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
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/atmcorr"
	"github.com/spatialmodel/atmcorr/atmio"
)

// Correct corrects bands of the scene in sceneFile and writes the surface
// reflectance to outputFile. If fitFile is not empty, the fitted
// coefficients it holds are used instead of the lookup tables.
func Correct(ctx context.Context, c *atmcorr.Corrector, sceneFile, outputFile, fitFile string, bands []int, maxAOT float64) error {
	f, err := os.Open(sceneFile)
	if err != nil {
		return fmt.Errorf("atmcorr: opening scene: %v", err)
	}
	scene, err := atmio.ReadScene(f)
	f.Close()
	if err != nil {
		return err
	}
	nBand, ny, nx := scene.Dims()
	if nBand != c.Store.Sensor().NumBands() {
		return fmt.Errorf("atmcorr: the scene has %d bands but %s has %d", nBand, c.Store.Sensor(), c.Store.Sensor().NumBands())
	}

	var fits map[int]*atmcorr.FitCoefficients
	if fitFile != "" {
		if fits, err = readFits(fitFile, c.Store.Sensor()); err != nil {
			return err
		}
	}

	out := atmio.NewOutput(nBand, ny, nx)
	var skipped int
	for _, b := range bands {
		pixels := scene.Pixels(b, maxAOT)
		var results []atmcorr.Result
		var n int
		if fits != nil {
			coef, ok := fits[b]
			if !ok {
				return fmt.Errorf("atmcorr: %s has no coefficients for band %d", fitFile, b)
			}
			results, n, err = c.CorrectFit(ctx, coef, pixels)
		} else {
			results, n, err = c.Correct(ctx, b, pixels)
		}
		if err != nil {
			return err
		}
		if err = out.Set(b, results); err != nil {
			return err
		}
		skipped += n
	}

	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("atmcorr: creating output file: %v", err)
	}
	if err = out.Write(w); err != nil {
		w.Close()
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":    outputFile,
		"bands":   len(bands),
		"skipped": skipped,
	}).Info("atmcorr: wrote surface reflectance")
	return w.Close()
}

// readFits reads fitted coefficients and indexes them by band.
func readFits(fitFile string, s atmcorr.Sensor) (map[int]*atmcorr.FitCoefficients, error) {
	f, err := os.Open(fitFile)
	if err != nil {
		return nil, fmt.Errorf("atmcorr: opening fit file: %v", err)
	}
	defer f.Close()
	coefs, err := atmio.ReadFitCoefficients(f)
	if err != nil {
		return nil, err
	}
	o := make(map[int]*atmcorr.FitCoefficients)
	for _, c := range coefs {
		if c.Sensor != s {
			return nil, fmt.Errorf("atmcorr: %s is for %s but the lookup tables are for %s", fitFile, c.Sensor, s)
		}
		o[c.Band] = c
	}
	return o, nil
}

// Fit fits polynomial coefficients for every band in bands and writes them
// to outputFile.
func Fit(s *atmcorr.Store, bands []int, g atmcorr.Geometry, a atmcorr.Atmosphere, outputFile string) error {
	coefs := make([]*atmcorr.FitCoefficients, len(bands))
	for i, b := range bands {
		c, err := s.Fit(b, g, a)
		if err != nil {
			return err
		}
		coefs[i] = c
	}
	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("atmcorr: creating fit file: %v", err)
	}
	if err = atmio.WriteFitCoefficients(w, coefs); err != nil {
		w.Close()
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":  outputFile,
		"bands": len(bands),
	}).Info("atmcorr: wrote fitted coefficients")
	return w.Close()
}

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
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// Pixel holds the inputs of one pixel.
type Pixel struct {
	// TOA is the top-of-atmosphere reflectance.
	TOA float64
	Geometry
	Atmosphere
}

// Corrector inverts many pixels in parallel.
type Corrector struct {
	Store *Store

	// NumProcessors is the number of goroutines to use. If it is zero,
	// runtime.GOMAXPROCS(0) is used.
	NumProcessors int

	// Log receives progress messages. If it is nil,
	// logrus.StandardLogger() is used.
	Log logrus.FieldLogger
}

// Correct returns the surface reflectance of every pixel in band, and the
// number of pixels that could not be inverted because their solar zenith
// angle was beyond the tables. Those pixels have Valid set to false.
func (c *Corrector) Correct(ctx context.Context, band int, pixels []Pixel) ([]Result, int, error) {
	return c.run(ctx, band, pixels, func(p *Pixel) (Result, error) {
		return c.Store.Invert(band, p.TOA, p.Geometry, p.Atmosphere)
	})
}

// CorrectFit is like Correct but uses the polynomial approximation coef
// instead of the lookup tables. The Store is only used for its gas
// coefficients.
func (c *Corrector) CorrectFit(ctx context.Context, coef *FitCoefficients, pixels []Pixel) ([]Result, int, error) {
	band := coef.Band
	return c.run(ctx, band, pixels, func(p *Pixel) (Result, error) {
		if _, err := c.Store.solarIndex(p.SolarZenith); err != nil {
			return Result{}, err
		}
		tgo := c.Store.GasTransmission(band, p.Geometry, p.Atmosphere).OzoneAndOther()
		return coef.Invert(p.TOA, tgo, p.AOT, p.Angstrom), nil
	})
}

// checkInterval is the number of pixels each worker inverts between
// checks for cancellation.
const checkInterval = 4096

func (c *Corrector) run(ctx context.Context, band int, pixels []Pixel, f func(*Pixel) (Result, error)) ([]Result, int, error) {
	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	nprocs := c.NumProcessors
	if nprocs <= 0 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(pixels))
	skipped := make([]int, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			n := 0
			for ii := pp; ii < len(pixels); ii += nprocs {
				if n++; n%checkInterval == 0 && ctx.Err() != nil {
					return
				}
				r, err := f(&pixels[ii])
				if err != nil {
					skipped[pp]++
					continue
				}
				r.Valid = true
				results[ii] = r
			}
		}(pp)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var nSkipped int
	for _, n := range skipped {
		nSkipped += n
	}
	log.WithFields(logrus.Fields{
		"band":    band,
		"pixels":  len(pixels),
		"skipped": nSkipped,
	}).Info("atmcorr: corrected band")
	return results, nSkipped, nil
}

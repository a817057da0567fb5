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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Tables holds the lookup tables of one sensor family as they are loaded
// from disk. Tables must not be modified after they have been passed to
// NewStore.
type Tables struct {
	Sensor Sensor

	// Pressure holds the surface pressure levels [mb], in descending order.
	Pressure []float64

	// AOT holds the aerosol optical thickness levels at 550 nm,
	// in ascending order.
	AOT []float64

	// SolarZenithMin and SolarZenithStep [degrees] define the regular solar
	// zenith grid of the reflectance tables.
	SolarZenithMin, SolarZenithStep float64

	// ViewZenithMin and ViewZenithStep [degrees] define the view zenith
	// grid. Angles up to ViewZenithMin fall in the first (nadir) cell, and
	// the grid is regular after that.
	ViewZenithMin, ViewZenithStep float64

	// SunAngle holds the angle [degrees] of each entry of the angle axis
	// of Transmission.
	SunAngle []float64

	// SunAngleIndex holds, for every solar zenith index, the position of
	// the first sample of that solar zenith in the sample axis of
	// Reflectance.
	SunAngleIndex []int

	// ScatterMax, ScatterMin, ViewAngle, NumAzimuth and CumAzimuth are
	// [view][solar] grids. ScatterMax and ScatterMin are the scattering
	// angle range [degrees] sampled in each cell, ViewAngle the view zenith
	// angle [degrees] of each cell, NumAzimuth the number of scattering
	// angle samples in each cell and CumAzimuth the running total of
	// NumAzimuth along the view axis.
	ScatterMax, ScatterMin, ViewAngle, NumAzimuth, CumAzimuth *sparse.DenseArray

	// Reflectance is the intrinsic atmospheric reflectance,
	// [band][pressure][aot][sample].
	Reflectance *sparse.DenseArray

	// Transmission is the total one-way transmission,
	// [band][pressure][aot][sun angle].
	Transmission *sparse.DenseArray

	// SphericalAlbedo and NormExt are the spherical albedo and the aerosol
	// extinction coefficient normalized at 550 nm, [band][pressure][aot].
	SphericalAlbedo, NormExt *sparse.DenseArray

	// Gas holds the gas coefficients of every band.
	Gas []GasCoefficients
}

// Store is a validated, read-only set of lookup tables. It is safe for
// concurrent use.
type Store struct {
	t *Tables

	logAOT []float64

	// nbfi and nbfic hold NumAzimuth and CumAzimuth as integers,
	// indexed as [view*nSolar+solar].
	nbfi, nbfic []int

	nBand, nPres, nAOT, nSample, nSun int
	nView, nSolar                     int
}

// NewStore checks that the tables are complete and consistent and returns
// a Store that reads from them.
func NewStore(t *Tables) (*Store, error) {
	if t == nil {
		return nil, fmt.Errorf("atmcorr: nil tables")
	}
	for name, a := range map[string]*sparse.DenseArray{
		"ScatterMax": t.ScatterMax, "ScatterMin": t.ScatterMin, "ViewAngle": t.ViewAngle,
		"NumAzimuth": t.NumAzimuth, "CumAzimuth": t.CumAzimuth, "Reflectance": t.Reflectance,
		"Transmission": t.Transmission, "SphericalAlbedo": t.SphericalAlbedo, "NormExt": t.NormExt,
	} {
		if a == nil {
			return nil, fmt.Errorf("atmcorr: table %s is missing", name)
		}
	}
	if len(t.Reflectance.Shape) != 4 {
		return nil, fmt.Errorf("atmcorr: Reflectance must have 4 dimensions but has %d", len(t.Reflectance.Shape))
	}
	s := &Store{
		t:       t,
		nBand:   t.Reflectance.Shape[0],
		nPres:   t.Reflectance.Shape[1],
		nAOT:    t.Reflectance.Shape[2],
		nSample: t.Reflectance.Shape[3],
		nSun:    len(t.SunAngle),
	}
	if len(t.ScatterMax.Shape) == 2 {
		s.nView, s.nSolar = t.ScatterMax.Shape[0], t.ScatterMax.Shape[1]
	}

	if s.nBand != t.Sensor.NumBands() {
		return nil, fmt.Errorf("atmcorr: sensor %s has %d bands but the tables have %d",
			t.Sensor, t.Sensor.NumBands(), s.nBand)
	}
	if len(t.Gas) != s.nBand {
		return nil, fmt.Errorf("atmcorr: %d bands of gas coefficients for %d bands", len(t.Gas), s.nBand)
	}
	if len(t.Pressure) != s.nPres || s.nPres < 2 {
		return nil, fmt.Errorf("atmcorr: %d pressure levels for a table with %d", len(t.Pressure), s.nPres)
	}
	for i := 1; i < len(t.Pressure); i++ {
		if t.Pressure[i] >= t.Pressure[i-1] {
			return nil, fmt.Errorf("atmcorr: pressure levels must be strictly decreasing: %v", t.Pressure)
		}
	}
	if len(t.AOT) != s.nAOT || s.nAOT <= extinctionAOTIndex {
		return nil, fmt.Errorf("atmcorr: %d AOT levels for a table with %d; at least %d are required",
			len(t.AOT), s.nAOT, extinctionAOTIndex+1)
	}
	s.logAOT = make([]float64, len(t.AOT))
	for i, a := range t.AOT {
		if a <= 0 || (i > 0 && a <= t.AOT[i-1]) {
			return nil, fmt.Errorf("atmcorr: AOT levels must be positive and strictly increasing: %v", t.AOT)
		}
		s.logAOT[i] = math.Log(a)
	}
	if s.nSolar < 2 || s.nView < 2 {
		return nil, fmt.Errorf("atmcorr: the view/solar grids must be at least 2x2 but are %v", t.ScatterMax.Shape)
	}
	if t.SolarZenithStep <= 0 || t.ViewZenithStep <= 0 {
		return nil, fmt.Errorf("atmcorr: angle steps must be positive: solar %g, view %g",
			t.SolarZenithStep, t.ViewZenithStep)
	}
	if s.nSun <= s.nSolar {
		return nil, fmt.Errorf("atmcorr: %d sun angles for %d solar zenith angles", s.nSun, s.nSolar)
	}
	if len(t.SunAngleIndex) < s.nSolar {
		return nil, fmt.Errorf("atmcorr: %d sun angle indices for %d solar zenith angles",
			len(t.SunAngleIndex), s.nSolar)
	}

	for name, a := range map[string]*sparse.DenseArray{
		"ScatterMax": t.ScatterMax, "ScatterMin": t.ScatterMin, "ViewAngle": t.ViewAngle,
		"NumAzimuth": t.NumAzimuth, "CumAzimuth": t.CumAzimuth,
	} {
		if err := checkShape(name, a, s.nView, s.nSolar); err != nil {
			return nil, err
		}
	}
	if err := checkShape("Reflectance", t.Reflectance, s.nBand, s.nPres, s.nAOT, s.nSample); err != nil {
		return nil, err
	}
	if err := checkShape("Transmission", t.Transmission, s.nBand, s.nPres, s.nAOT, s.nSun); err != nil {
		return nil, err
	}
	if err := checkShape("SphericalAlbedo", t.SphericalAlbedo, s.nBand, s.nPres, s.nAOT); err != nil {
		return nil, err
	}
	if err := checkShape("NormExt", t.NormExt, s.nBand, s.nPres, s.nAOT); err != nil {
		return nil, err
	}
	if err := s.setAzimuthBins(); err != nil {
		return nil, err
	}
	return s, nil
}

func checkShape(name string, a *sparse.DenseArray, shape ...int) error {
	if len(a.Shape) != len(shape) {
		return fmt.Errorf("atmcorr: table %s has shape %v but should have %v", name, a.Shape, shape)
	}
	n := 1
	for i, v := range shape {
		if a.Shape[i] != v {
			return fmt.Errorf("atmcorr: table %s has shape %v but should have %v", name, a.Shape, shape)
		}
		n *= v
	}
	if len(a.Elements) != n {
		return fmt.Errorf("atmcorr: table %s has %d elements but shape %v", name, len(a.Elements), shape)
	}
	if floats.HasNaN(a.Elements) {
		return fmt.Errorf("atmcorr: table %s contains NaN values", name)
	}
	return nil
}

// setAzimuthBins converts the sample counts to integers and checks that
// every cell addresses samples inside the reflectance table.
func (s *Store) setAzimuthBins() error {
	n := s.nView * s.nSolar
	s.nbfi = make([]int, n)
	s.nbfic = make([]int, n)
	for i := 0; i < n; i++ {
		s.nbfi[i] = int(math.Round(s.t.NumAzimuth.Elements[i]))
		s.nbfic[i] = int(math.Round(s.t.CumAzimuth.Elements[i]))
	}
	for is := 0; is < s.nSolar; is++ {
		start := s.t.SunAngleIndex[is]
		var prev int
		for iv := 0; iv < s.nView; iv++ {
			i := iv*s.nSolar + is
			min := 1
			if is > 0 && iv > 0 {
				min = 2 // interpolated between neighboring samples
			}
			if s.nbfi[i] < min {
				return fmt.Errorf("atmcorr: NumAzimuth[%d][%d] = %d; it must be at least %d", iv, is, s.nbfi[i], min)
			}
			if s.nbfic[i]-prev != s.nbfi[i] {
				return fmt.Errorf("atmcorr: CumAzimuth[%d][%d] = %d is not the running total of NumAzimuth",
					iv, is, s.nbfic[i])
			}
			prev = s.nbfic[i]
			if start < 0 || start+s.nbfic[i] > s.nSample {
				return fmt.Errorf("atmcorr: view/solar cell [%d][%d] addresses samples %d to %d "+
					"but the table has %d", iv, is, start+s.nbfic[i]-s.nbfi[i], start+s.nbfic[i], s.nSample)
			}
		}
	}
	return nil
}

// Tables returns the tables the store reads from. They must not be modified.
func (s *Store) Tables() *Tables { return s.t }

// Sensor returns the sensor family of the tables.
func (s *Store) Sensor() Sensor { return s.t.Sensor }

// SolarZenithMax returns the largest solar zenith angle [degrees] the
// tables cover.
func (s *Store) SolarZenithMax() float64 {
	return s.t.SolarZenithMin + float64(s.nSolar-1)*s.t.SolarZenithStep
}

func (s *Store) reflectance(band, ip, ia, k int) float64 {
	return s.t.Reflectance.Elements[((band*s.nPres+ip)*s.nAOT+ia)*s.nSample+k]
}

func (s *Store) transmission(band, ip, ia, k int) float64 {
	return s.t.Transmission.Elements[((band*s.nPres+ip)*s.nAOT+ia)*s.nSun+k]
}

func (s *Store) cube(a *sparse.DenseArray, band, ip, ia int) float64 {
	return a.Elements[(band*s.nPres+ip)*s.nAOT+ia]
}

func (s *Store) grid(a *sparse.DenseArray, iv, is int) float64 {
	return a.Elements[iv*s.nSolar+is]
}

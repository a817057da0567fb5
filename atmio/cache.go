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

package atmio

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/atmcorr"
	"github.com/spatialmodel/atmcorr/internal/hash"
)

// Source specifies the files that make up a set of lookup tables.
type Source struct {
	// LUTFile is the NetCDF lookup table file. If the other fields are
	// empty it must hold every table.
	LUTFile string

	// AngleFile is an optional lookup table file whose angle tables
	// replace those in LUTFile.
	AngleFile string

	// TransmissionFile and SphericalAlbedoFile are optional ASCII tables
	// that replace the corresponding tables in LUTFile.
	TransmissionFile, SphericalAlbedoFile string

	// GasFile is an optional TOML file of gas coefficients. If it is
	// empty and LUTFile has no gas coefficients, the built-in
	// coefficients of the sensor are used.
	GasFile string
}

// Load reads the tables described by src.
func (src Source) Load() (*atmcorr.Store, error) {
	f, err := os.Open(src.LUTFile)
	if err != nil {
		return nil, fmt.Errorf("atmio: opening lookup table file: %v", err)
	}
	defer f.Close()
	t, err := ReadTables(f)
	if err != nil {
		return nil, err
	}
	if src.AngleFile != "" {
		if err = src.readAngles(t); err != nil {
			return nil, err
		}
	}
	if t.Reflectance == nil {
		return nil, fmt.Errorf("atmio: %s has no reflectance table", src.LUTFile)
	}
	nPres, nAOT := len(t.Pressure), len(t.AOT)

	if src.SphericalAlbedoFile != "" {
		r, err := os.Open(src.SphericalAlbedoFile)
		if err != nil {
			return nil, fmt.Errorf("atmio: opening spherical albedo file: %v", err)
		}
		aot, salb, normExt, err := ReadSphericalAlbedo(r, t.Sensor, nPres, nAOT)
		r.Close()
		if err != nil {
			return nil, err
		}
		for i, v := range aot {
			if v != t.AOT[i] {
				return nil, fmt.Errorf("atmio: AOT level %d is %g in %s but %g in %s",
					i, v, src.SphericalAlbedoFile, t.AOT[i], src.LUTFile)
			}
		}
		t.SphericalAlbedo, t.NormExt = salb, normExt
	}
	if src.TransmissionFile != "" {
		r, err := os.Open(src.TransmissionFile)
		if err != nil {
			return nil, fmt.Errorf("atmio: opening transmission file: %v", err)
		}
		t.Transmission, err = ReadTransmission(r, t.Sensor, t.SunAngle, nPres, nAOT)
		r.Close()
		if err != nil {
			return nil, err
		}
	}
	if src.GasFile != "" {
		r, err := os.Open(src.GasFile)
		if err != nil {
			return nil, fmt.Errorf("atmio: opening gas coefficient file: %v", err)
		}
		s, gas, err := ReadGasCoefficients(r)
		r.Close()
		if err != nil {
			return nil, err
		}
		if s != t.Sensor {
			return nil, fmt.Errorf("atmio: gas coefficients are for %s but lookup tables are for %s", s, t.Sensor)
		}
		t.Gas = gas
	} else if t.Gas == nil {
		if t.Gas, err = atmcorr.DefaultGasCoefficients(t.Sensor); err != nil {
			return nil, err
		}
	}
	return atmcorr.NewStore(t)
}

// readAngles copies the angle tables of src.AngleFile into t.
func (src Source) readAngles(t *atmcorr.Tables) error {
	f, err := os.Open(src.AngleFile)
	if err != nil {
		return fmt.Errorf("atmio: opening angle file: %v", err)
	}
	defer f.Close()
	a, err := ReadTables(f)
	if err != nil {
		return err
	}
	if a.ScatterMax == nil || a.ScatterMin == nil || a.ViewAngle == nil || a.NumAzimuth == nil || a.CumAzimuth == nil {
		return fmt.Errorf("atmio: %s is missing angle tables", src.AngleFile)
	}
	t.SolarZenithMin, t.SolarZenithStep = a.SolarZenithMin, a.SolarZenithStep
	t.ViewZenithMin, t.ViewZenithStep = a.ViewZenithMin, a.ViewZenithStep
	t.SunAngle, t.SunAngleIndex = a.SunAngle, a.SunAngleIndex
	t.ScatterMax, t.ScatterMin, t.ViewAngle = a.ScatterMax, a.ScatterMin, a.ViewAngle
	t.NumAzimuth, t.CumAzimuth = a.NumAzimuth, a.CumAzimuth
	return nil
}

// StoreCache loads lookup tables and keeps the most recently used ones in
// memory. Concurrent requests for the same Source are only loaded once.
type StoreCache struct {
	// CacheSize is the number of Stores to keep in memory. If it is zero,
	// 2 is used.
	CacheSize int

	loadOnce sync.Once
	cache    *requestcache.Cache
}

func (c *StoreCache) init() {
	n := c.CacheSize
	if n <= 0 {
		n = 2
	}
	c.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
		return request.(Source).Load()
	}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(n))
}

// Store returns the Store for src, loading it if it is not cached.
func (c *StoreCache) Store(ctx context.Context, src Source) (*atmcorr.Store, error) {
	c.loadOnce.Do(c.init)
	r, err := c.cache.NewRequest(ctx, src, hash.Key(src)).Result()
	if err != nil {
		return nil, err
	}
	return r.(*atmcorr.Store), nil
}

// Loads returns the number of times tables have been read from disk.
func (c *StoreCache) Loads() int {
	c.loadOnce.Do(c.init)
	r := c.cache.Requests()
	return r[len(r)-1]
}

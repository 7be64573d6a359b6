// Package geoindex encodes coordinates into base-32 proximity cells used
// as prefix-searchable spatial buckets.
package geoindex

import "strings"

const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// StoragePrecision is the cell length stored on every story record.
const StoragePrecision = 8

// SearchPrecision is the cell length used for nearby lookups. Precision-5
// cells are tens of kilometers wide, which deliberately trades precision
// for a small, fixed number of prefix buckets per query.
const SearchPrecision = 5

type direction int

const (
	north direction = iota
	south
	east
	west
)

var neighborTable = map[direction][2]string{
	north: {"p0r21436x8zb9dcf5h7kjnmqesgutwvy", "bc01fg45238967deuvhjyznpkmstqrwx"},
	south: {"14365h7k9dcfesgujnmqp0r2twvyx8zb", "238967debc01fg45kmstqrwxuvhjyznp"},
	east:  {"bc01fg45238967deuvhjyznpkmstqrwx", "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
	west:  {"238967debc01fg45kmstqrwxuvhjyznp", "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
}

var borderTable = map[direction][2]string{
	north: {"prxz", "bcfguvyz"},
	south: {"028b", "0145hjnp"},
	east:  {"bcfguvyz", "prxz"},
	west:  {"0145hjnp", "028b"},
}

// Encode returns the geohash cell of the given point at the requested
// precision. Same inputs always yield the same cell.
func Encode(lat, lon float64, precision int) string {
	var (
		idx     int
		bit     int
		evenBit = true
		latMin  = -90.0
		latMax  = 90.0
		lonMin  = -180.0
		lonMax  = 180.0
	)

	var sb strings.Builder
	sb.Grow(precision)

	for sb.Len() < precision {
		if evenBit {
			lonMid := (lonMin + lonMax) / 2
			if lon >= lonMid {
				idx = idx*2 + 1
				lonMin = lonMid
			} else {
				idx = idx * 2
				lonMax = lonMid
			}
		} else {
			latMid := (latMin + latMax) / 2
			if lat >= latMid {
				idx = idx*2 + 1
				latMin = latMid
			} else {
				idx = idx * 2
				latMax = latMid
			}
		}
		evenBit = !evenBit

		bit++
		if bit == 5 {
			sb.WriteByte(base32[idx])
			bit = 0
			idx = 0
		}
	}
	return sb.String()
}

// Decode returns the center point of a cell.
func Decode(cell string) (lat, lon float64) {
	var (
		evenBit = true
		latMin  = -90.0
		latMax  = 90.0
		lonMin  = -180.0
		lonMax  = 180.0
	)

	for i := 0; i < len(cell); i++ {
		idx := strings.IndexByte(base32, cell[i])
		if idx < 0 {
			continue
		}
		for n := 4; n >= 0; n-- {
			bit := (idx >> uint(n)) & 1
			if evenBit {
				lonMid := (lonMin + lonMax) / 2
				if bit == 1 {
					lonMin = lonMid
				} else {
					lonMax = lonMid
				}
			} else {
				latMid := (latMin + latMax) / 2
				if bit == 1 {
					latMin = latMid
				} else {
					latMax = latMid
				}
			}
			evenBit = !evenBit
		}
	}
	return (latMin + latMax) / 2, (lonMin + lonMax) / 2
}

// adjacent returns the same-precision cell touching the given one in the
// given direction, wrapping across the antimeridian.
func adjacent(cell string, dir direction) string {
	last := cell[len(cell)-1]
	parent := cell[:len(cell)-1]
	t := len(cell) % 2

	if strings.IndexByte(borderTable[dir][t], last) != -1 && parent != "" {
		parent = adjacent(parent, dir)
	}
	return parent + string(base32[strings.IndexByte(neighborTable[dir][t], last)])
}

// Neighbors returns the 8 cells adjacent to the given one at the same
// precision, clockwise from north. The input cell is never included.
func Neighbors(cell string) []string {
	n := adjacent(cell, north)
	s := adjacent(cell, south)
	return []string{
		n,
		adjacent(n, east),
		adjacent(cell, east),
		adjacent(s, east),
		s,
		adjacent(s, west),
		adjacent(cell, west),
		adjacent(n, west),
	}
}

package model

import (
	"fmt"
	"time"
)

// Kind identifies a reference catalog. The set is closed: each kind maps to
// its own synced table slice and cache TTL.
type Kind string

const (
	KindVehicles   Kind = "vehicles"
	KindCellphones Kind = "cellphones"
	KindTablets    Kind = "tablets"
)

// Kinds lists every known catalog kind.
func Kinds() []Kind {
	return []Kind{KindVehicles, KindCellphones, KindTablets}
}

// ParseKind validates a kind received over the wire.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVehicles, KindCellphones, KindTablets:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown catalog kind %q", s)
}

// CatalogEntry is an immutable reference row naming a real-world vehicle or
// device model. Written by the catalog sync producer; this service only
// reads it.
type CatalogEntry struct {
	ID         int64     `json:"id"`
	Kind       Kind      `json:"kind"`
	FullName   string    `json:"full_name"`
	Primary    string    `json:"primary"`   // make (vehicles) or brand (devices)
	Secondary  string    `json:"secondary"` // model
	DeviceType string    `json:"device_type,omitempty"`
	SyncedAt   time.Time `json:"synced_at"`
}

// DerivedEntry carries the precomputed comparison fields the match engine
// scans against. Derived fields are rebuilt with the cache snapshot, never
// stored.
type DerivedEntry struct {
	FullName            string `json:"full_name"`
	FullNameLower       string `json:"-"`
	FullNameNormalized  string `json:"-"`
	PrimaryLower        string `json:"-"`
	PrimaryNormalized   string `json:"-"`
	SecondaryLower      string `json:"-"`
	SecondaryNormalized string `json:"-"`
	DeviceType          string `json:"device_type,omitempty"`
}

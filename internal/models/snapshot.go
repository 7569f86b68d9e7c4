package models

import (
	"sort"
	"time"
)

// FleetSnapshot is an immutable, complete point-in-time view of the fleet.
// It is replaced wholesale on every successful refresh cycle and never
// mutated after publication, so readers always see a self-consistent view.
type FleetSnapshot struct {
	// Vehicles maps vehicle id to its normalized snapshot.
	Vehicles map[string]*VehicleSnapshot `json:"vehicles"`

	// Timestamp is when the underlying upstream response was fetched.
	Timestamp time.Time `json:"timestamp"`

	// Valid is false only before the first successful fetch (including a
	// cold-start restore from the cache file).
	Valid bool `json:"valid"`
}

// NewEmptyFleetSnapshot returns the pre-first-fetch snapshot.
func NewEmptyFleetSnapshot() *FleetSnapshot {
	return &FleetSnapshot{Vehicles: map[string]*VehicleSnapshot{}}
}

// Vehicle returns the snapshot for the given vehicle id, or nil.
func (s *FleetSnapshot) Vehicle(id string) *VehicleSnapshot {
	return s.Vehicles[id]
}

// VehicleList returns all vehicles ordered by id for stable API output.
func (s *FleetSnapshot) VehicleList() []*VehicleSnapshot {
	list := make([]*VehicleSnapshot, 0, len(s.Vehicles))
	for _, v := range s.Vehicles {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

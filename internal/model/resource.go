package model

import "fmt"

// Resource is a virtual machine in the pool.
type Resource struct {
	ID                int
	HostID            int
	DatacenterID      int
	ComputeCapacity   float64 // MIPS per PE
	PEs               int
	BandwidthCapacity float64
	RAMBytes          int64
	StorageBytes      int64
}

func (r Resource) String() string {
	return fmt.Sprintf("VM %d (host %d): %.0f MIPS x %d, %.0f bw", r.ID, r.HostID, r.ComputeCapacity, r.PEs, r.BandwidthCapacity)
}

// Host groups resources for energy accounting only.
type Host struct {
	ID           int
	DatacenterID int
	PowerDraw    float64
}

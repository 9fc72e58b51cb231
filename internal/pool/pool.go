package pool

import (
	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Pool is the fixed topology every trial runs against.
type Pool struct {
	Resources    []model.Resource
	Hosts        []model.Host
	PowerPerHost float64
}

// Build lays out datacenters, hosts and VMs. Resource ids are sequential from
// 0 in datacenter-major, host-minor order and host ids follow the same order.
// All VMs share one VMSpec.
func Build(t config.Topology) (*Pool, error) {
	if t.Datacenters <= 0 || t.HostsPerDatacenter <= 0 || t.VMsPerHost <= 0 {
		return nil, errors.Wrapf(model.ErrEmptyPool, "topology %dx%dx%d",
			t.Datacenters, t.HostsPerDatacenter, t.VMsPerHost)
	}

	ram, err := quantity(t.VM.RAM)
	if err != nil {
		return nil, errors.Wrap(err, "vm ram")
	}
	storage, err := quantity(t.VM.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "vm storage")
	}

	p := &Pool{
		Resources:    make([]model.Resource, 0, t.Datacenters*t.HostsPerDatacenter*t.VMsPerHost),
		Hosts:        make([]model.Host, 0, t.Datacenters*t.HostsPerDatacenter),
		PowerPerHost: t.PowerPerHost,
	}

	for d := 0; d < t.Datacenters; d++ {
		for h := 0; h < t.HostsPerDatacenter; h++ {
			hostID := d*t.HostsPerDatacenter + h
			p.Hosts = append(p.Hosts, model.Host{
				ID:           hostID,
				DatacenterID: d,
				PowerDraw:    t.PowerPerHost,
			})

			for v := 0; v < t.VMsPerHost; v++ {
				p.Resources = append(p.Resources, model.Resource{
					ID:                len(p.Resources),
					HostID:            hostID,
					DatacenterID:      d,
					ComputeCapacity:   t.VM.MIPS,
					PEs:               t.VM.PEs,
					BandwidthCapacity: t.VM.Bandwidth,
					RAMBytes:          ram,
					StorageBytes:      storage,
				})
			}
		}
	}
	return p, nil
}

func quantity(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	return q.Value(), nil
}

func (p *Pool) HostCount() int {
	return len(p.Hosts)
}

// TotalPower is the simulated power draw of the whole pool, regardless of load.
func (p *Pool) TotalPower() float64 {
	return float64(p.HostCount()) * p.PowerPerHost
}

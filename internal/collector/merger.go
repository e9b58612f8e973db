package collector

import (
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

// Merge combines source results into one inventory. Records are identified
// by type and name. Live parts are taken in order and a record already
// reported by an earlier part is dropped; declared records are appended only
// when no live record has their identity. Within one part every record is
// kept.
func Merge(live, declared []*model.Inventory) *model.Inventory {
	inv := model.NewInventory()
	seen := map[string]bool{}

	var (
		errs    []string
		unbound []*model.ServiceRecord
	)
	for _, part := range append(append([]*model.Inventory(nil), live...), declared...) {
		if inv.HostIP == "" {
			inv.HostIP = part.HostIP
		}
		if part.Error != "" {
			errs = append(errs, part.Error)
		}
		mergeDomains(inv.Domains, part.Domains)
		var added []string
		for _, r := range part.Applications {
			key := model.RecordKey(r)
			if seen[key] {
				continue
			}
			added = append(added, key)
			inv.Add(r)
			if part.Domains.Len() == 0 && len(r.Domains) == 0 {
				unbound = append(unbound, r)
			}
		}
		for _, key := range added {
			seen[key] = true
		}
	}
	inv.Error = strings.Join(errs, "; ")

	categorize(inv)
	attachDomains(inv.Domains, unbound)
	for _, r := range inv.Applications {
		if r.HostIP == "" {
			r.HostIP = inv.HostIP
		}
	}
	inv.ComputeStatistics()
	return inv
}

func mergeDomains(dst, src *model.DomainsConfig) {
	if src == nil {
		return
	}
	dst.Active = model.UnionDomains(dst.Active, src.Active)
	dst.Planned = model.UnionDomains(dst.Planned, src.Planned)
}

func categorize(inv *model.Inventory) {
	for _, r := range inv.Applications {
		if r.AppType != "" {
			continue
		}
		if cat := model.CategorizeService(r.ShortName(), r.Image); cat != "" {
			r.AppType = strings.ToUpper(cat[:1]) + cat[1:]
		}
	}
}

// attachDomains binds the domain table to records from sources that know
// nothing about domains.
func attachDomains(dc *model.DomainsConfig, records []*model.ServiceRecord) {
	for _, r := range records {
		container := r.ContainerName
		if container == "" && r.Type == model.ServiceTypeLXD {
			container = r.GroupKey()
		}
		r.Domains = dc.For(r.ShortName(), container)
	}
}

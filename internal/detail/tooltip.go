package detail

import (
	"fmt"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

// Tooltip is the plain-text hover summary of a record.
func Tooltip(r *model.ServiceRecord, cat *locale.Catalog) string {
	var b strings.Builder
	b.WriteString(r.Name)
	fmt.Fprintf(&b, "\n%s: %s", cat.Type, displayType(r))
	fmt.Fprintf(&b, "\n%s: %s", cat.Status, cat.StatusText(r.Running()))

	writeDomains := func(header string, bindings []model.DomainBinding) {
		if len(bindings) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n\n%s:", header)
		for _, d := range bindings {
			b.WriteString("\n  " + d.Domain)
		}
	}
	writeDomains(cat.Domains, model.DomainsWithStatus(r.Domains, model.DomainActive))
	writeDomains(cat.Scheduled, model.DomainsWithStatus(r.Domains, model.DomainPlanned))

	if r.URL != "" {
		fmt.Fprintf(&b, "\n\n%s: %s", cat.URL, r.URL)
	}
	if r.Port != 0 {
		fmt.Fprintf(&b, "\n%s: %s", cat.Port, r.Port)
	}
	if r.InternalIP != "" {
		fmt.Fprintf(&b, "\n%s: %s", cat.InternalIP, r.InternalIP)
	}
	if r.Description != "" {
		b.WriteString("\n\n" + r.Description)
	}
	return b.String()
}

// ContainerTooltip is the hover text of an LXD container node.
func ContainerTooltip(cg *model.ContainerGroup, cat *locale.Catalog) string {
	return fmt.Sprintf(cat.ContainerTitleF, cg.Name)
}

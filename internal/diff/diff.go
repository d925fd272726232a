// Package diff computes structural, field-level differences between two
// scope configurations. One generic table of field descriptors serves both
// the bulk-sync preview and the override computation path, so every surface
// reports changes identically.
package diff

import (
	"fmt"
	"strings"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// ChangeKind classifies a single field difference.
type ChangeKind string

const (
	// Added means only the left-hand scope has the field populated.
	Added ChangeKind = "added"
	// Removed means only the right-hand scope has the field populated.
	Removed ChangeKind = "removed"
	// Modified means both sides are populated with different values.
	Modified ChangeKind = "modified"
)

// FieldChange is one field-level difference between two scopes.
type FieldChange struct {
	Field  string     `json:"field"`
	Kind   ChangeKind `json:"kind"`
	Before string     `json:"before,omitempty"`
	After  string     `json:"after,omitempty"`
}

// fieldKind selects the string representation used for comparison.
type fieldKind int

const (
	scalar fieldKind = iota
	orderedList
	leaseDuration
	entryCount
)

type fieldSpec struct {
	name string
	kind fieldKind
	get  func(*domain.Scope) string
}

func joinList(list []string) string {
	return strings.Join(list, ", ")
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return ""
}

func countString(n int) string {
	if n == 0 {
		return ""
	}
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

func staticRoutesString(routes []domain.StaticRoute) string {
	parts := make([]string, 0, len(routes))
	for _, r := range routes {
		parts = append(parts, fmt.Sprintf("%s/%s via %s", r.Destination, r.SubnetMask, r.Router))
	}
	return strings.Join(parts, ", ")
}

func vendorInfoString(entries []domain.VendorInfo) string {
	parts := make([]string, 0, len(entries))
	for _, v := range entries {
		parts = append(parts, v.Identifier+"="+v.Information)
	}
	return strings.Join(parts, ", ")
}

func genericOptionsString(opts []domain.GenericOption) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		parts = append(parts, fmt.Sprintf("%d=%s", o.Code, o.Value))
	}
	return strings.Join(parts, ", ")
}

// fields is the single source of truth for which scope fields are compared
// and how. Reserved leases and exclusions are compared at count granularity;
// per-entry inspection belongs to the override computation done by callers on
// the full structures.
var fields = []fieldSpec{
	{"startingAddress", scalar, func(s *domain.Scope) string { return s.StartingAddress }},
	{"endingAddress", scalar, func(s *domain.Scope) string { return s.EndingAddress }},
	{"subnetMask", scalar, func(s *domain.Scope) string { return s.SubnetMask }},
	{"routerAddress", scalar, func(s *domain.Scope) string { return s.RouterAddress }},
	{"leaseDuration", leaseDuration, func(s *domain.Scope) string { return s.LeaseDurationString() }},
	{"dnsServers", orderedList, func(s *domain.Scope) string { return joinList(s.DNSServers) }},
	{"winsServers", orderedList, func(s *domain.Scope) string { return joinList(s.WINSServers) }},
	{"ntpServers", orderedList, func(s *domain.Scope) string { return joinList(s.NTPServers) }},
	{"ntpServerDomainNames", orderedList, func(s *domain.Scope) string { return joinList(s.NTPServerDomainNames) }},
	{"capwapAcIpAddresses", orderedList, func(s *domain.Scope) string { return joinList(s.CAPWAPAcIPAddresses) }},
	{"tftpServerAddresses", orderedList, func(s *domain.Scope) string { return joinList(s.TFTPServerAddresses) }},
	{"domainName", scalar, func(s *domain.Scope) string { return s.DomainName }},
	{"domainSearchList", orderedList, func(s *domain.Scope) string { return joinList(s.DomainSearchList) }},
	{"staticRoutes", orderedList, func(s *domain.Scope) string { return staticRoutesString(s.StaticRoutes) }},
	{"vendorInfo", orderedList, func(s *domain.Scope) string { return vendorInfoString(s.VendorInfo) }},
	{"genericOptions", orderedList, func(s *domain.Scope) string { return genericOptionsString(s.GenericOptions) }},
	{"exclusions", entryCount, func(s *domain.Scope) string { return countString(len(s.Exclusions)) }},
	{"reservedLeases", entryCount, func(s *domain.Scope) string { return countString(len(s.ReservedLeases)) }},
	{"allowOnlyReservedLeases", scalar, func(s *domain.Scope) string { return boolString(s.AllowOnlyReservedLeases) }},
	{"dnsUpdates", scalar, func(s *domain.Scope) string { return boolString(s.DNSUpdates) }},
	{"pingCheckEnabled", scalar, func(s *domain.Scope) string { return boolString(s.PingCheckEnabled) }},
	{"useThisDnsServer", scalar, func(s *domain.Scope) string { return boolString(s.UseThisDNSServer) }},
	{"blockLocallyAdministeredMacAddresses", scalar, func(s *domain.Scope) string { return boolString(s.BlockLocallyAdministeredMacAddresses) }},
	{"ignoreClientIdentifierOption", scalar, func(s *domain.Scope) string { return boolString(s.IgnoreClientIdentifierOption) }},
	{"pingCheckTimeout", scalar, func(s *domain.Scope) string { return intString(s.PingCheckTimeout) }},
	{"pingCheckRetries", scalar, func(s *domain.Scope) string { return intString(s.PingCheckRetries) }},
	{"offerDelayTime", scalar, func(s *domain.Scope) string { return intString(s.OfferDelayTime) }},
	{"dnsTtl", scalar, func(s *domain.Scope) string { return intString(s.DNSTTL) }},
}

// Changes compares scope a against b. A nil b means "absent": every
// populated field of a is reported as Added. An empty result means the two
// scopes are equivalent for synchronization purposes.
func Changes(a domain.Scope, b *domain.Scope) []FieldChange {
	var out []FieldChange
	for _, f := range fields {
		av := f.get(&a)
		var bv string
		if b != nil {
			bv = f.get(b)
		}
		if av == bv {
			continue
		}
		switch {
		case bv == "":
			out = append(out, FieldChange{Field: f.name, Kind: Added, After: av})
		case av == "":
			out = append(out, FieldChange{Field: f.name, Kind: Removed, Before: bv})
		default:
			out = append(out, FieldChange{Field: f.name, Kind: Modified, Before: bv, After: av})
		}
	}
	return out
}

// Equal reports whether two scopes are equivalent for synchronization
// purposes, i.e. their diff is empty.
func Equal(a, b domain.Scope) bool {
	return len(Changes(a, &b)) == 0
}

package domain

import (
	"fmt"
	"strings"
)

// Scope is a named DHCP address pool configuration on a single node.
// Scope names are unique per node, case-insensitively. The enabled flag is
// tracked separately from the field configuration (see ScopeEntry).
type Scope struct {
	Name            string `json:"name"`
	StartingAddress string `json:"startingAddress"`
	EndingAddress   string `json:"endingAddress"`
	SubnetMask      string `json:"subnetMask"`
	RouterAddress   string `json:"routerAddress,omitempty"`

	LeaseDays    *int `json:"leaseDays,omitempty"`
	LeaseHours   *int `json:"leaseHours,omitempty"`
	LeaseMinutes *int `json:"leaseMinutes,omitempty"`

	DNSServers           []string `json:"dnsServers,omitempty"`
	WINSServers          []string `json:"winsServers,omitempty"`
	NTPServers           []string `json:"ntpServers,omitempty"`
	NTPServerDomainNames []string `json:"ntpServerDomainNames,omitempty"`
	CAPWAPAcIPAddresses  []string `json:"capwapAcIpAddresses,omitempty"`
	TFTPServerAddresses  []string `json:"tftpServerAddresses,omitempty"`

	DomainName       string   `json:"domainName,omitempty"`
	DomainSearchList []string `json:"domainSearchList,omitempty"`

	StaticRoutes   []StaticRoute   `json:"staticRoutes,omitempty"`
	VendorInfo     []VendorInfo    `json:"vendorInfo,omitempty"`
	GenericOptions []GenericOption `json:"genericOptions,omitempty"`
	Exclusions     []Exclusion     `json:"exclusions,omitempty"`
	ReservedLeases []ReservedLease `json:"reservedLeases,omitempty"`

	AllowOnlyReservedLeases              bool `json:"allowOnlyReservedLeases"`
	DNSUpdates                           bool `json:"dnsUpdates"`
	PingCheckEnabled                     bool `json:"pingCheckEnabled"`
	UseThisDNSServer                     bool `json:"useThisDnsServer"`
	BlockLocallyAdministeredMacAddresses bool `json:"blockLocallyAdministeredMacAddresses"`
	IgnoreClientIdentifierOption         bool `json:"ignoreClientIdentifierOption"`

	PingCheckTimeout *int `json:"pingCheckTimeout,omitempty"`
	PingCheckRetries *int `json:"pingCheckRetries,omitempty"`
	OfferDelayTime   *int `json:"offerDelayTime,omitempty"`
	DNSTTL           *int `json:"dnsTtl,omitempty"`
}

// StaticRoute is a classless static route option entry.
type StaticRoute struct {
	Destination string `json:"destination"`
	SubnetMask  string `json:"subnetMask"`
	Router      string `json:"router"`
}

// VendorInfo is a vendor-specific information option entry.
type VendorInfo struct {
	Identifier  string `json:"identifier"`
	Information string `json:"information"`
}

// GenericOption is an arbitrary DHCP option. The value is stored canonically
// as colon-separated uppercase hex byte pairs, e.g. "1A:2B".
type GenericOption struct {
	Code  int    `json:"code"`
	Value string `json:"value"`
}

// Exclusion is an address range excluded from the scope's pool.
type Exclusion struct {
	StartingAddress string `json:"startingAddress"`
	EndingAddress   string `json:"endingAddress"`
}

// ReservedLease reserves an address for a hardware address. The hardware
// address is the unique key within a scope.
type ReservedLease struct {
	HardwareAddress string `json:"hardwareAddress"`
	Address         string `json:"address"`
	HostName        string `json:"hostName,omitempty"`
	Comments        string `json:"comments,omitempty"`
}

// ScopeKey folds a scope name for case-insensitive comparison.
func ScopeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LeaseDurationString renders the composite lease duration as "Xd Yh Zm".
// Unset components render as zero; a scope with no lease components at all
// renders as the empty string.
func (s *Scope) LeaseDurationString() string {
	if s.LeaseDays == nil && s.LeaseHours == nil && s.LeaseMinutes == nil {
		return ""
	}
	d, h, m := 0, 0, 0
	if s.LeaseDays != nil {
		d = *s.LeaseDays
	}
	if s.LeaseHours != nil {
		h = *s.LeaseHours
	}
	if s.LeaseMinutes != nil {
		m = *s.LeaseMinutes
	}
	return fmt.Sprintf("%dd %dh %dm", d, h, m)
}

// ScopeSummary is the listing form of a scope as reported by a node.
type ScopeSummary struct {
	Name            string `json:"name"`
	StartingAddress string `json:"startingAddress"`
	EndingAddress   string `json:"endingAddress"`
	SubnetMask      string `json:"subnetMask"`
	Enabled         bool   `json:"enabled"`
}

// ScopeEntry pairs a scope's configuration with its enabled state.
type ScopeEntry struct {
	Scope   Scope `json:"scope"`
	Enabled bool  `json:"enabled"`
}

// ScopeOverrides carries optional field replacements applied on top of an
// existing scope during update and clone operations. Nil fields are left
// untouched.
type ScopeOverrides struct {
	StartingAddress *string `json:"startingAddress,omitempty"`
	EndingAddress   *string `json:"endingAddress,omitempty"`
	SubnetMask      *string `json:"subnetMask,omitempty"`
	RouterAddress   *string `json:"routerAddress,omitempty"`

	LeaseDays    *int `json:"leaseDays,omitempty"`
	LeaseHours   *int `json:"leaseHours,omitempty"`
	LeaseMinutes *int `json:"leaseMinutes,omitempty"`

	DNSServers           []string `json:"dnsServers,omitempty"`
	WINSServers          []string `json:"winsServers,omitempty"`
	NTPServers           []string `json:"ntpServers,omitempty"`
	NTPServerDomainNames []string `json:"ntpServerDomainNames,omitempty"`
	CAPWAPAcIPAddresses  []string `json:"capwapAcIpAddresses,omitempty"`
	TFTPServerAddresses  []string `json:"tftpServerAddresses,omitempty"`

	DomainName       *string  `json:"domainName,omitempty"`
	DomainSearchList []string `json:"domainSearchList,omitempty"`

	StaticRoutes   []StaticRoute   `json:"staticRoutes,omitempty"`
	VendorInfo     []VendorInfo    `json:"vendorInfo,omitempty"`
	GenericOptions []GenericOption `json:"genericOptions,omitempty"`
	Exclusions     []Exclusion     `json:"exclusions,omitempty"`
	ReservedLeases []ReservedLease `json:"reservedLeases,omitempty"`

	AllowOnlyReservedLeases              *bool `json:"allowOnlyReservedLeases,omitempty"`
	DNSUpdates                           *bool `json:"dnsUpdates,omitempty"`
	PingCheckEnabled                     *bool `json:"pingCheckEnabled,omitempty"`
	UseThisDNSServer                     *bool `json:"useThisDnsServer,omitempty"`
	BlockLocallyAdministeredMacAddresses *bool `json:"blockLocallyAdministeredMacAddresses,omitempty"`
	IgnoreClientIdentifierOption         *bool `json:"ignoreClientIdentifierOption,omitempty"`

	PingCheckTimeout *int `json:"pingCheckTimeout,omitempty"`
	PingCheckRetries *int `json:"pingCheckRetries,omitempty"`
	OfferDelayTime   *int `json:"offerDelayTime,omitempty"`
	DNSTTL           *int `json:"dnsTtl,omitempty"`
}

// Apply returns a copy of the scope with the overrides applied.
func (o *ScopeOverrides) Apply(s Scope) Scope {
	out := s
	if o == nil {
		return out
	}
	if o.StartingAddress != nil {
		out.StartingAddress = *o.StartingAddress
	}
	if o.EndingAddress != nil {
		out.EndingAddress = *o.EndingAddress
	}
	if o.SubnetMask != nil {
		out.SubnetMask = *o.SubnetMask
	}
	if o.RouterAddress != nil {
		out.RouterAddress = *o.RouterAddress
	}
	if o.LeaseDays != nil {
		out.LeaseDays = o.LeaseDays
	}
	if o.LeaseHours != nil {
		out.LeaseHours = o.LeaseHours
	}
	if o.LeaseMinutes != nil {
		out.LeaseMinutes = o.LeaseMinutes
	}
	if o.DNSServers != nil {
		out.DNSServers = o.DNSServers
	}
	if o.WINSServers != nil {
		out.WINSServers = o.WINSServers
	}
	if o.NTPServers != nil {
		out.NTPServers = o.NTPServers
	}
	if o.NTPServerDomainNames != nil {
		out.NTPServerDomainNames = o.NTPServerDomainNames
	}
	if o.CAPWAPAcIPAddresses != nil {
		out.CAPWAPAcIPAddresses = o.CAPWAPAcIPAddresses
	}
	if o.TFTPServerAddresses != nil {
		out.TFTPServerAddresses = o.TFTPServerAddresses
	}
	if o.DomainName != nil {
		out.DomainName = *o.DomainName
	}
	if o.DomainSearchList != nil {
		out.DomainSearchList = o.DomainSearchList
	}
	if o.StaticRoutes != nil {
		out.StaticRoutes = o.StaticRoutes
	}
	if o.VendorInfo != nil {
		out.VendorInfo = o.VendorInfo
	}
	if o.GenericOptions != nil {
		out.GenericOptions = o.GenericOptions
	}
	if o.Exclusions != nil {
		out.Exclusions = o.Exclusions
	}
	if o.ReservedLeases != nil {
		out.ReservedLeases = o.ReservedLeases
	}
	if o.AllowOnlyReservedLeases != nil {
		out.AllowOnlyReservedLeases = *o.AllowOnlyReservedLeases
	}
	if o.DNSUpdates != nil {
		out.DNSUpdates = *o.DNSUpdates
	}
	if o.PingCheckEnabled != nil {
		out.PingCheckEnabled = *o.PingCheckEnabled
	}
	if o.UseThisDNSServer != nil {
		out.UseThisDNSServer = *o.UseThisDNSServer
	}
	if o.BlockLocallyAdministeredMacAddresses != nil {
		out.BlockLocallyAdministeredMacAddresses = *o.BlockLocallyAdministeredMacAddresses
	}
	if o.IgnoreClientIdentifierOption != nil {
		out.IgnoreClientIdentifierOption = *o.IgnoreClientIdentifierOption
	}
	if o.PingCheckTimeout != nil {
		out.PingCheckTimeout = o.PingCheckTimeout
	}
	if o.PingCheckRetries != nil {
		out.PingCheckRetries = o.PingCheckRetries
	}
	if o.OfferDelayTime != nil {
		out.OfferDelayTime = o.OfferDelayTime
	}
	if o.DNSTTL != nil {
		out.DNSTTL = o.DNSTTL
	}
	return out
}

// Package validation normalizes and validates user-supplied DHCP scope
// values before they are sent to any node. Validation failures short-circuit
// locally; no remote call is attempted for an invalid scope.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// IsIPv4 reports whether s is an IPv4 literal: exactly four dot-separated
// octets, each 0-255, with no surrounding characters. The empty string is
// not an IPv4 literal; callers that allow absence check for "" first.
func IsIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return false
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// SplitListInput splits free-text list input on newlines and commas, trims
// each entry, and drops empties, preserving order. Used for DNS/WINS/NTP/
// CAPWAP/TFTP server fields and domain search lists.
func SplitListInput(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseOptionalInt parses a non-negative integer field. The empty string
// means "unset" and yields nil, which is distinct from zero.
func ParseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	if n < 0 {
		return nil, fmt.Errorf("must not be negative: %d", n)
	}
	return &n, nil
}

// ASCIIToHex converts a string to the canonical generic-option value form:
// colon-separated uppercase hex byte pairs.
func ASCIIToHex(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02X", s[i])
	}
	return b.String()
}

// HexToASCII decodes a canonical hex option value back to ASCII. It succeeds
// only if every decoded byte is printable (0x20-0x7E); a non-printable byte
// forces the caller to keep hex display mode.
func HexToASCII(hexValue string) (string, bool) {
	if hexValue == "" {
		return "", true
	}
	var b strings.Builder
	for _, pair := range strings.Split(hexValue, ":") {
		n, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return "", false
		}
		if n < 0x20 || n > 0x7E {
			return "", false
		}
		b.WriteByte(byte(n))
	}
	return b.String(), true
}

// NormalizeHex canonicalizes raw hex input: "0x"/"0X" prefixes and any
// non-hex characters are stripped, the digits are uppercased and regrouped
// into colon-separated byte pairs. An odd number of remaining digits is an
// error.
func NormalizeHex(input string) (string, error) {
	var digits []byte
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c >= 'a' && c <= 'f':
			digits = append(digits, c-('a'-'A'))
		case c >= 'A' && c <= 'F':
			digits = append(digits, c)
		case (c == 'x' || c == 'X') && len(digits) > 0 && digits[len(digits)-1] == '0':
			// "0x" prefix: drop the leading zero that preceded it.
			digits = digits[:len(digits)-1]
		}
	}
	if len(digits) == 0 {
		return "", nil
	}
	if len(digits)%2 != 0 {
		return "", fmt.Errorf("hex value has odd length")
	}
	var b strings.Builder
	for i := 0; i < len(digits); i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.Write(digits[i : i+2])
	}
	return b.String(), nil
}

// trimAll trims every entry of a list and drops empties, preserving order.
func trimAll(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// countFilled counts the non-empty values among the required subfields of a
// composite entry.
func countFilled(fields ...string) int {
	n := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}

// SanitizeStaticRoutes drops all-empty entries, flags partially-filled ones,
// and trims the rest. All three subfields are required.
func SanitizeStaticRoutes(routes []domain.StaticRoute) ([]domain.StaticRoute, bool) {
	var out []domain.StaticRoute
	partial := false
	for _, r := range routes {
		switch countFilled(r.Destination, r.SubnetMask, r.Router) {
		case 0:
		case 3:
			out = append(out, domain.StaticRoute{
				Destination: strings.TrimSpace(r.Destination),
				SubnetMask:  strings.TrimSpace(r.SubnetMask),
				Router:      strings.TrimSpace(r.Router),
			})
		default:
			partial = true
		}
	}
	return out, partial
}

// SanitizeVendorInfo drops all-empty entries, flags partially-filled ones,
// and trims the rest. Both subfields are required.
func SanitizeVendorInfo(entries []domain.VendorInfo) ([]domain.VendorInfo, bool) {
	var out []domain.VendorInfo
	partial := false
	for _, v := range entries {
		switch countFilled(v.Identifier, v.Information) {
		case 0:
		case 2:
			out = append(out, domain.VendorInfo{
				Identifier:  strings.TrimSpace(v.Identifier),
				Information: strings.TrimSpace(v.Information),
			})
		default:
			partial = true
		}
	}
	return out, partial
}

// SanitizeExclusions drops all-empty entries, flags partially-filled ones,
// and trims the rest. Both addresses are required.
func SanitizeExclusions(entries []domain.Exclusion) ([]domain.Exclusion, bool) {
	var out []domain.Exclusion
	partial := false
	for _, e := range entries {
		switch countFilled(e.StartingAddress, e.EndingAddress) {
		case 0:
		case 2:
			out = append(out, domain.Exclusion{
				StartingAddress: strings.TrimSpace(e.StartingAddress),
				EndingAddress:   strings.TrimSpace(e.EndingAddress),
			})
		default:
			partial = true
		}
	}
	return out, partial
}

// SanitizeReservedLeases drops all-empty entries, flags partially-filled
// ones, and trims the rest. HardwareAddress and Address are required;
// HostName and Comments are optional and carried through trimmed.
func SanitizeReservedLeases(entries []domain.ReservedLease) ([]domain.ReservedLease, bool) {
	var out []domain.ReservedLease
	partial := false
	for _, l := range entries {
		required := countFilled(l.HardwareAddress, l.Address)
		optional := countFilled(l.HostName, l.Comments)
		switch {
		case required == 0 && optional == 0:
		case required == 2:
			out = append(out, domain.ReservedLease{
				HardwareAddress: strings.TrimSpace(l.HardwareAddress),
				Address:         strings.TrimSpace(l.Address),
				HostName:        strings.TrimSpace(l.HostName),
				Comments:        strings.TrimSpace(l.Comments),
			})
		default:
			partial = true
		}
	}
	return out, partial
}

// SanitizeScope normalizes a scope and collects every validation problem.
// The returned scope is only meaningful when the error list is empty.
func SanitizeScope(s domain.Scope) (domain.Scope, ValidationErrors) {
	var errs ValidationErrors

	s.Name = strings.TrimSpace(s.Name)
	s.StartingAddress = strings.TrimSpace(s.StartingAddress)
	s.EndingAddress = strings.TrimSpace(s.EndingAddress)
	s.SubnetMask = strings.TrimSpace(s.SubnetMask)
	s.RouterAddress = strings.TrimSpace(s.RouterAddress)
	s.DomainName = strings.TrimSpace(s.DomainName)

	if s.Name == "" {
		errs.Add("name", s.Name, "name is required")
	}
	requireIPv4(&errs, "startingAddress", s.StartingAddress)
	requireIPv4(&errs, "endingAddress", s.EndingAddress)
	requireIPv4(&errs, "subnetMask", s.SubnetMask)
	if s.RouterAddress != "" && !IsIPv4(s.RouterAddress) {
		errs.Add("routerAddress", s.RouterAddress, "must be an IPv4 address")
	}

	s.DNSServers = sanitizeAddressList(&errs, "dnsServers", s.DNSServers)
	s.WINSServers = sanitizeAddressList(&errs, "winsServers", s.WINSServers)
	s.NTPServers = sanitizeAddressList(&errs, "ntpServers", s.NTPServers)
	s.CAPWAPAcIPAddresses = sanitizeAddressList(&errs, "capwapAcIpAddresses", s.CAPWAPAcIPAddresses)
	s.NTPServerDomainNames = trimAll(s.NTPServerDomainNames)
	s.TFTPServerAddresses = trimAll(s.TFTPServerAddresses)
	s.DomainSearchList = trimAll(s.DomainSearchList)

	var partial bool
	if s.StaticRoutes, partial = SanitizeStaticRoutes(s.StaticRoutes); partial {
		errs.Add("staticRoutes", "", "entry has some but not all required fields")
	}
	if s.VendorInfo, partial = SanitizeVendorInfo(s.VendorInfo); partial {
		errs.Add("vendorInfo", "", "entry has some but not all required fields")
	}
	if s.Exclusions, partial = SanitizeExclusions(s.Exclusions); partial {
		errs.Add("exclusions", "", "entry has some but not all required fields")
	}
	if s.ReservedLeases, partial = SanitizeReservedLeases(s.ReservedLeases); partial {
		errs.Add("reservedLeases", "", "entry has some but not all required fields")
	}

	seen := make(map[string]bool, len(s.ReservedLeases))
	for _, l := range s.ReservedLeases {
		key := strings.ToLower(l.HardwareAddress)
		if seen[key] {
			errs.Add("reservedLeases", l.HardwareAddress, "duplicate hardware address")
		}
		seen[key] = true
	}

	var options []domain.GenericOption
	for _, opt := range s.GenericOptions {
		if opt.Code < 0 {
			errs.Add("genericOptions", strconv.Itoa(opt.Code), "option code must not be negative")
			continue
		}
		value, err := NormalizeHex(opt.Value)
		if err != nil {
			errs.Add("genericOptions", opt.Value, err.Error())
			continue
		}
		options = append(options, domain.GenericOption{Code: opt.Code, Value: value})
	}
	s.GenericOptions = options

	checkNonNegative(&errs, "leaseDays", s.LeaseDays)
	checkNonNegative(&errs, "leaseHours", s.LeaseHours)
	checkNonNegative(&errs, "leaseMinutes", s.LeaseMinutes)
	checkNonNegative(&errs, "pingCheckTimeout", s.PingCheckTimeout)
	checkNonNegative(&errs, "pingCheckRetries", s.PingCheckRetries)
	checkNonNegative(&errs, "offerDelayTime", s.OfferDelayTime)
	checkNonNegative(&errs, "dnsTtl", s.DNSTTL)

	return s, errs
}

func requireIPv4(errs *ValidationErrors, field, value string) {
	if value == "" {
		errs.Add(field, value, field+" is required")
		return
	}
	if !IsIPv4(value) {
		errs.Add(field, value, "must be an IPv4 address")
	}
}

func sanitizeAddressList(errs *ValidationErrors, field string, list []string) []string {
	out := trimAll(list)
	for _, v := range out {
		if !IsIPv4(v) {
			errs.Add(field, v, "must be an IPv4 address")
		}
	}
	return out
}

func checkNonNegative(errs *ValidationErrors, field string, v *int) {
	if v != nil && *v < 0 {
		errs.Add(field, strconv.Itoa(*v), "must not be negative")
	}
}

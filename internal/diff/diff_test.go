package diff

import (
	"testing"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

func baseScope() domain.Scope {
	hours := 8
	return domain.Scope{
		Name:            "office",
		StartingAddress: "10.0.0.10",
		EndingAddress:   "10.0.0.250",
		SubnetMask:      "255.255.255.0",
		RouterAddress:   "10.0.0.1",
		LeaseHours:      &hours,
		DNSServers:      []string{"10.0.0.2", "10.0.0.3"},
		Exclusions: []domain.Exclusion{
			{StartingAddress: "10.0.0.100", EndingAddress: "10.0.0.110"},
		},
	}
}

func findChange(t *testing.T, changes []FieldChange, field string) FieldChange {
	t.Helper()
	for _, c := range changes {
		if c.Field == field {
			return c
		}
	}
	t.Fatalf("no change for field %q in %v", field, changes)
	return FieldChange{}
}

func TestChangesIdenticalScopes(t *testing.T) {
	a := baseScope()
	b := baseScope()
	if changes := Changes(a, &b); len(changes) != 0 {
		t.Errorf("Changes of identical scopes = %v, want empty", changes)
	}
	if !Equal(a, b) {
		t.Error("Equal = false for identical scopes")
	}
}

func TestChangesAbsentTarget(t *testing.T) {
	a := baseScope()
	changes := Changes(a, nil)
	if len(changes) == 0 {
		t.Fatal("Changes against nil = empty, want added fields")
	}
	for _, c := range changes {
		if c.Kind != Added {
			t.Errorf("change %s kind = %s, want added", c.Field, c.Kind)
		}
		if c.Before != "" {
			t.Errorf("change %s has before value %q", c.Field, c.Before)
		}
	}
	c := findChange(t, changes, "startingAddress")
	if c.After != "10.0.0.10" {
		t.Errorf("startingAddress after = %q", c.After)
	}
}

func TestChangesModified(t *testing.T) {
	a := baseScope()
	b := baseScope()
	b.SubnetMask = "255.255.0.0"
	changes := Changes(a, &b)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1: %v", len(changes), changes)
	}
	c := changes[0]
	if c.Field != "subnetMask" || c.Kind != Modified {
		t.Errorf("change = %+v, want modified subnetMask", c)
	}
	if c.Before != "255.255.0.0" || c.After != "255.255.255.0" {
		t.Errorf("before/after = %q/%q", c.Before, c.After)
	}
}

func TestChangesAddedAndRemoved(t *testing.T) {
	a := baseScope()
	b := baseScope()
	a.DomainName = "corp.example.com"
	b.WINSServers = []string{"10.0.0.4"}

	changes := Changes(a, &b)
	if got := findChange(t, changes, "domainName"); got.Kind != Added {
		t.Errorf("domainName kind = %s, want added", got.Kind)
	}
	if got := findChange(t, changes, "winsServers"); got.Kind != Removed {
		t.Errorf("winsServers kind = %s, want removed", got.Kind)
	}
}

func TestChangesListOrderMatters(t *testing.T) {
	a := baseScope()
	b := baseScope()
	b.DNSServers = []string{"10.0.0.3", "10.0.0.2"}
	changes := Changes(a, &b)
	c := findChange(t, changes, "dnsServers")
	if c.Kind != Modified {
		t.Errorf("dnsServers kind = %s, want modified", c.Kind)
	}
}

func TestChangesLeaseDuration(t *testing.T) {
	a := baseScope()
	b := baseScope()
	days := 1
	minutes := 30
	b.LeaseDays = &days
	b.LeaseMinutes = &minutes

	changes := Changes(a, &b)
	c := findChange(t, changes, "leaseDuration")
	if c.Kind != Modified {
		t.Fatalf("leaseDuration kind = %s, want modified", c.Kind)
	}
	if c.Before != "1d 8h 30m" {
		t.Errorf("before = %q, want %q", c.Before, "1d 8h 30m")
	}
	if c.After != "0d 8h 0m" {
		t.Errorf("after = %q, want %q", c.After, "0d 8h 0m")
	}
}

func TestChangesEntryCounts(t *testing.T) {
	a := baseScope()
	b := baseScope()
	b.Exclusions = append(b.Exclusions,
		domain.Exclusion{StartingAddress: "10.0.0.200", EndingAddress: "10.0.0.210"})
	b.ReservedLeases = []domain.ReservedLease{
		{HardwareAddress: "AA:BB:CC:00:11:22", Address: "10.0.0.5"},
	}

	changes := Changes(a, &b)

	c := findChange(t, changes, "exclusions")
	if c.Before != "2 entries" || c.After != "1 entry" {
		t.Errorf("exclusions before/after = %q/%q", c.Before, c.After)
	}

	c = findChange(t, changes, "reservedLeases")
	if c.Kind != Removed || c.Before != "1 entry" {
		t.Errorf("reservedLeases = %+v, want removed with 1 entry", c)
	}

	// Same count with different content compares equal at this granularity.
	b2 := baseScope()
	b2.Exclusions = []domain.Exclusion{
		{StartingAddress: "10.0.0.50", EndingAddress: "10.0.0.60"},
	}
	for _, c := range Changes(a, &b2) {
		if c.Field == "exclusions" {
			t.Errorf("exclusions reported changed for equal counts: %+v", c)
		}
	}
}

func TestChangesBoolFlags(t *testing.T) {
	a := baseScope()
	b := baseScope()
	a.PingCheckEnabled = true
	changes := Changes(a, &b)
	c := findChange(t, changes, "pingCheckEnabled")
	if c.Kind != Added || c.After != "true" {
		t.Errorf("pingCheckEnabled = %+v, want added true", c)
	}
}

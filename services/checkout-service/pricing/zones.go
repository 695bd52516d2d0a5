package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoZone is returned when no zone matches a pincode and no catch-all zone exists.
var ErrNoZone = errors.New("no delivery zone for pincode")

// AllPincodes is the catch-all pincode rule.
const AllPincodes = "all"

// DeliveryZone is a delivery pricing bucket keyed by pincode membership.
// Pincodes is either a comma separated set ("110001,110002"), an inclusive
// numeric range ("110001-110099") or "all".
type DeliveryZone struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BaseCharge      float64 `json:"baseCharge"`
	MinOrderForFree float64 `json:"minOrderForFree"`
	EstimatedDays   string  `json:"estimatedDays"`
	Pincodes        string  `json:"pincodes"`

	rule pincodeRule
}

// Charge is 0 when subtotal reaches MinOrderForFree, BaseCharge otherwise.
func (z DeliveryZone) Charge(subtotal float64) float64 {
	if subtotal >= z.MinOrderForFree {
		return 0
	}
	return z.BaseCharge
}

// IsCatchAll reports whether the zone matches every pincode.
func (z DeliveryZone) IsCatchAll() bool {
	return strings.EqualFold(strings.TrimSpace(z.Pincodes), AllPincodes)
}

type pincodeRule struct {
	all    bool
	set    map[string]struct{}
	lo, hi int
	ranged bool
}

func parsePincodeRule(raw string) (pincodeRule, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return pincodeRule{}, fmt.Errorf("empty pincode rule")
	case strings.EqualFold(raw, AllPincodes):
		return pincodeRule{all: true}, nil
	case strings.Contains(raw, "-"):
		parts := strings.SplitN(raw, "-", 2)
		lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return pincodeRule{}, fmt.Errorf("invalid range start %q: %w", parts[0], err)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return pincodeRule{}, fmt.Errorf("invalid range end %q: %w", parts[1], err)
		}
		if lo > hi {
			return pincodeRule{}, fmt.Errorf("range %q is reversed", raw)
		}
		return pincodeRule{lo: lo, hi: hi, ranged: true}, nil
	default:
		set := make(map[string]struct{})
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				set[p] = struct{}{}
			}
		}
		return pincodeRule{set: set}, nil
	}
}

func (r pincodeRule) matches(pincode string) bool {
	switch {
	case r.all:
		return true
	case r.ranged:
		n, err := strconv.Atoi(pincode)
		return err == nil && n >= r.lo && n <= r.hi
	default:
		_, ok := r.set[pincode]
		return ok
	}
}

// ZoneTable resolves pincodes to zones in declaration order.
type ZoneTable struct {
	zones []DeliveryZone
}

// NewZoneTable validates every pincode rule and keeps the given order.
func NewZoneTable(zones []DeliveryZone) (*ZoneTable, error) {
	t := &ZoneTable{zones: make([]DeliveryZone, 0, len(zones))}
	for _, z := range zones {
		rule, err := parsePincodeRule(z.Pincodes)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", z.ID, err)
		}
		z.rule = rule
		t.zones = append(t.zones, z)
	}
	return t, nil
}

// Zones returns a copy of the table in declaration order.
func (t *ZoneTable) Zones() []DeliveryZone {
	out := make([]DeliveryZone, len(t.zones))
	copy(out, t.zones)
	return out
}

// Resolve returns the first non catch-all zone matching pincode, falling back
// to the catch-all zone.
func (t *ZoneTable) Resolve(pincode string) (DeliveryZone, error) {
	pincode = strings.TrimSpace(pincode)
	var fallback *DeliveryZone
	for i := range t.zones {
		z := &t.zones[i]
		if z.rule.all {
			if fallback == nil {
				fallback = z
			}
			continue
		}
		if z.rule.matches(pincode) {
			return *z, nil
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return DeliveryZone{}, ErrNoZone
}

// Quote resolves pincode and prices shipping for subtotal.
func (t *ZoneTable) Quote(pincode string, subtotal float64) (DeliveryZone, float64, error) {
	z, err := t.Resolve(pincode)
	if err != nil {
		return DeliveryZone{}, 0, err
	}
	return z, z.Charge(subtotal), nil
}

// DefaultZones is the storefront's reference table.
func DefaultZones() []DeliveryZone {
	return []DeliveryZone{
		{ID: "local", Name: "Local (Delhi)", BaseCharge: 30, MinOrderForFree: 300, EstimatedDays: "Same day", Pincodes: "110001-110099"},
		{ID: "nearby", Name: "Nearby (NCR)", BaseCharge: 60, MinOrderForFree: 800, EstimatedDays: "1-2 days", Pincodes: "121001,122001,122002,201301,201010"},
		{ID: "distant", Name: "Distant (North India)", BaseCharge: 100, MinOrderForFree: 1500, EstimatedDays: "3-5 days", Pincodes: "140001-160099"},
		{ID: "remote", Name: "Rest of India", BaseCharge: 150, MinOrderForFree: 2000, EstimatedDays: "5-7 days", Pincodes: AllPincodes},
	}
}

// DecodeZones reads a JSON array of zones, as kept in DELIVERY_ZONES_FILE.
func DecodeZones(r io.Reader) ([]DeliveryZone, error) {
	var zones []DeliveryZone
	if err := json.NewDecoder(r).Decode(&zones); err != nil {
		return nil, fmt.Errorf("decode delivery zones: %w", err)
	}
	if len(zones) == 0 {
		return nil, errors.New("delivery zone file is empty")
	}
	return zones, nil
}

// ZoneShippingPolicy prices shipping from the zone of a fixed destination
// pincode. It satisfies ShippingPolicy so a Calculator can be built per order
// once the pincode is known.
type ZoneShippingPolicy struct {
	Zone DeliveryZone
}

func (p ZoneShippingPolicy) Charge(subtotal float64) float64 {
	return p.Zone.Charge(subtotal)
}

// PolicyFor resolves pincode into a ZoneShippingPolicy.
func (t *ZoneTable) PolicyFor(pincode string) (ShippingPolicy, error) {
	z, err := t.Resolve(pincode)
	if err != nil {
		return nil, err
	}
	return ZoneShippingPolicy{Zone: z}, nil
}

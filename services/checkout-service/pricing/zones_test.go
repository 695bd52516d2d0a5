package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

func defaultTable(t *testing.T) *ZoneTable {
	t.Helper()
	table, err := NewZoneTable(DefaultZones())
	require.NoError(t, err)
	return table
}

func TestZoneTable_Resolve(t *testing.T) {
	table := defaultTable(t)

	tests := []struct {
		pincode string
		want    string
	}{
		{"110001", "local"},
		{"110099", "local"},
		{"110100", "remote"},
		{"122002", "nearby"},
		{" 201301 ", "nearby"},
		{"150000", "distant"},
		{"600001", "remote"},
		{"abcdef", "remote"},
	}
	for _, tt := range tests {
		z, err := table.Resolve(tt.pincode)
		require.NoError(t, err)
		assert.Equal(t, tt.want, z.ID, "pincode=%q", tt.pincode)
	}
}

func TestZoneTable_CatchAllDeclaredFirstStillFallsBack(t *testing.T) {
	table, err := NewZoneTable([]DeliveryZone{
		{ID: "remote", Pincodes: "all", BaseCharge: 150},
		{ID: "local", Pincodes: "110001-110099", BaseCharge: 30},
	})
	require.NoError(t, err)

	z, err := table.Resolve("110005")
	require.NoError(t, err)
	assert.Equal(t, "local", z.ID)

	z, err = table.Resolve("999999")
	require.NoError(t, err)
	assert.Equal(t, "remote", z.ID)
}

func TestZoneTable_NoCatchAll(t *testing.T) {
	table, err := NewZoneTable([]DeliveryZone{{ID: "local", Pincodes: "110001"}})
	require.NoError(t, err)

	_, err = table.Resolve("110002")
	assert.ErrorIs(t, err, ErrNoZone)
}

func TestNewZoneTable_RejectsBadRules(t *testing.T) {
	for _, rule := range []string{"", "110099-110001", "abc-110001", "110001-xyz"} {
		_, err := NewZoneTable([]DeliveryZone{{ID: "z", Pincodes: rule}})
		assert.Error(t, err, "rule=%q", rule)
	}
}

func TestDeliveryZone_Charge(t *testing.T) {
	z := DeliveryZone{BaseCharge: 60, MinOrderForFree: 800}
	assert.Equal(t, 60.0, z.Charge(799.99))
	assert.Equal(t, 0.0, z.Charge(800))
	assert.Equal(t, 0.0, z.Charge(2500))
}

func TestZoneShippingPolicy_InCalculator(t *testing.T) {
	table := defaultTable(t)
	policy, err := table.PolicyFor("110020")
	require.NoError(t, err)

	calc := NewWithPolicy(DefaultRates(), policy)
	got := calc.Totals([]models.CartLine{{ProductID: "p", Name: "Barfi", Price: 200, Quantity: 1}})
	assert.Equal(t, models.OrderTotals{Subtotal: 200, ShippingCost: 30, Tax: 10, Total: 240}, got)

	got = calc.Totals([]models.CartLine{{ProductID: "p", Name: "Barfi", Price: 300, Quantity: 1}})
	assert.Equal(t, 0.0, got.ShippingCost)
}

func TestZoneTable_Quote(t *testing.T) {
	table := defaultTable(t)
	z, charge, err := table.Quote("700001", 1999)
	require.NoError(t, err)
	assert.Equal(t, "remote", z.ID)
	assert.Equal(t, 150.0, charge)
}

func TestDecodeZones(t *testing.T) {
	zones, err := DecodeZones(strings.NewReader(`[
		{"id":"local","name":"Jaipur city","baseCharge":25,"minOrderForFree":400,"estimatedDays":"Same day","pincodes":"302001-302039"},
		{"id":"remote","name":"Elsewhere","baseCharge":120,"minOrderForFree":1500,"estimatedDays":"4-6 days","pincodes":"all"}
	]`))
	require.NoError(t, err)

	table, err := NewZoneTable(zones)
	require.NoError(t, err)
	z, err := table.Resolve("302017")
	require.NoError(t, err)
	assert.Equal(t, "Jaipur city", z.Name)

	_, err = DecodeZones(strings.NewReader(`[]`))
	assert.Error(t, err)
}

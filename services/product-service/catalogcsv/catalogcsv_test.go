package catalogcsv

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"trims", " a , b ", []string{"a", "b"}},
		{"quoted comma", `"Gulab Jamun, Fresh",250`, []string{"Gulab Jamun, Fresh", "250"}},
		{"escaped quote", `"Tastes ""great""",x`, []string{`Tastes "great"`, "x"}},
		{"empty trailing", "a,,", []string{"a", "", ""}},
		{"double wrapped", `"""Kaju Katli"""`, []string{"Kaju Katli"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLine(tc.line))
		})
	}
}

func TestParse_ZipsAndNumbersRows(t *testing.T) {
	in := "name,price,stock\r\n\r\nLadoo,120,5\n\nBarfi,300\n"
	rows, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Ladoo", rows[0].Get("name"))
	assert.Equal(t, "5", rows[0].Get("stock"))

	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "", rows[1].Get("stock"))
	assert.Equal(t, "", rows[1].Get("missing"))
}

func TestParse_StructuralErrors(t *testing.T) {
	for _, in := range []string{"", "\n\n", "name,price\n"} {
		_, err := Parse(strings.NewReader(in))
		assert.True(t, errors.Is(err, ErrNoDataRows), "input %q", in)
	}
}

func TestFormatRecord(t *testing.T) {
	line := FormatRecord(models.ProductRecord{
		Name:          "Rasgulla",
		Description:   `Soft, "spongy"`,
		Price:         180.5,
		Category:      "Bengali",
		Stock:         12,
		Featured:      true,
		DefaultWeight: "1kg",
	})
	assert.Equal(t, `"Rasgulla","Soft, ""spongy""",180.5,Bengali,,12,true,1kg,,`, line)
}

func TestRoundTrip_PreservesCommasAndQuotes(t *testing.T) {
	src := []models.ProductRecord{{
		Name:          "Gulab Jamun, Fresh",
		Description:   `Tastes "great"`,
		Price:         250,
		Category:      "Syrup, Classic",
		Image:         "https://cdn.example.com/gj.jpg",
		Stock:         40,
		Featured:      true,
		DefaultWeight: "500g",
		ShelfLife:     "5 days",
		DeliveryTime:  "1-2 days",
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, src))

	rows, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, src[0].Name, got.Get("name"))
	assert.Equal(t, src[0].Description, got.Get("description"))
	assert.Equal(t, "250", got.Get("price"))
	assert.Equal(t, src[0].Category, got.Get("category"))
	assert.Equal(t, src[0].Image, got.Get("image"))
	assert.Equal(t, "40", got.Get("stock"))
	assert.Equal(t, "true", got.Get("featured"))
	assert.Equal(t, "500g", got.Get("defaultWeight"))
	assert.Equal(t, "5 days", got.Get("shelfLife"))
	assert.Equal(t, "1-2 days", got.Get("deliveryTime"))
}

// A value that is itself wrapped in quotes loses that outer pair on import:
// the scan yields `"great"` and clean unwraps it. Only a value quoted at both
// ends is affected; an escaped quote at one end survives.
func TestRoundTrip_FullyQuotedValueIsUnwrapped(t *testing.T) {
	src := []models.ProductRecord{
		{Name: `"Special" Peda`, Description: `"great"`, Price: 120},
		{Name: `Kesar "Peda"`, Description: `Made with "A2" milk`, Price: 140},
	}

	line := FormatRecord(src[0])
	assert.True(t, strings.HasPrefix(line, `"""Special"" Peda","""great""",`), line)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, src))
	rows, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, `"Special" Peda`, rows[0].Get("name"))
	assert.Equal(t, "great", rows[0].Get("description"))
	assert.Equal(t, `Kesar "Peda"`, rows[1].Get("name"))
	assert.Equal(t, `Made with "A2" milk`, rows[1].Get("description"))
}

func TestXLSXRoundTrip(t *testing.T) {
	src := []models.ProductRecord{
		{Name: "Gulab Jamun, Fresh", Description: `Tastes "great"`, Price: 250, Stock: 3, DefaultWeight: "500g"},
		{Name: "Soan Papdi", Price: 99.5, Category: "Dry"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, src))

	data := buf.Bytes()
	rows, err := ParseXLSX(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Gulab Jamun, Fresh", rows[0].Get("name"))
	assert.Equal(t, `Tastes "great"`, rows[0].Get("description"))
	price, err := strconv.ParseFloat(rows[1].Get("price"), 64)
	require.NoError(t, err)
	assert.InDelta(t, 99.5, price, 0.001)
	assert.Equal(t, "Dry", rows[1].Get("category"))
	assert.Equal(t, 3, rows[1].Line)
}

func TestFromRecords_DropsBlankRecords(t *testing.T) {
	rows, err := FromRecords([][]string{
		{"name", "price"},
		{"", " "},
		{"Peda", "200"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Peda", rows[0].Get("name"))
	assert.Equal(t, 2, rows[0].Line)

	_, err = FromRecords([][]string{{"name"}})
	assert.ErrorIs(t, err, ErrNoDataRows)
}

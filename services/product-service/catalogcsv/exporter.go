package catalogcsv

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

// Columns is the fixed feed column order.
var Columns = []string{
	"name", "description", "price", "category", "image",
	"stock", "featured", "defaultWeight", "shelfLife", "deliveryTime",
}

// Write emits the header and one line per product.
func Write(w io.Writer, products []models.ProductRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Columns, ",") + "\n"); err != nil {
		return err
	}
	for _, p := range products {
		if _, err := bw.WriteString(FormatRecord(p) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatRecord renders one product line. name and description are always
// quoted; the remaining text fields are quoted only when they need it.
func FormatRecord(p models.ProductRecord) string {
	return strings.Join(Values(p, true), ",")
}

// Values returns the product's fields in column order. With quote set, text is
// escaped for the delimited feed.
func Values(p models.ProductRecord, quote bool) []string {
	vals := []string{
		p.Name,
		p.Description,
		FormatPrice(p.Price),
		p.Category,
		p.Image,
		strconv.Itoa(p.Stock),
		strconv.FormatBool(p.Featured),
		p.DefaultWeight,
		p.ShelfLife,
		p.DeliveryTime,
	}
	if !quote {
		return vals
	}
	vals[0] = quoteField(vals[0])
	vals[1] = quoteField(vals[1])
	for _, i := range []int{3, 4, 7, 8, 9} {
		if strings.ContainsAny(vals[i], `,"`) {
			vals[i] = quoteField(vals[i])
		}
	}
	return vals
}

// FormatPrice prints the shortest exact decimal, 250 not 250.000000.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quoteField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

package components

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type assetFormat struct {
	precision int32
	symbol    string
}

// assetFormats lists the assets whose smallest unit is known
var assetFormats = map[string]assetFormat{
	"NGN":  {precision: 2, symbol: "₦"},
	"USD":  {precision: 2, symbol: "$"},
	"EUR":  {precision: 2, symbol: "€"},
	"GBP":  {precision: 2, symbol: "£"},
	"KES":  {precision: 2, symbol: "KSh"},
	"GHS":  {precision: 2, symbol: "GH₵"},
	"USDC": {precision: 6},
	"USDT": {precision: 6},
}

// FormatAmount renders a smallest-unit amount for display, e.g. 150000 NGN as "₦1,500.00".
// The sign is dropped since titles already say which way the money moved.
// Unknown assets fall back to the raw integer.
func FormatAmount(amount int64, asset string) string {
	if amount < 0 {
		amount = -amount
	}

	format, ok := assetFormats[strings.ToUpper(asset)]
	if !ok {
		return strconv.FormatInt(amount, 10)
	}

	fixed := decimal.New(amount, -format.precision).StringFixed(format.precision)
	whole, frac, _ := strings.Cut(fixed, ".")
	display := groupThousands(whole)
	if frac != "" {
		display += "." + frac
	}

	if format.symbol == "" {
		return display + " " + strings.ToUpper(asset)
	}
	return format.symbol + display
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

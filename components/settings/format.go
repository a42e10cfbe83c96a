package settings

import (
	"math"
	"strconv"
	"strings"
)

var (
	persianDigits = strings.NewReplacer(
		"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
		"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
	)
	latinDigits = strings.NewReplacer(
		"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
		"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
		"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
		"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	)
)

// PersianDigits replaces ASCII digits with Persian ones.
func PersianDigits(s string) string { return persianDigits.Replace(s) }

// LatinDigits replaces Persian and Arabic-Indic digits with ASCII ones.
func LatinDigits(s string) string { return latinDigits.Replace(s) }

// CurrencyFormat controls how prices are rendered.
type CurrencyFormat struct {
	Code              string `json:"code"`
	Symbol            string `json:"symbol"`
	Position          string `json:"position"`
	ThousandsSep      string `json:"thousands_separator"`
	DecimalSep        string `json:"decimal_separator"`
	DecimalPlaces     int    `json:"decimal_places"`
	UsePersianNumbers bool   `json:"use_persian_numbers"`
}

// CurrencyFormatFrom reads the currency section of an ecommerce snapshot.
func CurrencyFormatFrom(domain Domain) CurrencyFormat {
	section := domain.Sections["currency"]
	format := CurrencyFormat{
		Code:         stringValue(section["code"]),
		Symbol:       stringValue(section["symbol"]),
		Position:     stringValue(section["position"]),
		ThousandsSep: stringValue(section["thousands_separator"]),
		DecimalSep:   stringValue(section["decimal_separator"]),
	}
	if places, ok := section["decimal_places"].(float64); ok && places > 0 {
		format.DecimalPlaces = int(places)
	}
	if format.DecimalSep == "" {
		format.DecimalSep = "."
	}
	return format
}

// FormatPrice renders amount with separators and the currency symbol placed
// before or after the number.
func (f CurrencyFormat) FormatPrice(amount float64) string {
	number := f.FormatNumber(amount)
	if f.Symbol == "" {
		return number
	}
	if f.Position == "before" {
		return f.Symbol + " " + number
	}
	return number + " " + f.Symbol
}

// FormatNumber renders amount without a currency symbol.
func (f CurrencyFormat) FormatNumber(amount float64) string {
	places := f.DecimalPlaces
	if places < 0 {
		places = 0
	}
	raw := strconv.FormatFloat(math.Abs(amount), 'f', places, 64)
	whole, fraction, _ := strings.Cut(raw, ".")
	var b strings.Builder
	if amount < 0 && strings.Trim(raw, "0.") != "" {
		b.WriteString("-")
	}
	b.WriteString(groupThousands(whole, f.ThousandsSep))
	if fraction != "" {
		b.WriteString(f.DecimalSep)
		b.WriteString(fraction)
	}
	out := b.String()
	if f.UsePersianNumbers {
		out = PersianDigits(out)
	}
	return out
}

func groupThousands(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyFormatFormatPrice(t *testing.T) {
	cases := []struct {
		name   string
		format CurrencyFormat
		amount float64
		want   string
	}{
		{"rial after", CurrencyFormat{Symbol: "ریال", Position: "after", ThousandsSep: ","}, 1250000, "1,250,000 ریال"},
		{"toman before", CurrencyFormat{Symbol: "تومان", Position: "before", ThousandsSep: "٬"}, 98000, "تومان 98٬000"},
		{"persian digits", CurrencyFormat{Symbol: "تومان", ThousandsSep: ",", UsePersianNumbers: true}, 1500, "۱,۵۰۰ تومان"},
		{"decimals", CurrencyFormat{ThousandsSep: ",", DecimalSep: "/", DecimalPlaces: 2}, -1234.5, "-1,234/50"},
		{"small", CurrencyFormat{ThousandsSep: ","}, 999, "999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.format.FormatPrice(tc.amount))
		})
	}
}

func TestCurrencyFormatFromDefaults(t *testing.T) {
	schema, _ := DefaultSchema(DomainEcommerce)
	format := CurrencyFormatFrom(schema.Defaults())

	assert.Equal(t, "IRR", format.Code)
	assert.Equal(t, "ریال", format.Symbol)
	assert.Equal(t, 0, format.DecimalPlaces)
	assert.Equal(t, "50,000 ریال", format.FormatPrice(50000))
}

func TestDigitConversion(t *testing.T) {
	assert.Equal(t, "۰۲۱-۸۸۱۲", PersianDigits("021-8812"))
	assert.Equal(t, "09123456789", LatinDigits("۰۹۱۲۳۴۵۶۷۸۹"))
	assert.Equal(t, "42", LatinDigits("٤٢"))
}

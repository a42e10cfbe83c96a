package settings

var (
	// CurrencyCodePath holds the shop currency code.
	CurrencyCodePath = Path(DomainEcommerce, "currency", "code")
	// CurrencySymbolPath holds the symbol shown next to prices.
	CurrencySymbolPath = Path(DomainEcommerce, "currency", "symbol")
)

// CurrencySymbols maps supported currency codes to their display symbol.
var CurrencySymbols = map[string]string{
	"IRR": "ریال",
	"IRT": "تومان",
}

// DerivedRule expands a write into the extra writes that must land with it.
type DerivedRule interface {
	Derive(update Update) []Update
}

// DerivedRuleFunc adapts a function into a DerivedRule.
type DerivedRuleFunc func(update Update) []Update

// Derive calls f.
func (f DerivedRuleFunc) Derive(update Update) []Update { return f(update) }

// CurrencySymbolRule writes the matching symbol whenever the currency code
// changes. Codes missing from symbols only update the code.
func CurrencySymbolRule(symbols map[string]string) DerivedRule {
	if symbols == nil {
		symbols = CurrencySymbols
	}
	return DerivedRuleFunc(func(update Update) []Update {
		if update.Path != CurrencyCodePath {
			return nil
		}
		code, ok := update.Value.(string)
		if !ok {
			return nil
		}
		symbol, ok := symbols[code]
		if !ok {
			return nil
		}
		return []Update{{Path: CurrencySymbolPath, Value: symbol}}
	})
}

// DefaultDerivedRules returns the rules applied when none are configured.
func DefaultDerivedRules() []DerivedRule {
	return []DerivedRule{CurrencySymbolRule(nil)}
}

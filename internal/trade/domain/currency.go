package domain

import "strings"

// Currency ISO 货币代码，仅支持 G20 货币的封闭集合
type Currency string

const (
	CurrencyARS Currency = "ARS" // Argentine Peso
	CurrencyAUD Currency = "AUD" // Australian Dollar
	CurrencyBRL Currency = "BRL" // Brazilian Real
	CurrencyCAD Currency = "CAD" // Canadian Dollar
	CurrencyCNY Currency = "CNY" // Chinese Yuan
	CurrencyEUR Currency = "EUR" // Euro
	CurrencyINR Currency = "INR" // Indian Rupee
	CurrencyIDR Currency = "IDR" // Indonesian Rupiah
	CurrencyJPY Currency = "JPY" // Japanese Yen
	CurrencyKRW Currency = "KRW" // South Korean Won
	CurrencyMXN Currency = "MXN" // Mexican Peso
	CurrencyRUB Currency = "RUB" // Russian Ruble
	CurrencySAR Currency = "SAR" // Saudi Riyal
	CurrencyZAR Currency = "ZAR" // South African Rand
	CurrencyTRY Currency = "TRY" // Turkish Lira
	CurrencyGBP Currency = "GBP" // British Pound Sterling
	CurrencyUSD Currency = "USD" // US Dollar
)

var currencyNames = map[Currency]string{
	CurrencyARS: "Argentine Peso",
	CurrencyAUD: "Australian Dollar",
	CurrencyBRL: "Brazilian Real",
	CurrencyCAD: "Canadian Dollar",
	CurrencyCNY: "Chinese Yuan",
	CurrencyEUR: "Euro",
	CurrencyINR: "Indian Rupee",
	CurrencyIDR: "Indonesian Rupiah",
	CurrencyJPY: "Japanese Yen",
	CurrencyKRW: "South Korean Won",
	CurrencyMXN: "Mexican Peso",
	CurrencyRUB: "Russian Ruble",
	CurrencySAR: "Saudi Riyal",
	CurrencyZAR: "South African Rand",
	CurrencyTRY: "Turkish Lira",
	CurrencyGBP: "British Pound Sterling",
	CurrencyUSD: "US Dollar",
}

var currencyNumericCodes = map[Currency]uint16{
	CurrencyARS: 32,
	CurrencyAUD: 36,
	CurrencyBRL: 986,
	CurrencyCAD: 124,
	CurrencyCNY: 156,
	CurrencyEUR: 978,
	CurrencyINR: 356,
	CurrencyIDR: 360,
	CurrencyJPY: 392,
	CurrencyKRW: 410,
	CurrencyMXN: 484,
	CurrencyRUB: 643,
	CurrencySAR: 682,
	CurrencyZAR: 710,
	CurrencyTRY: 949,
	CurrencyGBP: 826,
	CurrencyUSD: 840,
}

// ParseCurrency 解析货币代码，忽略大小写；不在集合内时 ok 为 false
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := currencyNames[c]
	return c, ok
}

// IsValid 判断货币是否属于支持的集合
func (c Currency) IsValid() bool {
	_, ok := currencyNames[c]
	return ok
}

// Name 返回货币的英文名称
func (c Currency) Name() string {
	return currencyNames[c]
}

// NumericCode 返回 ISO 4217 数字代码
func (c Currency) NumericCode() uint16 {
	return currencyNumericCodes[c]
}

// String 实现 fmt.Stringer
func (c Currency) String() string {
	return string(c)
}

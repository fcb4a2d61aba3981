package model

import "regexp"

// RoutingRule describes the local bank routing code expected for transfers
// into one destination country. Countries without an entry skip the routing
// code field entirely; countries with Required=false validate the pattern
// only when a code was supplied.
type RoutingRule struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
	Pattern     string `json:"-"`

	re *regexp.Regexp
}

// routingRules is keyed by ISO 3166-1 alpha-2 country code.
var routingRules = map[string]RoutingRule{
	"US": {Label: "ABA Routing Number", Placeholder: "021000021", Required: true, Pattern: `^\d{9}$`},
	"GB": {Label: "Sort Code", Placeholder: "40-47-84", Required: true, Pattern: `^\d{2}-?\d{2}-?\d{2}$`},
	"DE": {Label: "Bankleitzahl (BLZ)", Placeholder: "37040044", Required: false, Pattern: `^\d{8}$`},
	"FR": {Label: "Code Banque", Placeholder: "30004", Required: false, Pattern: `^\d{5}$`},
	"ES": {Label: "Código de Entidad", Placeholder: "2100", Required: false, Pattern: `^\d{4}$`},
	"IT": {Label: "ABI/CAB", Placeholder: "0306005034", Required: false, Pattern: `^\d{10}$`},
	"NL": {Label: "Bank Code", Placeholder: "INGB", Required: false, Pattern: `^[A-Z]{4}$`},
	"BE": {Label: "Bank Code", Placeholder: "001", Required: false, Pattern: `^\d{3}$`},
	"CH": {Label: "Clearing Number", Placeholder: "4835", Required: false, Pattern: `^\d{3,5}$`},
	"AT": {Label: "Bankleitzahl", Placeholder: "20111", Required: false, Pattern: `^\d{5}$`},
	"PT": {Label: "NIB Bank Code", Placeholder: "0033", Required: false, Pattern: `^\d{4}$`},
	"IE": {Label: "Sort Code", Placeholder: "931021", Required: true, Pattern: `^\d{6}$`},
	"SE": {Label: "Clearing Number", Placeholder: "8327", Required: true, Pattern: `^\d{4,5}$`},
	"NO": {Label: "Bank Code", Placeholder: "8601", Required: false, Pattern: `^\d{4}$`},
	"DK": {Label: "Registreringsnummer", Placeholder: "0040", Required: true, Pattern: `^\d{4}$`},
	"FI": {Label: "Bank Code", Placeholder: "123456", Required: false, Pattern: `^\d{6}$`},
	"PL": {Label: "Bank Sort Code", Placeholder: "10201055", Required: true, Pattern: `^\d{8}$`},
	"CZ": {Label: "Bank Code", Placeholder: "0800", Required: true, Pattern: `^\d{4}$`},
	"CA": {Label: "Transit Number", Placeholder: "000312345", Required: true, Pattern: `^\d{9}$`},
	"MX": {Label: "CLABE Bank Code", Placeholder: "002", Required: true, Pattern: `^\d{3}$`},
	"BR": {Label: "Código do Banco", Placeholder: "341", Required: true, Pattern: `^\d{3}$`},
	"AR": {Label: "CBU Bank Code", Placeholder: "0170", Required: true, Pattern: `^\d{4}$`},
	"CL": {Label: "Código de Banco", Placeholder: "012", Required: false, Pattern: `^\d{3}$`},
	"CO": {Label: "Código de Banco", Placeholder: "007", Required: false, Pattern: `^\d{3}$`},
	"AU": {Label: "BSB Number", Placeholder: "062-000", Required: true, Pattern: `^\d{3}-?\d{3}$`},
	"NZ": {Label: "Bank/Branch Code", Placeholder: "020100", Required: true, Pattern: `^\d{6}$`},
	"IN": {Label: "IFSC Code", Placeholder: "SBIN0005943", Required: true, Pattern: `^[A-Z]{4}0[A-Z0-9]{6}$`},
	"PK": {Label: "Branch Code", Placeholder: "0123", Required: false, Pattern: `^\d{4}$`},
	"BD": {Label: "Routing Number", Placeholder: "125273740", Required: true, Pattern: `^\d{9}$`},
	"LK": {Label: "Branch Code", Placeholder: "7010", Required: false, Pattern: `^\d{4}$`},
	"CN": {Label: "CNAPS Code", Placeholder: "102100099996", Required: true, Pattern: `^\d{12}$`},
	"JP": {Label: "Zengin Code", Placeholder: "0001234", Required: true, Pattern: `^\d{7}$`},
	"KR": {Label: "Bank Code", Placeholder: "004", Required: true, Pattern: `^\d{3}$`},
	"SG": {Label: "Bank/Branch Code", Placeholder: "7171001", Required: true, Pattern: `^\d{7}$`},
	"HK": {Label: "Bank Code", Placeholder: "004", Required: true, Pattern: `^\d{3}$`},
	"MY": {Label: "Bank Code", Placeholder: "MBBEMYKL", Required: false, Pattern: `^[A-Z]{8}$`},
	"TH": {Label: "Bank Code", Placeholder: "002", Required: false, Pattern: `^\d{3}$`},
	"PH": {Label: "BRSTN Code", Placeholder: "010040018", Required: true, Pattern: `^\d{9}$`},
	"ID": {Label: "Bank Code", Placeholder: "014", Required: true, Pattern: `^\d{3}$`},
	"VN": {Label: "Bank Code", Placeholder: "79307001", Required: false, Pattern: `^\d{8}$`},
	"ZA": {Label: "Branch Code", Placeholder: "051001", Required: true, Pattern: `^\d{6}$`},
	"NG": {Label: "NUBAN Bank Code", Placeholder: "058", Required: true, Pattern: `^\d{3}$`},
	"KE": {Label: "Bank/Branch Code", Placeholder: "01100", Required: false, Pattern: `^\d{5}$`},
	"GH": {Label: "Bank Code", Placeholder: "300302", Required: false, Pattern: `^\d{6}$`},
	"EG": {Label: "Bank Code", Placeholder: "0057", Required: false, Pattern: `^\d{4}$`},
	"AE": {Label: "Routing Code", Placeholder: "302620122", Required: true, Pattern: `^\d{9}$`},
	"SA": {Label: "Bank Code", Placeholder: "10", Required: false, Pattern: `^\d{2}$`},
	"TR": {Label: "Bank Code", Placeholder: "00062", Required: false, Pattern: `^\d{5}$`},
	"IL": {Label: "Bank/Branch Code", Placeholder: "10800", Required: false, Pattern: `^\d{5}$`},
}

var compiledRoutingRules = func() map[string]RoutingRule {
	rules := make(map[string]RoutingRule, len(routingRules))
	for cc, rule := range routingRules {
		rule.re = regexp.MustCompile(rule.Pattern)
		rules[cc] = rule
	}
	return rules
}()

// RoutingRuleFor returns the routing rule for a destination country, if the
// country expects a routing code at all.
func RoutingRuleFor(countryCode string) (RoutingRule, bool) {
	rule, ok := compiledRoutingRules[countryCode]
	return rule, ok
}

// RoutingCountries lists all countries with a routing rule, for the transfer
// form to render labels and placeholders.
func RoutingCountries() map[string]RoutingRule {
	return compiledRoutingRules
}

// CheckRoutingCode validates a supplied routing code against the destination
// country's rule. Countries absent from the table accept anything, the field
// is not part of their transfer form.
func CheckRoutingCode(countryCode, code string) bool {
	rule, ok := compiledRoutingRules[countryCode]
	if !ok {
		return true
	}
	if code == "" {
		return !rule.Required
	}
	return rule.re.MatchString(code)
}

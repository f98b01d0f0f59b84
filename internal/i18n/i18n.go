// Package i18n localizes donor-facing messages and amounts. French is the
// primary language of the site; English is the only other supported locale.
package i18n

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	French  = "fr"
	English = "en"
)

var (
	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
)

// Match picks the supported locale that best fits an Accept-Language style
// header. It returns "" when nothing in the header matches.
func Match(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return base(supported[idx])
}

// Normalize maps any locale string onto a supported locale, falling back to
// French.
func Normalize(locale string) string {
	if m := Match(strings.TrimSpace(locale)); m != "" {
		return m
	}
	return French
}

func base(tag language.Tag) string {
	b, _ := tag.Base()
	return b.String()
}

func tagFor(locale string) language.Tag {
	if Normalize(locale) == English {
		return language.English
	}
	return language.French
}

// FormatAmount renders an amount with locale grouping and the currency
// label, e.g. "1 000 FCFA" in French or "1,000 FCFA" in English.
func FormatAmount(locale string, amount decimal.Decimal, currency string) string {
	p := message.NewPrinter(tagFor(locale))
	f, _ := amount.Float64()
	formatted := p.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
	if currency == "" {
		return formatted
	}
	return formatted + " " + currency
}

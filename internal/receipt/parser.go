package receipt

import (
	"regexp"
	"strings"
	"time"
)

// pattern is one way a receipt may render a field. The value is captured
// by the named group "value".
type pattern struct {
	Name string
	re   *regexp.Regexp
}

func newPattern(name, expr string) pattern {
	return pattern{Name: name, re: regexp.MustCompile(expr)}
}

func (p pattern) find(text string) string {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	return m[p.re.SubexpIndex("value")]
}

// Pattern lists are tried in order and the first non-empty match wins.
// Receipts render the amount differently for deposits and transfer-originated payments.
var (
	amountPatterns = []pattern{
		newPattern("currency-prefixed", `ETB(?P<value>[\d,]+\.\d+)`),
		newPattern("amount", `Amount (?P<value>[\d,]+\.\d+) ETB`),
		newPattern("transferred-amount", `Transferred Amount (?P<value>[\d,]+\.\d+) ETB`),
	}

	payerSuffixPatterns = []pattern{
		newPattern("payer-account", `Payer [A-Z ]+\nAccount (?P<value>1\*{4}\d{4})\n`),
	}

	receiverNamePatterns = []pattern{
		newPattern("receiver", `Receiver (?P<value>[A-Z ]+)\n`),
	}

	receiverSuffixPatterns = []pattern{
		newPattern("receiver-account", `Receiver [A-Z ]+\nAccount (?P<value>1\*{4}\d{4})\n`),
	}

	referencePatterns = []pattern{
		newPattern("reference", `Reference No\. (?P<value>FT\w{10})\n`),
		newPattern("reference-annotated", `Reference No\.[^\n]*?(?P<value>FT\w{10})`),
	}

	paymentDatePatterns = []pattern{
		newPattern("payment-date", `Payment Date (?P<value>[A-Za-z0-9 ,/:-]+)\n`),
	}
)

// dateLayouts are the renderings of the payment date seen on receipts, most specific first.
var dateLayouts = []string{
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006, 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Parser extracts receipt fields from flat receipt text.
type Parser struct {
	loc *time.Location
}

// NewParser returns a parser that interprets zone-less payment dates in loc.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}

	return &Parser{loc: loc}
}

// Parse never fails: fields that cannot be found are left empty and are rejected by the Validator.
func (p *Parser) Parse(text string) Receipt {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	var rec Receipt

	if raw := firstMatch(text, amountPatterns); raw != "" {
		if amount, err := parseAmount(raw); err == nil {
			rec.Amount.Decimal = amount
			rec.Amount.Valid = true
		}
	}

	rec.PayerSuffix = lastFour(firstMatch(text, payerSuffixPatterns))
	rec.ReceiverName = strings.TrimSpace(firstMatch(text, receiverNamePatterns))
	rec.ReceiverSuffix = lastFour(firstMatch(text, receiverSuffixPatterns))
	rec.Reference = strings.TrimSpace(firstMatch(text, referencePatterns))

	rec.RawPaymentDate = strings.TrimSpace(firstMatch(text, paymentDatePatterns))
	rec.PaymentDate = p.parseDate(rec.RawPaymentDate)

	return rec
}

func (p *Parser) parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t
		}
	}

	return time.Time{}
}

func firstMatch(text string, patterns []pattern) string {
	for _, p := range patterns {
		if v := p.find(text); v != "" {
			return v
		}
	}

	return ""
}

// lastFour reduces a masked account such as "1****6981" to "6981".
func lastFour(masked string) string {
	if len(masked) < 4 {
		return ""
	}

	return masked[len(masked)-4:]
}

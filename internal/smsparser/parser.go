// Package smsparser converts raw bank SMS text into structured transactions.
//
// The parser is a pure function over its inputs: it performs no I/O, keeps no
// mutable state, and is safe for concurrent use. Messages that match no
// pattern produce a no-match result rather than an error — heterogeneous and
// evolving bank formats make failed parses an expected, frequent outcome that
// callers route to manual classification.
package smsparser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"paisabook/internal/models"
)

// Direction indicates whether a parsed transaction moves money out of or into
// the account. Amounts are always positive; Direction encodes the sign.
type Direction string

const (
	DirectionExpense Direction = "expense"
	DirectionIncome  Direction = "income"
)

// SourceInfo retains the raw inputs and match details for audit and
// debugging. It is never processed further by the parser.
type SourceInfo struct {
	Text        string
	PhoneNumber string
	Rule        string
	ParsedAt    time.Time
}

// ParsedTransaction is the immutable result of a successful parse. Either
// every required field is populated or Parse returns no result at all.
type ParsedTransaction struct {
	Amount       int64 // minor units (paise), always > 0
	Direction    Direction
	Merchant     string
	Description  string
	AccountRef   string // masked account digits as captured, "" when absent
	BalanceAfter *int64 // paise, nil when the message carries no balance
	OccurredAt   time.Time
	CategoryID   int
	Source       SourceInfo
}

const defaultUSDINRRate = 88.0

// Parser matches bank SMS text against per-institution pattern tables with a
// generic keyword fallback. The zero-configuration parser from New is ready
// for concurrent use.
type Parser struct {
	usdINRRate float64
	now        func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithUSDINRRate overrides the approximate USD to INR conversion rate applied
// when a message carries an explicit USD amount. The rate is a best-effort
// heuristic, not an FX feed.
func WithUSDINRRate(rate float64) Option {
	return func(p *Parser) {
		if rate > 0 {
			p.usdINRRate = rate
		}
	}
}

// WithClock overrides the time source used for default dates and parse
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		usdINRRate: defaultUSDINRRate,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// extraction carries the fields pulled out by a matched rule before
// post-processing fills the gaps.
type extraction struct {
	amount    int64
	direction Direction
	payee     string
	account   string
	dateStr   string
	timeStr   string
	rule      string
}

// Parse converts an SMS body and sender phone number into a transaction.
// The phone number is audit metadata only and never influences matching.
// The boolean is false for the ordinary could-not-parse case; Parse never
// panics on malformed input.
func (p *Parser) Parse(smsText, phoneNumber string) (*ParsedTransaction, bool) {
	if strings.TrimSpace(smsText) == "" {
		return nil, false
	}

	parsedAt := p.now()

	ext, ok := p.matchInstitutions(smsText)
	if !ok {
		ext, ok = p.matchGeneric(smsText)
	}
	if !ok {
		return nil, false
	}

	merchant := cleanPayee(ext.payee)
	if merchant == "" {
		merchant = "Unknown"
	}

	account := ext.account
	if account == "" {
		account = extractAccountRef(smsText)
	}

	description := buildDescription(ext.direction, merchant)

	return &ParsedTransaction{
		Amount:       ext.amount,
		Direction:    ext.direction,
		Merchant:     merchant,
		Description:  description,
		AccountRef:   account,
		BalanceAfter: extractBalance(smsText),
		OccurredAt:   parseOccurredAt(ext.dateStr, ext.timeStr, parsedAt),
		CategoryID:   classifyCategory(merchant, description),
		Source: SourceInfo{
			Text:        smsText,
			PhoneNumber: phoneNumber,
			Rule:        ext.rule,
			ParsedAt:    parsedAt,
		},
	}, true
}

// matchInstitutions tries each institution table in priority order and each
// rule in registration order; the first rule that matches and yields a valid
// amount wins. A rule whose amount capture is malformed is skipped so later
// rules and the generic fallback still get a chance.
func (p *Parser) matchInstitutions(text string) (extraction, bool) {
	for _, inst := range institutions {
		for _, r := range inst.rules {
			m := r.pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}

			amount, ok := parseAmountPaise(group(m, r.fields.amount))
			if !ok {
				continue
			}
			if strings.EqualFold(group(m, r.fields.currency), "USD") {
				amount = p.convertUSD(amount)
			}

			return extraction{
				amount:    amount,
				direction: r.direction,
				payee:     group(m, r.fields.payee),
				account:   group(m, r.fields.account),
				dateStr:   group(m, r.fields.date),
				timeStr:   group(m, r.fields.time),
				rule:      inst.name + "." + r.name,
			}, true
		}
	}
	return extraction{}, false
}

// Generic fallback keyword sets. Debit keywords are checked first: messages
// mentioning both (e.g. "paid ... credited to beneficiary") describe a debit
// from the user's side.
var (
	debitKeywords  = []string{"debited", "spent", "sent", "paid", "withdrawn", "deducted", "purchase"}
	creditKeywords = []string{"credited", "deposited", "received", "refund", "reversed"}

	genericAmountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`₹\s*([\d,]+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`(?i)(?:amount|amt)\s*(?:of\s*)?[:\-]?\s*([\d,]+(?:\.\d{1,2})?)`),
	}
	genericUSDPattern = regexp.MustCompile(`(?i)(?:usd|\$)\s*([\d,]+(?:\.\d{1,2})?)`)

	genericPayeePattern = regexp.MustCompile(`(?i)\b(?:to|at|towards)\s+([A-Za-z][A-Za-z0-9 .&'@_-]{1,40})`)
	genericPayerPattern = regexp.MustCompile(`(?i)\b(?:from|by)\s+([A-Za-z][A-Za-z0-9 .&'@_-]{1,40})`)
)

// matchGeneric is the loosely-anchored fallback: a debit or credit keyword
// co-occurring with a recognizable amount. Either half missing fails the
// parse.
func (p *Parser) matchGeneric(text string) (extraction, bool) {
	lower := strings.ToLower(text)

	direction := Direction("")
	for _, kw := range debitKeywords {
		if strings.Contains(lower, kw) {
			direction = DirectionExpense
			break
		}
	}
	if direction == "" {
		for _, kw := range creditKeywords {
			if strings.Contains(lower, kw) {
				direction = DirectionIncome
				break
			}
		}
	}
	if direction == "" {
		return extraction{}, false
	}

	amount, usd, ok := p.findGenericAmount(text)
	if !ok {
		return extraction{}, false
	}
	if usd {
		amount = p.convertUSD(amount)
	}

	payeePattern := genericPayeePattern
	if direction == DirectionIncome {
		payeePattern = genericPayerPattern
	}
	var payee string
	if m := payeePattern.FindStringSubmatch(text); m != nil {
		payee = m[1]
	}

	return extraction{
		amount:    amount,
		direction: direction,
		payee:     payee,
		rule:      "generic",
	}, true
}

func (p *Parser) findGenericAmount(text string) (int64, bool, bool) {
	for _, re := range genericAmountPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if amount, ok := parseAmountPaise(m[1]); ok {
				return amount, false, true
			}
		}
	}
	if m := genericUSDPattern.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmountPaise(m[1]); ok {
			return amount, true, true
		}
	}
	return 0, false, false
}

func (p *Parser) convertUSD(usdCents int64) int64 {
	return int64(math.Round(float64(usdCents) * p.usdINRRate))
}

// group returns the capture at idx, or "" for unmapped (0) or unmatched
// optional groups.
func group(m []string, idx int) string {
	if idx <= 0 || idx >= len(m) {
		return ""
	}
	return strings.TrimSpace(m[idx])
}

// parseAmountPaise converts an amount capture like "2,40,315.16" to paise.
// Thousands separators (including Indian digit grouping) are stripped before
// parsing. Malformed or out-of-range values report false so the caller can
// try the next rule.
func parseAmountPaise(s string) (int64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if f <= 0 || f > 1e9 {
		return 0, false
	}
	return int64(f*100 + 0.5), true
}

var balancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)avl\.?\s*bal(?:ance)?\s*(?:is)?\s*[:\-]?\s*(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)available\s+balance\s*(?:is)?\s*[:\-]?\s*(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d{1,2})?)`),
}

// extractBalance finds the post-transaction available balance when the
// message carries one. Absence is normal and reported as nil.
func extractBalance(text string) *int64 {
	for _, re := range balancePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if paise, ok := parseAmountPaise(m[1]); ok {
				return &paise
			}
		}
	}
	return nil
}

var accountRefPattern = regexp.MustCompile(`(?i)(?:a/c|acct|account|card)(?:\s*(?:no\.?|number))?\s*[.:\-]?\s*(?:ending\s*)?[x*]{0,4}(\d{3,6})`)

// extractAccountRef is the fallback masked-account extractor used when the
// matched rule has no account capture.
func extractAccountRef(text string) string {
	if m := accountRefPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func buildDescription(d Direction, merchant string) string {
	if d == DirectionIncome {
		return "Received from " + merchant
	}
	return "Payment to " + merchant
}

// DirectionToTransactionType maps a parse direction onto the transaction
// model's type enumeration.
func DirectionToTransactionType(d Direction) models.TransactionType {
	if d == DirectionIncome {
		return models.TransactionTypeIncome
	}
	return models.TransactionTypeExpense
}

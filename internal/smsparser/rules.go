package smsparser

import "regexp"

// fieldIndex maps semantic fields to capture group positions in a rule's
// pattern. Zero means the rule does not capture that field.
type fieldIndex struct {
	amount   int
	account  int
	payee    int
	date     int
	time     int
	currency int
}

// rule is one message template: a compiled pattern plus the mapping from its
// capture groups to semantic fields. Direction is fixed per rule because each
// bank template is either a debit or a credit notification, never both.
type rule struct {
	name      string
	direction Direction
	pattern   *regexp.Regexp
	fields    fieldIndex
}

type institution struct {
	name  string
	rules []rule
}

// institutions is the priority-ordered rule registry. Tables are matched top
// to bottom and rules within a table in registration order; the first match
// with a valid amount wins. The tables are built once at init and never
// mutated, which keeps the parser safe for concurrent use.
var institutions = []institution{
	{name: "hdfc", rules: hdfcRules},
	{name: "axis", rules: axisRules},
	{name: "scapia", rules: scapiaRules},
}

// HDFC Bank templates. The multi-line UPI format separates clauses with
// newlines, so payee captures exclude \n and inter-clause gaps use \s+.
var hdfcRules = []rule{
	{
		name:      "upi_sent",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)sent\s+rs\.?\s*([\d,]+(?:\.\d{1,2})?)\s+from\s+hdfc\s+bank\s+a/c\s+[x*]*(\d{3,6})\s+to\s+([^\n]+?)\s+on\s+(\d{1,2}/\d{1,2}/\d{2})`),
		fields: fieldIndex{amount: 1, account: 2, payee: 3, date: 4},
	},
	{
		name:      "update_debit",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)update:\s*inr\s*([\d,]+(?:\.\d{1,2})?)\s+debited\s+from\s+hdfc\s+bank\s+[x*]{1,4}(\d{3,6})\s+on\s+(\d{1,2}-[a-z]{3}-\d{2})(?:\.\s*info:\s*([^.\n]+))?`),
		fields: fieldIndex{amount: 1, account: 2, date: 3, payee: 4},
	},
	{
		name:      "info_debit",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)rs\.?\s*([\d,]+(?:\.\d{1,2})?)\s+(?:is\s+)?debited\s+from\s+hdfc\s+bank\s+a/c\s+[x*]*(\d{3,6})\s+on\s+(\d{1,2}-\d{1,2}-\d{2})\.?\s*info:?\s*([^.\n]+)`),
		fields: fieldIndex{amount: 1, account: 2, date: 3, payee: 4},
	},
	{
		name:      "credit_deposit",
		direction: DirectionIncome,
		pattern: regexp.MustCompile(
			`(?i)(?:rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)\s+(?:is\s+)?(?:credited\s+to|deposited\s+in)\s+hdfc\s+bank\s+a/c\s+[x*]*(\d{3,6})\s+on\s+(\d{1,2}-\d{1,2}-\d{2})(?:\s+(?:by|for|from)\s+([^.(\n]+))?`),
		fields: fieldIndex{amount: 1, account: 2, date: 3, payee: 4},
	},
	{
		name:      "card_spent",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)spent\s+rs\.?\s*([\d,]+(?:\.\d{1,2})?)\s+on\s+hdfc\s+bank\s+card\s+[x*]*(\d{3,6})\s+at\s+([^\n]+?)\s+on\s+(\d{4}-\d{2}-\d{2}:\d{2}:\d{2}:\d{2})`),
		fields: fieldIndex{amount: 1, account: 2, payee: 3, date: 4},
	},
}

// Axis Bank templates. Card spends report the currency alongside the amount,
// so the spend rule captures the currency code for USD conversion. Account
// alerts end with an "- Axis Bank" signature which anchors the bank.
var axisRules = []rule{
	{
		name:      "card_spend",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)spent\s+card\s+no\.?\s+[x*]{1,4}(\d{3,6})\s+(inr|usd)\s*([\d,]+(?:\.\d{1,2})?)\s+(\d{1,2}-\d{1,2}-\d{2})\s+(\d{2}:\d{2}:\d{2})\s+([^\n]+?)(?:\s+avl\s+lmt|\s*$)`),
		fields: fieldIndex{account: 1, currency: 2, amount: 3, date: 4, time: 5, payee: 6},
	},
	{
		name:      "upi_debit",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)inr\s*([\d,]+(?:\.\d{1,2})?)\s+debited\s+a/c\s+no\.?\s+[x*]{1,4}(\d{3,6})\s+(\d{1,2}-\d{1,2}-\d{2}),?\s+(\d{2}:\d{2}:\d{2})\s+upi/p2[am]/\d+/([^\n]+?)(?:\s+avl|\s*$)`),
		fields: fieldIndex{amount: 1, account: 2, date: 3, time: 4, payee: 5},
	},
	{
		name:      "account_debit",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)inr\s*([\d,]+(?:\.\d{1,2})?)\s+debited\s+from\s+a/c\s+no\.?\s+[x*]{1,4}(\d{3,6})\s+on\s+(\d{1,2}-\d{1,2}-\d{2})\.?\s*info:?\s*([^.\n]+)[\s\S]*axis\s+bank`),
		fields: fieldIndex{amount: 1, account: 2, date: 3, payee: 4},
	},
	{
		name:      "payment_deducted",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)payment\s+of\s+inr\s*([\d,]+(?:\.\d{1,2})?)\s+deducted\s+from\s+a/c\s+(?:no\.?\s+)?[x*]{0,4}(\d{3,6})(?:\s+towards\s+([^.\n]+))?[\s\S]*axis\s+bank`),
		fields: fieldIndex{amount: 1, account: 2, payee: 3},
	},
	{
		name:      "credit",
		direction: DirectionIncome,
		pattern: regexp.MustCompile(
			`(?i)inr\s*([\d,]+(?:\.\d{1,2})?)\s+credited\s+to\s+a/c\s+no\.?\s+[x*]{1,4}(\d{3,6})\s+on\s+(\d{1,2}-\d{1,2}-\d{2})(?:\s+by\s+[^\n]*?from\s+([^.\n]+))?[\s\S]*axis\s+bank`),
		fields: fieldIndex{amount: 1, account: 2, date: 3, payee: 4},
	},
}

// Scapia credit card templates. Scapia alerts carry no account mask and no
// date, so those fields fall through to the message-wide extractors and the
// receive-time default. A reversed transaction is money back on the card,
// hence income.
var scapiaRules = []rule{
	{
		name:      "txn_success",
		direction: DirectionExpense,
		pattern: regexp.MustCompile(
			`(?i)your\s+txn\s+(?:of|for)\s+(?:₹|rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)\s+at\s+([^\n]+?)\s+on\s+your\s+scapia\s+federal[\s\S]*?was\s+successful`),
		fields: fieldIndex{amount: 1, payee: 2},
	},
	{
		name:      "txn_reversed",
		direction: DirectionIncome,
		pattern: regexp.MustCompile(
			`(?i)your\s+txn\s+(?:of|for)\s+(?:₹|rs\.?|inr)\s*([\d,]+(?:\.\d{1,2})?)\s+at\s+([^\n]+?)\s+on\s+your\s+scapia\s+federal[\s\S]*?reversed`),
		fields: fieldIndex{amount: 1, payee: 2},
	},
}

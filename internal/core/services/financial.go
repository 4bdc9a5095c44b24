package services

import (
	"regexp"
	"sort"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// FinancialPattern is one weighted signal of a money-related message.
// Each pattern contributes its weight at most once per message.
type FinancialPattern struct {
	Name   string
	Regexp *regexp.Regexp
	Weight int

	// Amount marks patterns whose matches are reported as amounts.
	Amount bool
}

// Weights of financial patterns.
const (
	keywordWeight = 1
	bonusWeight   = 5
)

// FinancialPatterns are matched against every message body.
var FinancialPatterns = []FinancialPattern{
	{Name: "currency symbol", Regexp: regexp.MustCompile(`[$€£₹¥₦]`), Weight: keywordWeight},
	{Name: "currency", Regexp: regexp.MustCompile(
		`(?i)\b(usd|eur|gbp|inr|ngn|dollars?|euros?|pounds?|rupees?|naira|bucks)\b`), Weight: keywordWeight},
	{Name: "payment", Regexp: regexp.MustCompile(`(?i)\bpay(s|ing|ment|ments|able)?\b`), Weight: keywordWeight},
	{Name: "paid", Regexp: regexp.MustCompile(`(?i)\b(paid|repaid)\b`), Weight: keywordWeight},
	{Name: "invoice", Regexp: regexp.MustCompile(`(?i)\b(invoices?|receipts?|bills?)\b`), Weight: keywordWeight},
	{Name: "owe", Regexp: regexp.MustCompile(`(?i)\bow(e|es|ed|ing)\b`), Weight: keywordWeight},
	{Name: "money", Regexp: regexp.MustCompile(`(?i)\b(money|cash|funds?)\b`), Weight: keywordWeight},
	{Name: "price", Regexp: regexp.MustCompile(`(?i)\b(price|prices|cost|costs|fees?|charges?)\b`), Weight: keywordWeight},
	{Name: "banking", Regexp: regexp.MustCompile(
		`(?i)\b(bank|deposit|loan|debt|refund|salary|budget|transfer|wire)\b`), Weight: keywordWeight},
	{Name: "upfront", Regexp: regexp.MustCompile(`(?i)\bup[- ]?front\b`), Weight: bonusWeight},
	{Name: "currency amount", Regexp: regexp.MustCompile(
		`[$€£₹¥₦]\s?(\d{1,3}(,\d{3})+|\d+)(\.\d+)?(\s?[kKmM]\b)?`), Weight: bonusWeight, Amount: true},
	{Name: "large amount", Regexp: regexp.MustCompile(
		`\b\d{1,3}(,\d{3})+(\.\d+)?\b|\b\d+(\.\d+)?\s?[kKmM]\b|\b[1-9]\d*000\b`), Weight: bonusWeight, Amount: true},
	{Name: "spelled-out amount", Regexp: regexp.MustCompile(
		`(?i)\b(hundred|thousand|million|billion|lakh|crore)s?\b`), Weight: bonusWeight},
}

// ScoreFinancial returns the weighted relevance of body, the names of the
// matched patterns and any amounts found. A zero score means no match.
func ScoreFinancial(body string) (score int, keywords, amounts []string) {
	seen := make(map[string]struct{})
	for _, p := range FinancialPatterns {
		matches := p.Regexp.FindAllString(body, -1)
		if len(matches) == 0 {
			continue
		}
		score += p.Weight
		keywords = append(keywords, p.Name)
		if !p.Amount {
			continue
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			amounts = append(amounts, m)
		}
	}
	return score, keywords, amounts
}

// rankFinancial scores every message and orders matches by score, then by
// most recent timestamp.
func rankFinancial(messages []domain.Message) []domain.FinancialMention {
	mentions := make([]domain.FinancialMention, 0)
	for i := range messages {
		score, keywords, amounts := ScoreFinancial(messages[i].Body)
		if score == 0 {
			continue
		}
		mentions = append(mentions, domain.FinancialMention{
			Message:  messages[i],
			Score:    score,
			Keywords: keywords,
			Amounts:  amounts,
		})
	}
	sort.SliceStable(mentions, func(i, j int) bool {
		if mentions[i].Score != mentions[j].Score {
			return mentions[i].Score > mentions[j].Score
		}
		return mentions[i].Message.Timestamp.After(mentions[j].Message.Timestamp)
	})
	return mentions
}

package advisor

import (
	"context"
	"math/rand/v2"
	"strings"
)

// generalAdvice answers queries that match no topic.
const generalAdvice = "Based on your overall financial profile, I recommend focusing on building an emergency fund of 3-6 months of expenses before making other financial decisions. This provides a safety net for unexpected costs and reduces the need to rely on high-interest debt in emergencies."

type topic struct {
	name     string
	keywords []string
	answers  []string
	// detail is appended when the query also contains one of detailKeywords.
	detail         string
	detailKeywords []string
}

// topics are matched in order; the first topic with a keyword in the query wins.
var topics = []topic{
	{
		name:     "savings",
		keywords: []string{"save", "saving"},
		answers: []string{
			"Consider automating your savings with a 50/30/20 rule: 50% for necessities, 30% for wants, and 20% for savings and debt repayment.",
			"High-yield savings accounts typically offer 10-25 times the interest of standard savings accounts. Consider moving your emergency fund there.",
			"Try to save at least 15% of your pre-tax income for retirement, including any employer match contributions.",
		},
		detail:         "Your current savings rate is approximately 8% of your income. Increasing this to 15% would allow you to reach your home down payment goal in 3.5 years instead of 6 years.",
		detailKeywords: []string{"how much", "goal"},
	},
	{
		name:     "investing",
		keywords: []string{"invest", "stock", "bond"},
		answers: []string{
			"For long-term goals, consider index funds which offer broad market exposure with low fees.",
			"Dollar-cost averaging, investing a fixed amount regularly regardless of market conditions, can help reduce the impact of market volatility.",
			"Consider diversifying your investments across different asset classes (stocks, bonds, real estate) to manage risk.",
		},
		detail:         "Your investment portfolio has a 75% allocation to large-cap US stocks. Increasing international exposure to 20-30% could potentially reduce volatility while maintaining similar returns.",
		detailKeywords: []string{"portfolio", "diversify"},
	},
	{
		name:     "debt",
		keywords: []string{"debt", "loan", "credit"},
		answers: []string{
			"Focus on paying off high-interest debt first, like credit cards, which can have rates of 15-25%.",
			"Consider consolidating multiple high-interest debts into a single lower-interest loan.",
			"Check if you qualify for income-driven repayment plans for student loans, which can cap payments at a percentage of your discretionary income.",
		},
		detail:         "With your credit card interest rates averaging 22%, prioritizing debt repayment would save you $1,240 in interest over the next year compared to your current minimum payment strategy.",
		detailKeywords: []string{"pay off", "interest"},
	},
	{
		name:     "budget",
		keywords: []string{"budget", "spend", "expense"},
		answers: []string{
			"Track all expenses for at least 30 days to identify spending patterns and opportunities to cut back.",
			"Use the envelope method for discretionary spending: allocate cash to different categories and stop spending when envelopes are empty.",
			"Review and cancel unused subscriptions. The average American spends over $200 monthly on subscription services.",
		},
		detail:         "Based on your recent transaction history, your restaurant spending is 35% higher than the average for your income bracket. Reducing eating out to twice per week could save approximately $320 monthly.",
		detailKeywords: []string{"track", "reduce"},
	},
	{
		name:     "retirement",
		keywords: []string{"retire", "401k", "ira"},
		answers: []string{
			"Max out tax-advantaged retirement accounts like 401(k)s and IRAs before investing in taxable accounts.",
			"The 4% rule suggests withdrawing 4% of your retirement savings in the first year, then adjusting for inflation in subsequent years.",
			"Consider a Roth conversion ladder strategy to access retirement funds before age 59½ without penalties.",
		},
	},
}

// CannedAdvisor answers from a fixed set of keyword topics.
type CannedAdvisor struct {
	pick func(n int) int
}

// NewCannedAdvisor returns a CannedAdvisor that picks a random answer per topic.
func NewCannedAdvisor() *CannedAdvisor {
	return &CannedAdvisor{pick: rand.IntN}
}

// GetAdvice implements Advisor. It never fails.
func (a *CannedAdvisor) GetAdvice(_ context.Context, query string) (string, error) {
	q := strings.ToLower(query)

	for _, t := range topics {
		if !containsAny(q, t.keywords) {
			continue
		}
		answer := t.answers[a.pick(len(t.answers))]
		if t.detail != "" && containsAny(q, t.detailKeywords) {
			answer += "\n\n" + t.detail
		}
		return answer, nil
	}
	return generalAdvice, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

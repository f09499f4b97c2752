package plans

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// InvestmentPlan is a static catalog entry. The catalog is defined at
// process start and never mutated.
type InvestmentPlan struct {
	ID            string
	Name          string
	ReturnLabel   string // e.g. "10% Daily" — rate is the first integer in the label
	MinInvestment int
	MaxInvestment int
	CapitalBack   bool
	ReturnType    string
	Periods       int
	WithdrawType  string
	IsHot         bool
}

var firstIntRe = regexp.MustCompile(`\d+`)

// Percentage extracts the rate from ReturnLabel: the first contiguous run
// of digits, or 0 when the label carries none.
func (p InvestmentPlan) Percentage() float64 {
	m := firstIntRe.FindString(p.ReturnLabel)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// InRange reports whether amount is an allowed principal for the plan.
func (p InvestmentPlan) InRange(amount float64) bool {
	return amount >= float64(p.MinInvestment) && amount <= float64(p.MaxInvestment)
}

// Profit projects the total profit for a principal: simple interest over
// the plan's payout cycles, no compounding. Pure — safe to recompute on
// every keystroke. NaN or negative principals project to 0, never NaN.
func Profit(p InvestmentPlan, principal float64) float64 {
	if math.IsNaN(principal) || principal < 0 {
		return 0
	}
	return principal * p.Percentage() / 100 * float64(p.Periods)
}

// ProfitFromInput projects profit from a raw form field. Non-numeric input
// is a 0 projection, not an error.
func ProfitFromInput(p InvestmentPlan, raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return Profit(p, v)
}

// Catalog is the plan table shown on the landing page and used by the
// deposit flow. Ordered cheapest first.
var Catalog = []InvestmentPlan{
	{
		ID:            "starter",
		Name:          "Starter",
		ReturnLabel:   "5% Daily",
		MinInvestment: 50,
		MaxInvestment: 999,
		CapitalBack:   true,
		ReturnType:    "Daily",
		Periods:       7,
		WithdrawType:  "Anytime",
	},
	{
		ID:            "silver",
		Name:          "Silver",
		ReturnLabel:   "8% Daily",
		MinInvestment: 1000,
		MaxInvestment: 4999,
		CapitalBack:   true,
		ReturnType:    "Daily",
		Periods:       14,
		WithdrawType:  "After Term",
	},
	{
		ID:            "gold",
		Name:          "Gold",
		ReturnLabel:   "10% Daily",
		MinInvestment: 5000,
		MaxInvestment: 24999,
		CapitalBack:   true,
		ReturnType:    "Daily",
		Periods:       21,
		WithdrawType:  "After Term",
		IsHot:         true,
	},
	{
		ID:            "platinum",
		Name:          "Platinum",
		ReturnLabel:   "15% Weekly",
		MinInvestment: 25000,
		MaxInvestment: 100000,
		CapitalBack:   false,
		ReturnType:    "Weekly",
		Periods:       12,
		WithdrawType:  "End of Term",
	},
}

// ByID looks a plan up in the catalog.
func ByID(id string) (InvestmentPlan, bool) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return InvestmentPlan{}, false
}

// Default is the plan preselected in the deposit flow.
func Default() InvestmentPlan {
	return Catalog[0]
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/vaultora-client/pkg/plans"
)

// runPlansCommand prints the plan catalog with a profit projection for the
// given principal.
func runPlansCommand(args []string) {
	fs := flag.NewFlagSet("plans", flag.ExitOnError)
	amount := fs.Float64("amount", 1000, "principal to project profit for")
	fs.Parse(args)

	hot := color.New(color.FgHiYellow, color.Bold)
	profitColor := color.New(color.FgGreen)

	fmt.Printf("Investment plans — projected profit on $%s\n\n",
		strconv.FormatFloat(*amount, 'f', -1, 64))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Plan", "Return", "Min", "Max", "Cycles", "Capital Back", "Projected Profit"})
	table.SetBorder(false)

	for _, p := range plans.Catalog {
		name := p.Name
		if p.IsHot {
			name = hot.Sprint(name + " ★")
		}
		capitalBack := "no"
		if p.CapitalBack {
			capitalBack = "yes"
		}
		profit := "-"
		if p.InRange(*amount) {
			profit = profitColor.Sprintf("$%.2f", plans.Profit(p, *amount))
		}
		table.Append([]string{
			name,
			p.ReturnLabel,
			fmt.Sprintf("$%d", p.MinInvestment),
			fmt.Sprintf("$%d", p.MaxInvestment),
			strconv.Itoa(p.Periods),
			capitalBack,
			profit,
		})
	}
	table.Render()

	fmt.Println("\nPlans outside the principal's range show no projection.")
}

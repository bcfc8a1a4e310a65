package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"finanzas/internal/advice"
	"finanzas/internal/core"
	"finanzas/internal/methods"
	"finanzas/internal/score"
	"finanzas/internal/simulator"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	goodColor    = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
	emphasisBold = color.New(color.Bold)
)

func header(w io.Writer, text string) {
	line := strings.Repeat("=", 50)
	headerColor.Fprintf(w, "%s\n%s\n%s\n", line, text, line)
}

func money(d float64) string { return core.FormatMoney(d) }

func printSummary(w io.Writer, s core.Snapshot) {
	a := s.Aggregates()
	header(w, "Resumen")
	fmt.Fprintf(w, "Ingresos:        %s\n", money(a.Incomes.InexactFloat64()))
	fmt.Fprintf(w, "Gastos:          %s\n", money(a.Expenses.InexactFloat64()))
	fmt.Fprintf(w, "Ahorro neto:     %s\n", money(a.NetSavings.InexactFloat64()))

	avail := a.Available.InexactFloat64()
	c := goodColor
	if avail < 0 {
		c = errorColor
	}
	c.Fprintf(w, "Disponible:      %s\n", money(avail))
	fmt.Fprintf(w, "Tasa de ahorro:  %.1f%%\n", core.SavingsRate(a))

	ranked := core.RankCategories(core.ExpenseByCategory(s.Transactions))
	if len(ranked) == 0 {
		return
	}
	emphasisBold.Fprintln(w, "\nGastos por categoría")
	for _, ct := range ranked {
		fmt.Fprintf(w, "  %-20s %s\n", ct.Name, money(ct.Amount))
	}
}

func printScore(w io.Writer, s core.Snapshot) {
	sc := score.Calculate(score.NewInput(s))
	header(w, "Salud financiera")

	c := goodColor
	switch {
	case sc.Total < 40:
		c = errorColor
	case sc.Total < 70:
		c = warnColor
	}
	c.Fprintf(w, "Puntaje: %d/100 (%s)\n", sc.Total, sc.Grade)
	fmt.Fprintf(w, "Nivel %d %s, %d XP", sc.Level, sc.LevelName, sc.XP)
	if sc.XPToNext > 0 {
		fmt.Fprintf(w, " (faltan %d)", sc.XPToNext)
	}
	fmt.Fprintln(w)

	emphasisBold.Fprintln(w, "\nDesglose")
	for _, cat := range sc.Breakdown {
		fmt.Fprintf(w, "  %s %-22s %3d/%d\n", cat.Icon, cat.Name, cat.Score, cat.Weight)
		if cat.Tip != "" {
			mutedColor.Fprintf(w, "      %s\n", cat.Tip)
		}
	}

	emphasisBold.Fprintln(w, "\nLogros")
	for _, a := range sc.Achievements {
		if a.Unlocked {
			goodColor.Fprintf(w, "  %s %s\n", a.Icon, a.Name)
		} else {
			mutedColor.Fprintf(w, "  %s %s (%.0f%%)\n", a.Icon, a.Name, a.Progress)
		}
	}
}

func printAdvice(w io.Writer, s core.Snapshot) {
	recs := advice.All(advice.NewInput(s))
	header(w, "Recomendaciones")
	if len(recs) == 0 {
		fmt.Fprintln(w, "Sin recomendaciones por ahora.")
		return
	}
	for _, r := range recs {
		c := emphasisBold
		switch r.Type {
		case advice.Warning:
			c = warnColor
		case advice.Success:
			c = goodColor
		}
		c.Fprintf(w, "%s %s\n", r.Icon, r.Title)
		fmt.Fprintf(w, "   %s\n", r.Description)
		if r.Actionable != "" {
			mutedColor.Fprintf(w, "   -> %s\n", r.Actionable)
		}
	}
}

func printBuckets(w io.Writer, s core.Snapshot, methodID string) error {
	m, ok := methods.Get(methodID)
	if !ok {
		return fmt.Errorf("unknown method %q, one of %s", methodID, strings.Join(methods.IDs(), ", "))
	}
	a := s.Aggregates()
	results := methods.BucketSpending(m, core.ExpenseByCategory(s.Transactions), a.Incomes.InexactFloat64())

	header(w, m.Icon+" "+m.Name)
	for _, r := range results {
		line := fmt.Sprintf("  %s %-24s %s", r.Bucket.Icon, r.Bucket.Name, money(r.Spent))
		if r.Limit <= 0 {
			fmt.Fprintln(w, line)
			continue
		}
		line += fmt.Sprintf(" / %s (%.0f%%)", money(r.Limit), r.PercentageUsed)
		if r.OverBudget() {
			errorColor.Fprintln(w, line)
		} else {
			goodColor.Fprintln(w, line)
		}
	}
	return nil
}

func printMethods(w io.Writer) {
	header(w, "Métodos de presupuesto")
	for _, m := range methods.All() {
		emphasisBold.Fprintf(w, "%s %-12s", m.Icon, m.ID)
		fmt.Fprintf(w, " %s\n", m.Name)
		mutedColor.Fprintf(w, "   %s\n", m.ShortDesc)
	}
}

func printSimulation(w io.Writer, goal, monthly, rate string) error {
	req, err := simulator.ParseRequest(goal, monthly, rate)
	if err != nil {
		return err
	}
	res, err := req.Run()
	if err != nil {
		return err
	}

	header(w, "Simulador de meta")
	fmt.Fprintf(w, "Meta:            %s\n", money(req.Goal))
	fmt.Fprintf(w, "Ahorro mensual:  %s\n", money(req.Monthly))
	fmt.Fprintf(w, "Tasa anual:      %.2f%%\n", req.AnnualRatePct)
	if res.Reached {
		goodColor.Fprintf(w, "Tiempo:          %s\n", simulator.FormatDuration(res.Months))
	} else {
		warnColor.Fprintf(w, "No se alcanza en %s\n", simulator.FormatDuration(res.Months))
	}
	fmt.Fprintf(w, "Aportado:        %s\n", money(res.TotalContributed))
	fmt.Fprintf(w, "Intereses:       %s\n", money(res.TotalInterest))
	fmt.Fprintf(w, "Saldo final:     %s\n", money(res.FinalBalance))
	return nil
}

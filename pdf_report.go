package main

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// pdfText converts UTF-8 text to PDF-safe encoding
// The £ sign in UTF-8 is 0xC2 0xA3, but PDF standard fonts expect Latin-1 (just 0xA3)
func pdfText(s string) string {
	return strings.ReplaceAll(s, "£", "\xa3")
}

// FormatMoneyPDF formats money for PDF output (handles £ encoding)
func FormatMoneyPDF(amount float64) string {
	return pdfText(FormatMoney(amount))
}

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFForecastReport renders one forecast result as a printable summary
type PDFForecastReport struct {
	pdf      *fpdf.Fpdf
	profile  HouseholdProfile
	scenario Scenario
	result   ForecastResult
}

// GenerateForecastPDF creates a PDF report for a completed forecast
func GenerateForecastPDF(profile HouseholdProfile, scenario Scenario, result ForecastResult) ([]byte, error) {
	report := &PDFForecastReport{
		pdf:      fpdf.New("P", "mm", "A4", ""),
		profile:  profile,
		scenario: scenario,
		result:   result,
	}

	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)

	report.addTitlePage()
	report.addAssumptions()
	report.addYearlyProjection()

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFForecastReport) addTitlePage() {
	scenario := r.scenario

	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(50)
	r.pdf.CellFormat(contentWidth, 15, "Drawdown Forecast", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 14)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(10)
	r.pdf.CellFormat(contentWidth, 10, fmt.Sprintf("Scenario: %s", scenario.Name), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.Ln(15)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")

	// Household box
	r.pdf.Ln(20)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Household", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	primaryText := fmt.Sprintf("%s - Born %s, projected to age %d",
		r.profile.PrimaryName, scenario.Primary.DateOfBirth.Format("2 January 2006"), scenario.Primary.MaxAge)
	r.pdf.CellFormat(contentWidth, 7, primaryText, "LR", 1, "C", true, 0, "")
	if scenario.Partner != nil && r.profile.HasPartner() {
		partnerText := fmt.Sprintf("%s - Born %s, projected to age %d",
			r.profile.PartnerName, scenario.Partner.DateOfBirth.Format("2 January 2006"), scenario.Partner.MaxAge)
		r.pdf.CellFormat(contentWidth, 7, partnerText, "LR", 1, "C", true, 0, "")
	}
	r.pdf.CellFormat(contentWidth, 1, "", "LRB", 1, "C", true, 0, "")

	// Projection period box
	r.pdf.Ln(10)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Projection", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	end := scenario.horizonEnd()
	periodText := fmt.Sprintf("%s to %s",
		scenario.StartDate.Format("2 January 2006"), end.Format("2 January 2006"))
	r.pdf.CellFormat(contentWidth, 7, periodText, "LR", 1, "C", true, 0, "")

	exhaustedText := "Funds exhausted: Never"
	if r.result.FundsExhausted {
		exhaustedText = fmt.Sprintf("Funds exhausted: %s", r.result.ExhaustedDate.Format("January 2006"))
		r.pdf.SetTextColor(180, 0, 0)
	}
	r.pdf.CellFormat(contentWidth, 7, exhaustedText, "LR", 1, "C", true, 0, "")
	r.pdf.SetTextColor(50, 50, 50)

	if len(r.result.Samples) > 0 {
		finalText := fmt.Sprintf("Final household worth: %s", FormatMoneyPDF(r.result.FinalSample().Total))
		r.pdf.CellFormat(contentWidth, 7, finalText, "LRB", 1, "C", true, 0, "")
	} else {
		r.pdf.CellFormat(contentWidth, 1, "", "LRB", 1, "C", true, 0, "")
	}

	// Disclaimer
	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"This document is for informational purposes only and does not constitute financial advice. "+
			"Projections are based on the assumptions listed and actual results will vary.", "", "C", false)
}

func (r *PDFForecastReport) addAssumptions() {
	scenario := r.scenario

	r.pdf.AddPage()
	r.drawSectionHeader("Assumptions")

	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, "Spending", "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	rows := [][]string{
		{"Monthly budget:", FormatMoneyPDF(scenario.MonthlyBudget) + "/month"},
		{"Other income:", FormatMoneyPDF(scenario.OtherMonthlyIncome) + "/month"},
	}
	if scenario.DrawdownStart != nil {
		rows = append(rows, []string{"Drawdown reorder from:", scenario.DrawdownStart.Format("2 January 2006")})
	}
	for _, row := range rows {
		r.pdf.CellFormat(55, 5, row[0], "", 0, "L", false, 0, "")
		r.pdf.CellFormat(contentWidth-55, 5, row[1], "", 1, "L", false, 0, "")
	}

	r.pdf.Ln(5)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, "Yearly Rates", "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	rateRows := [][]string{
		{"Budget inflation:", formatRateList(scenario.BudgetInflation)},
		{"Savings interest:", formatRateList(scenario.SavingsInterest)},
		{"Pension growth:", formatRateList(scenario.PensionGrowth)},
		{"State pension increase:", formatRateList(scenario.StatePensionIncrease)},
	}
	for _, row := range rateRows {
		r.pdf.CellFormat(55, 5, row[0], "", 0, "L", false, 0, "")
		r.pdf.CellFormat(contentWidth-55, 5, row[1], "", 1, "L", false, 0, "")
	}

	if len(scenario.SavingsWithdrawals)+len(scenario.PensionWithdrawals) > 0 {
		r.pdf.Ln(5)
		r.pdf.SetFont("Arial", "B", 11)
		r.pdf.SetTextColor(0, 51, 102)
		r.pdf.CellFormat(contentWidth, 7, "Planned One-Off Withdrawals", "", 1, "L", false, 0, "")

		r.drawTableHeader([]string{"Date", "Source", "Amount"}, []float64{60, 60, 60})
		for _, w := range scenario.SavingsWithdrawals {
			r.drawTableRow([]string{w.Date.Format("2 Jan 2006"), "Savings", FormatMoneyPDF(w.Amount)},
				[]float64{60, 60, 60}, false)
		}
		for _, w := range scenario.PensionWithdrawals {
			r.drawTableRow([]string{w.Date.Format("2 Jan 2006"), "Pension", FormatMoneyPDF(w.Amount)},
				[]float64{60, 60, 60}, false)
		}
	}
}

func (r *PDFForecastReport) addYearlyProjection() {
	r.pdf.AddPage()
	r.drawSectionHeader("Year-by-Year Projection")

	widths := []float64{20, 34, 34, 34, 30, 28}
	r.drawTableHeader([]string{"Year", "Savings", "Pensions", "Total", "Budget", "State Pen."}, widths)

	for _, sample := range r.result.Samples {
		// One row per year, taken from the January sample
		if sample.Date.Month() != time.January {
			continue
		}
		if r.pdf.GetY() > 265 {
			r.pdf.AddPage()
			r.drawTableHeader([]string{"Year", "Savings", "Pensions", "Total", "Budget", "State Pen."}, widths)
		}
		exhausted := sample.FundsExhausted
		if exhausted {
			r.pdf.SetTextColor(180, 0, 0)
		}
		r.drawTableRow([]string{
			fmt.Sprintf("%d", sample.Date.Year()),
			FormatMoneyPDF(sample.Savings),
			FormatMoneyPDF(sample.Pension),
			FormatMoneyPDF(sample.Total),
			FormatMoneyPDF(sample.Budget),
			FormatMoneyPDF(sample.StatePensionIncome),
		}, widths, exhausted)
		r.pdf.SetTextColor(50, 50, 50)
	}

	if r.result.FundsExhausted {
		r.pdf.Ln(5)
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetTextColor(180, 0, 0)
		r.pdf.CellFormat(contentWidth, 6,
			fmt.Sprintf("WARNING: household funds run out in %s", r.result.ExhaustedDate.Format("January 2006")),
			"", 1, "L", false, 0, "")
	}

	// Footer
	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(128, 128, 128)
	r.pdf.MultiCell(contentWidth, 4,
		"Projections assume the stated rates hold and the monthly budget is met every month. "+
			"This is not financial advice.", "", "C", false)
}

func formatRateList(rates RateSchedule) string {
	parts := make([]string, len(rates))
	for i, rate := range rates {
		parts[i] = fmt.Sprintf("%.2g%%", rate)
	}
	return strings.Join(parts, ", ") + " (last extends)"
}

// Helper functions

func (r *PDFForecastReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *PDFForecastReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFForecastReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

/*
payslip.go - PDF payslip rendering

PURPOSE:
  Renders a period's hour totals and pay breakdown as a simple A4 payslip.
  The PDF is written to an io.Writer so HTTP handlers can stream it
  without touching the filesystem.
*/
package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/shift"
)

// Payslip bundles everything the renderer needs.
type Payslip struct {
	EmployeeName string
	Period       engine.Period
	Totals       shift.PeriodTotals
	Model        WageModel
	Pay          PayBreakdown
}

// RenderPDF writes the payslip as a PDF document.
func (p Payslip) RenderPDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts are cp1252; the translator keeps accented labels intact.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	line := func(style string, size float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.Cell(0, 8, tr(text))
		pdf.Ln(7)
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Recibo de haberes")
	pdf.Ln(12)

	line("", 12, fmt.Sprintf("Empleado: %s", p.EmployeeName))
	line("", 12, fmt.Sprintf("Período: %s a %s", p.Period.Start, p.Period.End))
	line("", 12, fmt.Sprintf("Modalidad: %s", p.Model.Type))
	pdf.Ln(3)

	line("B", 12, "Horas")
	line("", 12, fmt.Sprintf("Horas base: %.2f", p.Totals.BaseHours))
	line("", 12, fmt.Sprintf("Horas extra: %.2f", p.Totals.OvertimeHours))
	line("", 12, fmt.Sprintf("Horas descontadas: %.2f", p.Totals.DiscountedHours))
	line("", 12, fmt.Sprintf("Días trabajados: %d (completos %d, medios %d, faltas %d)",
		p.Totals.DaysWorked, p.Totals.FullDays, p.Totals.HalfDays, p.Totals.Absences))
	pdf.Ln(3)

	line("B", 12, "Importes")
	line("", 12, fmt.Sprintf("Básico: %s", p.Pay.BaseAmount))
	line("", 12, fmt.Sprintf("Horas extra: %s", p.Pay.OvertimeAmount))
	line("", 12, fmt.Sprintf("Descuentos: %s", p.Pay.DiscountAmount))
	line("B", 12, fmt.Sprintf("Total a pagar: %s", p.Pay.TotalPayable))

	return pdf.Output(w)
}

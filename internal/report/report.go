// Package report renders tenant reports as PDF documents.
//
// Documents are drawn sequentially: a header block, a table, a totals line.
// Core fonts are used, so text goes through a cp1252 translator to keep
// Portuguese accents and unit symbols intact.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 7.0
	dateLayout = "02/01/2006"
)

type column struct {
	title string
	width float64
	align string
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string, condo *domain.Condominium, generatedAt time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("condobase", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 6, d.tr(condo.Name), "", 1, "L", false, 0, "")
	if condo.Address != "" {
		pdf.CellFormat(0, 6, d.tr(fmt.Sprintf("%s - %s/%s", condo.Address, condo.City, condo.State)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, d.tr("Gerado em "+generatedAt.Format(dateLayout+" 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	return d
}

func (d *document) header(cols []column) {
	d.pdf.SetFont(fontFamily, "B", 9)
	d.pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		d.pdf.CellFormat(c.width, lineHeight, d.tr(c.title), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(fontFamily, "", 9)
}

func (d *document) row(cols []column, values []string) {
	for i, c := range cols {
		d.pdf.CellFormat(c.width, lineHeight, d.tr(truncate(values[i], c.width)), "1", 0, c.align, false, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) totals(label string) {
	d.pdf.Ln(3)
	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.CellFormat(0, lineHeight, d.tr(label), "", 1, "R", false, 0, "")
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate keeps a cell's text roughly inside width millimetres at 9pt.
func truncate(s string, width float64) string {
	maxRunes := int(width / 1.9)
	r := []rune(s)
	if len(r) <= maxRunes || maxRunes < 4 {
		return s
	}
	return string(r[:maxRunes-3]) + "..."
}

func money(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

var maintenanceColumns = []column{
	{"Abertura", 24, "C"},
	{"Título", 66, "L"},
	{"Prioridade", 24, "C"},
	{"Status", 26, "C"},
	{"Resolvido", 24, "C"},
	{"Custo", 26, "R"},
}

// MaintenanceReport lists requests with their status and the total cost.
func MaintenanceReport(condo *domain.Condominium, requests []*domain.MaintenanceRequest, generatedAt time.Time) ([]byte, error) {
	return maintenanceDocument(condo, requests, generatedAt).bytes()
}

func maintenanceDocument(condo *domain.Condominium, requests []*domain.MaintenanceRequest, generatedAt time.Time) *document {
	d := newDocument("Relatório de manutenção", condo, generatedAt)
	d.header(maintenanceColumns)

	var total float64
	open := 0
	for _, m := range requests {
		resolved := "-"
		if m.ResolvedAt != nil {
			resolved = m.ResolvedAt.Format(dateLayout)
		}
		if !m.Status.Terminal() {
			open++
		}
		total += m.Cost
		d.row(maintenanceColumns, []string{
			m.CreatedAt.Format(dateLayout),
			m.Title,
			string(m.Priority),
			string(m.Status),
			resolved,
			money(m.Cost),
		})
	}

	d.totals(fmt.Sprintf("%d chamados, %d em aberto. Custo total: %s", len(requests), open, money(total)))
	return d
}

var readingsColumns = []column{
	{"Medidor", 50, "L"},
	{"De", 35, "C"},
	{"Até", 35, "C"},
	{"Consumo", 45, "R"},
}

// ReadingsReport lists the consumption between consecutive readings of kind.
func ReadingsReport(condo *domain.Condominium, kind domain.ReadingKind, points []domain.ConsumptionPoint, generatedAt time.Time) ([]byte, error) {
	return readingsDocument(condo, kind, points, generatedAt).bytes()
}

func readingsDocument(condo *domain.Condominium, kind domain.ReadingKind, points []domain.ConsumptionPoint, generatedAt time.Time) *document {
	d := newDocument("Relatório de consumo: "+string(kind), condo, generatedAt)
	d.header(readingsColumns)

	unit := kind.Unit()
	for _, p := range points {
		d.row(readingsColumns, []string{
			p.Meter,
			p.From.Format(dateLayout),
			p.To.Format(dateLayout),
			fmt.Sprintf("%.2f %s", p.Amount, unit),
		})
	}

	d.totals(fmt.Sprintf("Consumo total: %.2f %s", domain.TotalConsumption(points), unit))
	return d
}

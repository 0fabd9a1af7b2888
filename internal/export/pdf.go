// Package export renders a member's questionnaire as a printable PDF.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
)

const (
	margin       = 14.0
	bottomMargin = 15.0
	lineHeight   = 6.0
	pageBreakY   = 180.0
)

type column struct {
	title string
	width float64
	align string
}

var (
	type1Columns = []column{
		{"Question", 90, "L"}, {"Score", 25, "C"}, {"Top", 15, "C"}, {"Bot", 15, "C"}, {"Talk", 15, "C"}, {"Notes", 109, "L"},
	}
	type2Columns = []column{
		{"Question", 90, "L"}, {"Score", 25, "C"}, {"Talk", 15, "C"}, {"Inclure", 20, "C"}, {"Notes", 119, "L"},
	}
)

var frenchMonths = [...]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}

// ScoreLabel names a score the way the legend does.
func ScoreLabel(score int) string {
	switch score {
	case 4:
		return "Fantasme"
	case 3:
		return "Ok"
	case 2:
		return "Curieux"
	case 1:
		return "Non"
	default:
		return "-"
	}
}

func yes(b *bool) string {
	if b != nil && *b {
		return "Oui"
	}
	return "-"
}

// FileName is the suggested download name for a user's export.
func FileName(pseudo string) string {
	return "foxclub-formulaire-" + strings.Join(strings.Fields(strings.ToLower(pseudo)), "-") + ".pdf"
}

// FormPDF writes a landscape A4 document with one table per family. Unanswered
// questions are rendered with empty cells.
func FormPDF(w io.Writer, user *models.User, form *models.UserForm, families []models.QuestionFamily, now time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(margin, 15, margin)
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr("Fox Club - Formulaire"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(130, lineHeight, tr("Utilisateur: "+user.Pseudo), "", 0, "L", false, 0, "")
	date := fmt.Sprintf("%d %s %d", now.Day(), frenchMonths[now.Month()-1], now.Year())
	pdf.CellFormat(0, lineHeight, tr("Date: "+date), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, lineHeight, tr("Légende: Fantasme = Score 4 | Ok = Score 3 | Curieux = Score 2 | Non = Score 1"), "", 1, "L", false, 0, "")
	if form != nil && form.Submitted {
		pdf.CellFormat(0, lineHeight, tr("Formulaire soumis"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	answers := make(map[uuid.UUID]*models.FormAnswer)
	if form != nil {
		for i := range form.Answers {
			answers[form.Answers[i].QuestionID] = &form.Answers[i]
		}
	}

	for _, family := range families {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
		}
		writeFamily(pdf, tr, family, answers)
		pdf.Ln(5)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf.Output(w)
}

func writeFamily(pdf *gofpdf.Fpdf, tr func(string) string, family models.QuestionFamily, answers map[uuid.UUID]*models.FormAnswer) {
	cols, hint := type1Columns, "(Score, Top, Bot, Talk)"
	if family.Type == models.QuestionType2 {
		cols, hint = type2Columns, "(Score, Talk, Inclure)"
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, lineHeight, tr(family.Label), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, hint, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(255, 237, 213)
	for _, c := range cols {
		pdf.CellFormat(c.width, lineHeight, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, q := range family.Questions {
		row := []string{q.Text, "-", "", "", "", ""}
		if a, ok := answers[q.ID]; ok {
			notes := ""
			if a.Notes != nil {
				notes = *a.Notes
			}
			if family.Type == models.QuestionType2 {
				row = []string{q.Text, ScoreLabel(a.Score), yes(a.Talk), yes(a.Include), notes}
			} else {
				row = []string{q.Text, ScoreLabel(a.Score), yes(a.Top), yes(a.Bot), yes(a.Talk), notes}
			}
		}
		writeRow(pdf, tr, cols, row[:len(cols)])
	}
}

// writeRow draws one table row whose height grows with the longest wrapped cell.
func writeRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []column, row []string) {
	const cellLine = 4.5

	lines := make([][][]byte, len(cols))
	height := lineHeight
	for i, c := range cols {
		lines[i] = pdf.SplitLines([]byte(tr(row[i])), c.width-2)
		if h := float64(len(lines[i]))*cellLine + 1.5; h > height {
			height = h
		}
	}

	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+height > pageHeight-bottomMargin {
		pdf.AddPage()
	}

	x, y := margin, pdf.GetY()
	for i, c := range cols {
		pdf.Rect(x, y, c.width, height, "D")
		for j, line := range lines[i] {
			pdf.SetXY(x+1, y+0.75+float64(j)*cellLine)
			pdf.CellFormat(c.width-2, cellLine, string(line), "", 0, c.align, false, 0, "")
		}
		x += c.width
	}
	pdf.SetXY(margin, y+height)
}

package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	billSheet    = "BOM"
	detailsSheet = "Details"
	maxSheetName = 31

	// builtin number format "#,##0.00"
	moneyNumFmt = 4
)

var billColumns = []struct {
	header string
	width  float64
}{
	{"#", 5},
	{"Code", 14},
	{"Description", 46},
	{"Category", 14},
	{"Net qty", 11},
	{"Qty + waste", 12},
	{"Qty", 8},
	{"Unit", 7},
	{"Unit price", 12},
	{"Total", 14},
	{"Weight (kg)", 12},
}

// GenerateExcel renders the report as a bill of materials workbook: a line
// item sheet with totals and a details sheet with every report section.
func GenerateExcel(report *domain.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := report.Title
	if r := []rune(sheetName); len(r) > maxSheetName {
		sheetName = string(r[:maxSheetName])
	}
	if sheetName == "" {
		sheetName = billSheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeBill(f, sheetName, report, styles); err != nil {
		return nil, err
	}
	if err := writeDetails(f, report, styles); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title  int
	header int
	row    int
	money  int
	label  int
	total  int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	if s.row, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create row style: %w", err)
	}

	if s.money, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: moneyNumFmt,
	}); err != nil {
		return s, fmt.Errorf("create money style: %w", err)
	}

	if s.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create label style: %w", err)
	}

	if s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: moneyNumFmt,
	}); err != nil {
		return s, fmt.Errorf("create total style: %w", err)
	}

	return s, nil
}

// sheetWriter stops at the first failed call and keeps its error, so a run of
// cell writes can be checked once.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) value(cell string, v interface{}) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
		w.err = fmt.Errorf("set %s!%s: %w", w.sheet, cell, err)
	}
}

func (w *sheetWriter) style(from, to string, style int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(w.sheet, from, to, style); err != nil {
		w.err = fmt.Errorf("style %s!%s:%s: %w", w.sheet, from, to, err)
	}
}

func (w *sheetWriter) row(cell string, values []interface{}) {
	if w.err != nil {
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s!%s: %w", w.sheet, cell, err)
	}
}

func (w *sheetWriter) merge(from, to string) {
	if w.err != nil {
		return
	}
	if err := w.f.MergeCell(w.sheet, from, to); err != nil {
		w.err = fmt.Errorf("merge %s!%s:%s: %w", w.sheet, from, to, err)
	}
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err != nil {
		return
	}
	if err := w.f.SetColWidth(w.sheet, col, col, width); err != nil {
		w.err = fmt.Errorf("set col width %s!%s: %w", w.sheet, col, err)
	}
}

func writeBill(f *excelize.File, sheet string, report *domain.Report, s sheetStyles) error {
	w := &sheetWriter{f: f, sheet: sheet}
	lastCol, err := excelize.ColumnNumberToName(len(billColumns))
	if err != nil {
		return err
	}

	for i, c := range billColumns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		w.width(col, c.width)
		w.value(col+"4", c.header)
	}
	w.style("A4", lastCol+"4", s.header)

	w.merge("A1", lastCol+"1")
	w.value("A1", sanitizeExcelCell(report.Title))
	w.style("A1", lastCol+"1", s.title)
	if report.Subject != "" {
		w.merge("A2", lastCol+"2")
		w.value("A2", sanitizeExcelCell(report.Subject))
	}

	row := 5
	for i, it := range report.Items {
		cell := fmt.Sprintf("A%d", row)
		w.row(cell, []interface{}{
			i + 1,
			sanitizeExcelCell(it.ItemCode),
			sanitizeExcelCell(it.Description),
			sanitizeExcelCell(string(it.Category)),
			it.NetQuantity,
			it.WasteAdjustedQuantity,
			it.CommercialQuantity,
			sanitizeExcelCell(it.CommercialUnit),
			it.UnitPrice.InexactFloat64(),
			it.ExtendedPrice.InexactFloat64(),
			it.Weight,
		})
		w.style(cell, fmt.Sprintf("%s%d", lastCol, row), s.row)
		w.style(fmt.Sprintf("I%d", row), fmt.Sprintf("J%d", row), s.money)
		row++
	}

	row++
	label, total := fmt.Sprintf("I%d", row), fmt.Sprintf("J%d", row)
	w.value(label, "Total ("+report.Currency+"):")
	w.style(label, label, s.label)
	w.value(total, report.TotalAmount.InexactFloat64())
	w.style(total, total, s.total)

	return w.err
}

func writeDetails(f *excelize.File, report *domain.Report, s sheetStyles) error {
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return fmt.Errorf("create details sheet: %w", err)
	}
	w := &sheetWriter{f: f, sheet: detailsSheet}
	for _, c := range []struct {
		col   string
		width float64
	}{{"A", 46}, {"B", 16}, {"C", 8}, {"D", 70}} {
		w.width(c.col, c.width)
	}

	row := 1
	for _, section := range report.Sections {
		w.value(fmt.Sprintf("A%d", row), sanitizeExcelCell(section.Title))
		w.style(fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), s.header)
		row++

		keys := make([]string, 0, len(section.Summary))
		for k := range section.Summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.value(fmt.Sprintf("A%d", row), sanitizeExcelCell(k))
			w.value(fmt.Sprintf("B%d", row), cellValue(section.Summary[k]))
			row++
		}

		for _, d := range section.Details {
			cell := fmt.Sprintf("A%d", row)
			w.row(cell, []interface{}{
				sanitizeExcelCell(d.Name),
				cellValue(d.Value),
				sanitizeExcelCell(d.Unit),
				sanitizeExcelCell(d.Description),
			})
			w.style(cell, fmt.Sprintf("D%d", row), s.row)
			row++
		}
		row++
	}
	return w.err
}

func cellValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return sanitizeExcelCell(s)
	}
	return v
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}

package payroll

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Nómina"

var csvHeaders = []string{"ID Empleado", "Nombre", "Rol", "Horas Totales", "Días Trabajados", "Fecha Inicio", "Fecha Fin"}

// CSV renders rows with a header line. Fields containing commas or quotes
// are quoted.
func CSV(rows []payroll.Row) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.UserID,
			r.Name,
			string(r.Role),
			strconv.FormatFloat(r.TotalHours, 'f', 2, 64),
			strconv.Itoa(r.DaysWorked),
			r.StartLabel,
			r.EndLabel,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var columnWidths = []struct {
	from, to string
	width    float64
}{
	{"A", "A", 38},
	{"B", "B", 28},
	{"C", "G", 16},
	{"H", "H", 18},
}

// XLSX renders rows as a single sheet workbook with a Costo column.
func XLSX(rows []payroll.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	headers := append(append([]string{}, csvHeaders...), "Costo")
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, r := range rows {
		values := []interface{}{
			r.UserID,
			r.Name,
			string(r.Role),
			r.TotalHours,
			r.DaysWorked,
			r.StartLabel,
			r.EndLabel,
			r.Cost.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, fmt.Errorf("failed to write payroll row for %s: %w", r.UserID, err)
		}
	}

	for _, w := range columnWidths {
		if err := f.SetColWidth(sheetName, w.from, w.to, w.width); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

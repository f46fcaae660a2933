package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"jornada-tracker/internal/domain"
)

// ExportHeader lists the payroll export columns in order.
var ExportHeader = []string{
	"Fecha",
	"Operario",
	"Inicio jornada",
	"Fin Jornada",
	"Total Jornada",
	"Permisos Remunerados",
	"Horarios P. Remunerados",
	"Permisos NO Remunerados",
	"Horarios P. NO Remunerados",
	"Observaciones Permisos",
	"Tiempo Total a Pagar",
	"Tiempo Total a Pagar EN HORAS",
}

// ExportRow is one shift of the payroll export.
type ExportRow struct {
	Date     string
	Operator string
	Totals   domain.ShiftTotals
}

// Export writes one CSV row per shift matching q and returns the number
// of shifts written.
func (r *reportingServiceImpl) Export(ctx context.Context, w io.Writer, q ExportQuery) (int, error) {
	shifts, err := r.reader.ListShifts(ctx, r.exportQuery(q))
	if err != nil {
		return 0, err
	}

	rows := BuildExportRows(shifts)
	if err := WriteExportCSV(w, rows); err != nil {
		return 0, err
	}

	r.logger.Info("payroll export written", "shifts", len(rows), "from", q.From, "to", q.To)
	return len(rows), nil
}

// BuildExportRows aggregates each shift for the export
func BuildExportRows(shifts []domain.PersistedShift) []ExportRow {
	rows := make([]ExportRow, 0, len(shifts))
	for _, s := range shifts {
		operator := s.Operator.Name
		if operator == "" {
			operator = "N/A"
		}
		date := s.Day()
		if date == "" {
			date = "N/A"
		}
		rows = append(rows, ExportRow{
			Date:     date,
			Operator: operator,
			Totals:   AggregatePersisted(s),
		})
	}
	return rows
}

// Record renders the row as CSV fields, in ExportHeader order
func (row ExportRow) Record() []string {
	t := row.Totals

	worked := ""
	if t.WorkedMinutes() > 0 {
		worked = FormatMinutes(t.WorkedMinutes())
	}

	return []string{
		row.Date,
		row.Operator,
		t.ShiftStart,
		t.ShiftEnd,
		worked,
		FormatMinutes(t.PaidPermitMinutes),
		joinOrDash(t.PaidPermitRanges, ", "),
		FormatMinutes(t.UnpaidPermitMinutes),
		joinOrDash(t.UnpaidPermitRanges, ", "),
		joinOrDash(t.PermitObservations, " | "),
		FormatMinutes(t.PayableMinutes),
		strconv.FormatFloat(t.PayableHours, 'f', -1, 64),
	}
}

// WriteExportCSV writes the header and rows
func WriteExportCSV(w io.Writer, rows []ExportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func joinOrDash(values []string, sep string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, sep)
}

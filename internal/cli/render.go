package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/services"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...)
}

// renderDraft prints a draft with its activities, totals and submission readiness
func renderDraft(w io.Writer, v *api.DraftView) {
	d := v.Draft
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Borrador %s  %s  (%s)", d.ID, d.DateString(), d.Status)))
	fmt.Fprintf(w, "Operario: %s\n", d.OperatorID)
	if d.RemoteID != "" {
		fmt.Fprintf(w, "Jornada en el servidor: %s\n", d.RemoteID)
	}

	if len(d.Activities) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Sin actividades"))
	} else {
		t := newTable("#", "Tipo", "OTI", "Área", "Procesos", "Inicio", "Fin", "Tiempo")
		for i, a := range d.Activities {
			t.Row(
				strconv.Itoa(i+1),
				activityType(a),
				a.OTI,
				orDash(a.AreaName, a.ProductionArea),
				processList(a),
				a.StartTime,
				a.EndTime,
				services.FormatMinutes(a.ComputedMinutes()),
			)
		}
		fmt.Fprintln(w, t.String())
	}

	renderTotals(w, v.Totals)

	switch {
	case d.Status == domain.ShiftSubmitted:
		fmt.Fprintln(w, okStyle.Render("Enviada"))
	case d.LastError != "":
		fmt.Fprintln(w, warningStyle.Render("Último envío rechazado: "+d.LastError))
	}
	if d.Status != domain.ShiftSubmitted {
		if v.ReadyToSubmit() {
			fmt.Fprintln(w, okStyle.Render("Lista para enviar"))
		} else {
			fmt.Fprintln(w, warningStyle.Render("Pendiente: "+v.Problem))
		}
	}
}

func renderTotals(w io.Writer, t domain.ShiftTotals) {
	if t.ShiftStart == "" || t.ShiftEnd == "" {
		return
	}
	fmt.Fprintf(w, "Jornada: %s - %s (%s)\n", t.ShiftStart, t.ShiftEnd, services.FormatMinutes(t.RawMinutes))
	if t.LunchMinutes > 0 {
		fmt.Fprintf(w, "Almuerzo: %s\n", services.FormatMinutes(t.LunchMinutes))
	}
	if t.PaidPermitMinutes > 0 {
		fmt.Fprintf(w, "Permisos remunerados: %s (%s)\n", services.FormatMinutes(t.PaidPermitMinutes), strings.Join(t.PaidPermitRanges, ", "))
	}
	if t.UnpaidPermitMinutes > 0 {
		fmt.Fprintf(w, "Permisos NO remunerados: %s (%s)\n", services.FormatMinutes(t.UnpaidPermitMinutes), strings.Join(t.UnpaidPermitRanges, ", "))
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Tiempo a pagar: %s (%s h)",
		services.FormatMinutes(t.PayableMinutes), strconv.FormatFloat(t.PayableHours, 'f', -1, 64))))
}

func renderDraftList(w io.Writer, views []*api.DraftView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No hay borradores")
		return
	}
	t := newTable("ID", "Fecha", "Estado", "Actividades", "A pagar", "Pendiente")
	for _, v := range views {
		t.Row(
			v.Draft.ID,
			v.Draft.DateString(),
			string(v.Draft.Status),
			strconv.Itoa(len(v.Draft.Activities)),
			services.FormatMinutes(v.Totals.PayableMinutes),
			v.Problem,
		)
	}
	fmt.Fprintln(w, t.String())
}

func renderDaySummary(w io.Writer, s *services.DaySummary) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Actividades del %s", s.Date)))
	if len(s.Activities) == 0 {
		fmt.Fprintln(w, "No hay actividades registradas")
		return
	}

	t := newTable("OTI", "Procesos", "Tipo", "Inicio", "Fin", "Tiempo", "Estado")
	for _, a := range s.Activities {
		t.Row(a.OTI, a.Processes, string(a.TimeType), a.StartTime, a.EndTime, formatDuration(a.Minutes), stateLabel(a.State))
	}
	fmt.Fprintln(w, t.String())

	if s.EffectiveMinutes > 0 {
		fmt.Fprintf(w, "Tiempo efectivo: %s\n", formatDuration(s.EffectiveMinutes))
	}
	renderTotals(w, s.Totals)
}

func renderTemplates(w io.Writer, templates []domain.ActivityTemplate) {
	t := newTable("Clave", "Nombre", "Tipo", "Horario", "Descripción")
	for _, tmpl := range templates {
		hours := "-"
		if tmpl.SuggestedStart != "" {
			hours = tmpl.SuggestedStart + " - " + tmpl.SuggestedEnd
		}
		t.Row(tmpl.Key, tmpl.Name, string(tmpl.TimeType), hours, tmpl.Description)
	}
	fmt.Fprintln(w, t.String())
}

func stateLabel(s domain.ActivityTimeState) string {
	switch s.Status {
	case domain.StatusFinished:
		return "Finalizada " + s.DisplayEndTime
	case domain.StatusInProgress:
		return fmt.Sprintf("En curso %.0f%% (%d min)", s.PercentComplete, s.ElapsedMinutes)
	default:
		return s.DisplayEndTime
	}
}

// formatDuration renders minutes as "N min (Xh Ym)"
func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "0 min"
	}
	return fmt.Sprintf("%d min (%s)", minutes, services.FormatMinutes(minutes))
}

func activityType(a domain.Activity) string {
	label := string(a.TimeType)
	if a.IsLaborPermit() && a.PermitType != "" {
		label += " (" + string(a.PermitType) + ")"
	}
	if label == "" {
		return "-"
	}
	return label
}

func processList(a domain.Activity) string {
	if names := a.ResolvedProcessNames(); len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return orDash(strings.Join(a.Processes, ", "))
}

func orDash(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return "-"
}

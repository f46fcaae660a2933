package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/validation"
)

// Messages shown when the backend rejects a shift.
const (
	MsgDuplicateSchedule     = "❌ No se puede guardar: Ya registraste un proceso 'Horario Laboral' para esta fecha. Solo se permite un proceso de horario laboral por día."
	MsgDuplicateScheduleCode = "❌ No se puede guardar: Ya existe un proceso de horario laboral registrado para esta fecha."
	MsgUnexpected            = "Error inesperado"

	// CodeDuplicateSchedule is the backend's code for a second work-schedule entry.
	CodeDuplicateSchedule = "HORARIO_DUPLICADO"
)

// ActivityPayload is one activity as the backend stores it.
type ActivityPayload struct {
	OTI            string     `json:"oti" validate:"required"`
	ProductionArea string     `json:"areaProduccion" validate:"required"`
	Machines       []string   `json:"maquina" validate:"required,min=1"`
	Processes      []string   `json:"procesos" validate:"required,min=1"`
	Supplies       []string   `json:"insumos" validate:"required,min=1"`
	TimeType       string     `json:"tipoTiempo" validate:"time_type"`
	PermitType     *string    `json:"tipoPermiso"`
	StartTime      *time.Time `json:"horaInicio"`
	EndTime        *time.Time `json:"horaFin"`
	Minutes        int        `json:"tiempo" validate:"min=0"`
	Observations   *string    `json:"observaciones"`
}

// ShiftPayload is the body of a shift submission.
type ShiftPayload struct {
	Date       string            `json:"fecha" validate:"required"`
	StartTime  *time.Time        `json:"horaInicio" validate:"required"`
	EndTime    *time.Time        `json:"horaFin" validate:"required"`
	Operator   string            `json:"operario" validate:"required"`
	Activities []ActivityPayload `json:"actividades" validate:"required,min=1,dive"`
}

// SubmitResult identifies the shift the backend stored.
type SubmitResult struct {
	ID      string
	Created bool
}

// BuildPayload turns a draft into a submission body. Times are placed on
// the shift date in local time and keep their offset when encoded.
func BuildPayload(shift domain.Shift) (*ShiftPayload, error) {
	start, end := domain.ShiftBounds(shift.Activities)

	payload := &ShiftPayload{
		Date:       shift.DateString(),
		StartTime:  domain.CombineDateAndClock(shift.Date, start),
		EndTime:    domain.CombineDateAndClock(shift.Date, end),
		Operator:   shift.OperatorID,
		Activities: make([]ActivityPayload, 0, len(shift.Activities)),
	}

	for _, a := range shift.Activities {
		payload.Activities = append(payload.Activities, ActivityPayload{
			OTI:            a.OTI,
			ProductionArea: a.ProductionArea,
			Machines:       orEmpty(a.Machines),
			Processes:      orEmpty(a.Processes),
			Supplies:       orEmpty(a.Supplies),
			TimeType:       string(a.TimeType),
			PermitType:     optional(string(a.PermitType)),
			StartTime:      domain.CombineDateAndClock(shift.Date, a.StartTime),
			EndTime:        domain.CombineDateAndClock(shift.Date, a.EndTime),
			Minutes:        a.ComputedMinutes(),
			Observations:   optional(a.Observations),
		})
	}

	if err := validation.FromStructErrors(validation.ValidateStruct(payload)); err != nil {
		return nil, errors.NewValidationError("la jornada no se puede enviar: "+err.Error(), err)
	}
	return payload, nil
}

// SubmitShift creates a shift, or replaces remoteID when it is set.
func (c *Client) SubmitShift(ctx context.Context, remoteID string, payload *ShiftPayload) (*SubmitResult, error) {
	method, endpoint := http.MethodPost, "/api/jornadas/completa"
	if remoteID != "" {
		method, endpoint = http.MethodPut, "/api/jornadas/"+url.PathEscape(remoteID)
	}

	resp, err := c.call(ctx, method, endpoint, nil, payload)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		c.logger.Warn("shift rejected", "status", resp.StatusCode, "body", string(resp.Body))
		return nil, ClassifySubmissionError(resp.StatusCode, resp.Body)
	}

	result := &SubmitResult{ID: remoteID, Created: remoteID == ""}
	if id := storedShiftID(resp.Body); id != "" {
		result.ID = id
	}
	return result, nil
}

// errorBody is the error shape the backend answers with.
type errorBody struct {
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

// ClassifySubmissionError maps a rejected submission to a conflict error
// for a duplicated work schedule, or to a submission error carrying the
// backend's text.
func ClassifySubmissionError(status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	text := eb.Error
	if text == "" {
		text = eb.Msg
	}

	switch {
	case strings.Contains(text, `Ya existe un registro con el proceso "Horario Laboral"`),
		strings.Contains(text, "Ya existe un registro de Horario Laboral"):
		return errors.NewConflictError(MsgDuplicateSchedule, CodeDuplicateSchedule)
	case strings.Contains(text, CodeDuplicateSchedule), eb.Code == CodeDuplicateSchedule:
		return errors.NewConflictError(MsgDuplicateScheduleCode, CodeDuplicateSchedule)
	case text == "":
		return errors.NewSubmissionError(MsgUnexpected, status)
	case strings.Contains(text, "Hubo un error al guardar la jornada completa"):
		msg := "❌ Error al procesar la jornada."
		if details := detailsText(eb.Details); details != "" {
			msg += " Detalles: " + details
		}
		return errors.NewSubmissionError(msg, status)
	case strings.Contains(text, "validation failed"):
		return errors.NewSubmissionError("❌ Error de validación: "+text, status)
	default:
		return errors.NewSubmissionError("❌ Error al guardar: "+text, status)
	}
}

func detailsText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// storedShiftID reads the id from either the shift itself or a
// {jornada: {...}} wrapper.
func storedShiftID(body []byte) string {
	var reply struct {
		ID      string `json:"_id"`
		Jornada *struct {
			ID string `json:"_id"`
		} `json:"jornada"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return ""
	}
	if reply.ID != "" {
		return reply.ID
	}
	if reply.Jornada != nil {
		return reply.Jornada.ID
	}
	return ""
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func (p *ShiftPayload) String() string {
	return fmt.Sprintf("jornada %s de %s con %d actividades", p.Date, p.Operator, len(p.Activities))
}

package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
)

// ShiftQuery filters the paginated shift listing. Empty fields do not filter.
type ShiftQuery struct {
	Operator string
	From     string
	To       string
	Limit    int
}

// GetShift reads one persisted shift with its populated activities.
func (c *Client) GetShift(ctx context.Context, id string) (*domain.PersistedShift, error) {
	resp, err := c.get(ctx, "/api/jornadas/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewNotFoundError("jornada", id)
	}
	if !resp.ok() {
		return nil, errors.NewLookupError("jornada", id, statusError(resp))
	}

	var shift domain.PersistedShift
	if err := unmarshalBody(resp, &shift); err != nil {
		return nil, errors.NewLookupError("jornada", id, err)
	}
	return &shift, nil
}

// ShiftsByOperator lists an operator's shifts. When date is set only the
// shifts whose day matches it are kept. A 404 means the operator has none.
func (c *Client) ShiftsByOperator(ctx context.Context, operatorID, date string) ([]domain.PersistedShift, error) {
	var query url.Values
	if date != "" {
		query = url.Values{"fecha": {date}}
	}

	resp, err := c.get(ctx, "/api/jornadas/operario/"+url.PathEscape(operatorID), query)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return []domain.PersistedShift{}, nil
	}
	if !resp.ok() {
		return nil, errors.NewLookupError("jornadas del operario", operatorID, statusError(resp))
	}

	var shifts []domain.PersistedShift
	if strings.TrimSpace(string(resp.Body)) != "" {
		if err := unmarshalBody(resp, &shifts); err != nil {
			return nil, errors.NewLookupError("jornadas del operario", operatorID, err)
		}
	}
	if date == "" {
		return shifts, nil
	}

	sameDay := make([]domain.PersistedShift, 0, len(shifts))
	for _, s := range shifts {
		if s.Day() == date {
			sameDay = append(sameDay, s)
		}
	}
	return sameDay, nil
}

// ListShifts reads the first page of the shift listing with activities
// included, which is how payroll exports are fetched.
func (c *Client) ListShifts(ctx context.Context, q ShiftQuery) ([]domain.PersistedShift, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 1000
	}
	query := url.Values{
		"page":             {"1"},
		"limit":            {strconv.Itoa(limit)},
		"includeRegistros": {"true"},
	}
	if q.Operator != "" {
		query.Set("operario", q.Operator)
	}
	if q.From != "" {
		query.Set("fechaInicio", q.From)
	}
	if q.To != "" {
		query.Set("fechaFin", q.To)
	}

	resp, err := c.get(ctx, "/api/jornadas/paginadas", query)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, errors.NewLookupError("jornadas", "paginadas", statusError(resp))
	}

	var page struct {
		Jornadas []domain.PersistedShift `json:"jornadas"`
	}
	if err := unmarshalBody(resp, &page); err != nil {
		return nil, errors.NewLookupError("jornadas", "paginadas", err)
	}
	if page.Jornadas == nil {
		return []domain.PersistedShift{}, nil
	}
	return page.Jornadas, nil
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
)

// Record is a catalog entry decoded without a fixed schema, so that the
// presence of a field can be told apart from its zero value.
type Record map[string]interface{}

// IsActiveRecord reports whether a catalog entry may be offered to an
// operator. An entry is active when any of these hold:
//
//   - "estado" or "status" is "activo" or "active"
//   - "activo" or "active" is true, "true", 1 or "1"
//   - none of those four fields is present
//
// The last rule keeps legacy entries without any flag visible.
func IsActiveRecord(record Record) bool {
	hasStatus := false
	for _, key := range []string{"estado", "status"} {
		v, ok := record[key]
		if !ok {
			continue
		}
		hasStatus = true
		if s, isString := v.(string); isString && (s == "activo" || s == "active") {
			return true
		}
	}

	hasFlag := false
	for _, key := range []string{"activo", "active"} {
		v, ok := record[key]
		if !ok {
			continue
		}
		hasFlag = true
		switch flag := v.(type) {
		case bool:
			if flag {
				return true
			}
		case string:
			if flag == "true" || flag == "1" {
				return true
			}
		case float64:
			if flag == 1 {
				return true
			}
		}
	}

	return !hasStatus && !hasFlag
}

// DecodeRecords normalizes a catalog response: a bare array, or an object
// wrapping the array under "procesos" or "processes". Any other shape
// yields an empty list.
func DecodeRecords(body []byte) ([]Record, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []Record{}, nil
	}

	if body[0] == '[' {
		var records []Record
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("decode catalog array: %w", err)
		}
		return records, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode catalog object: %w", err)
	}
	for _, key := range []string{"procesos", "processes"} {
		raw, ok := wrapped[key]
		if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			continue
		}
		var records []Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return records, nil
	}
	return []Record{}, nil
}

// ToProcess reads the id and display name of a catalog entry.
func (r Record) ToProcess() domain.Process {
	return domain.Process{
		ID:   r.str("_id", "id"),
		Name: r.str("nombre", "name"),
	}
}

func (r Record) str(keys ...string) string {
	for _, key := range keys {
		if s, ok := r[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// ActiveProcesses keeps the active entries, in catalog order.
func ActiveProcesses(records []Record) []domain.Process {
	processes := make([]domain.Process, 0, len(records))
	for _, r := range records {
		if IsActiveRecord(r) {
			processes = append(processes, r.ToProcess())
		}
	}
	return processes
}

// ActiveProcesses fetches the process catalog of a production area and
// returns its active entries.
func (c *Client) ActiveProcesses(ctx context.Context, areaID string) ([]domain.Process, error) {
	if strings.TrimSpace(areaID) == "" {
		return []domain.Process{}, nil
	}

	resp, err := c.get(ctx, "/api/procesos", url.Values{"areaId": {areaID}})
	if err != nil {
		return nil, errors.NewLookupError("procesos", areaID, err)
	}
	if !resp.ok() {
		return nil, errors.NewLookupError("procesos", areaID, statusError(resp))
	}

	records, err := DecodeRecords(resp.Body)
	if err != nil {
		return nil, errors.NewLookupError("procesos", areaID, err)
	}
	return ActiveProcesses(records), nil
}

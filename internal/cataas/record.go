package cataas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// recordPayload mirrors the wire shape of a JSON cat response.
type recordPayload struct {
	ID        string   `json:"_id" validate:"required"`
	Mimetype  string   `json:"mimetype" validate:"required"`
	Size      *float64 `json:"size"`
	Tags      []string `json:"tags" validate:"required"`
	CreatedAt string   `json:"createdAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EditedAt  string   `json:"editedAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	UpdatedAt string   `json:"updatedAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseRecord decodes and validates a JSON record. Any failure is returned as
// a *SchemaError carrying the raw payload.
func ParseRecord(payload []byte) (*Record, error) {
	var raw recordPayload
	decoder := json.NewDecoder(bytes.NewReader(payload))
	if err := decoder.Decode(&raw); err != nil {
		return nil, &SchemaError{Payload: payload, Err: fmt.Errorf("decode: %w", err)}
	}
	if err := validate.Struct(raw); err != nil {
		return nil, &SchemaError{Payload: payload, Err: describeValidation(err)}
	}

	rec := &Record{
		ID:       raw.ID,
		Mimetype: raw.Mimetype,
		Size:     raw.Size,
		Tags:     raw.Tags,
	}
	// The layouts were checked by the validator above.
	rec.CreatedAt, _ = time.Parse(time.RFC3339, raw.CreatedAt)
	if raw.EditedAt != "" {
		rec.EditedAt, _ = time.Parse(time.RFC3339, raw.EditedAt)
	}
	if raw.UpdatedAt != "" {
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, raw.UpdatedAt)
	}
	return rec, nil
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := jsonFieldName(fe.StructField())
		switch fe.Tag() {
		case "required":
			parts = append(parts, name+" is required")
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s: %q is not an RFC 3339 timestamp", name, fe.Value()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", name, fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}

func jsonFieldName(structField string) string {
	switch structField {
	case "ID":
		return "_id"
	case "Mimetype":
		return "mimetype"
	case "Tags":
		return "tags"
	case "CreatedAt":
		return "createdAt"
	case "EditedAt":
		return "editedAt"
	case "UpdatedAt":
		return "updatedAt"
	default:
		return structField
	}
}

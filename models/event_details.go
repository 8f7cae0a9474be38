package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DetailKind tags the variant held by a DetailValue
type DetailKind uint8

const (
	DetailNull DetailKind = iota
	DetailBool
	DetailNumber
	DetailString
	DetailArray
	DetailObject
)

func (k DetailKind) String() string {
	switch k {
	case DetailNull:
		return "null"
	case DetailBool:
		return "bool"
	case DetailNumber:
		return "number"
	case DetailString:
		return "string"
	case DetailArray:
		return "array"
	case DetailObject:
		return "object"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// DetailValue is one node of a call event payload. Exactly one variant is
// meaningful, selected by Kind. Numbers keep their decimal text so integer
// payloads survive a round trip through storage unchanged.
type DetailValue struct {
	kind    DetailKind
	boolean bool
	number  json.Number
	text    string
	items   []DetailValue
	fields  map[string]DetailValue
}

func NullDetail() DetailValue { return DetailValue{kind: DetailNull} }

func BoolDetail(b bool) DetailValue { return DetailValue{kind: DetailBool, boolean: b} }

func IntDetail(n int64) DetailValue {
	return DetailValue{kind: DetailNumber, number: json.Number(strconv.FormatInt(n, 10))}
}

func FloatDetail(f float64) DetailValue {
	return DetailValue{kind: DetailNumber, number: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

func StringDetail(s string) DetailValue { return DetailValue{kind: DetailString, text: s} }

func ArrayDetail(items ...DetailValue) DetailValue {
	if items == nil {
		items = []DetailValue{}
	}
	return DetailValue{kind: DetailArray, items: items}
}

func ObjectDetail(fields map[string]DetailValue) DetailValue {
	if fields == nil {
		fields = map[string]DetailValue{}
	}
	return DetailValue{kind: DetailObject, fields: fields}
}

func (v DetailValue) Kind() DetailKind { return v.kind }

func (v DetailValue) IsNull() bool { return v.kind == DetailNull }

func (v DetailValue) AsBool() (bool, bool) { return v.boolean, v.kind == DetailBool }

func (v DetailValue) AsNumber() (json.Number, bool) { return v.number, v.kind == DetailNumber }

func (v DetailValue) AsString() (string, bool) { return v.text, v.kind == DetailString }

func (v DetailValue) AsArray() ([]DetailValue, bool) { return v.items, v.kind == DetailArray }

func (v DetailValue) AsObject() (map[string]DetailValue, bool) { return v.fields, v.kind == DetailObject }

// MarshalJSON encodes the active variant
func (v DetailValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case DetailNull:
		return []byte("null"), nil
	case DetailBool:
		return json.Marshal(v.boolean)
	case DetailNumber:
		if _, err := strconv.ParseFloat(string(v.number), 64); err != nil {
			return nil, fmt.Errorf("invalid detail number %q", v.number)
		}
		return []byte(v.number), nil
	case DetailString:
		return json.Marshal(v.text)
	case DetailArray:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	case DetailObject:
		if v.fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.fields)
	default:
		return nil, fmt.Errorf("unknown detail kind %s", v.kind)
	}
}

// UnmarshalJSON decodes any JSON value into the matching variant
func (v *DetailValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := detailFromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func detailFromAny(raw any) (DetailValue, error) {
	switch t := raw.(type) {
	case nil:
		return NullDetail(), nil
	case bool:
		return BoolDetail(t), nil
	case json.Number:
		return DetailValue{kind: DetailNumber, number: t}, nil
	case float64:
		return FloatDetail(t), nil
	case string:
		return StringDetail(t), nil
	case []any:
		items := make([]DetailValue, 0, len(t))
		for _, item := range t {
			parsed, err := detailFromAny(item)
			if err != nil {
				return DetailValue{}, err
			}
			items = append(items, parsed)
		}
		return ArrayDetail(items...), nil
	case map[string]any:
		fields := make(map[string]DetailValue, len(t))
		for key, item := range t {
			parsed, err := detailFromAny(item)
			if err != nil {
				return DetailValue{}, err
			}
			fields[key] = parsed
		}
		return ObjectDetail(fields), nil
	default:
		return DetailValue{}, fmt.Errorf("unsupported detail value of type %T", raw)
	}
}

// EventDetails is the top level of a call event payload: a key-value document.
// A nil map means the caller sent no details and is stored as SQL NULL.
type EventDetails map[string]DetailValue

// Value implements driver.Valuer
func (d EventDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (d *EventDetails) Scan(src any) error {
	var data []byte
	switch t := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return errors.New("event details: unsupported scan source " + fmt.Sprintf("%T", src))
	}

	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}

	var parsed EventDetails
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("event details: %w", err)
	}
	*d = parsed
	return nil
}

// GormDataType returns the generic data type used by gorm's migrator
func (EventDetails) GormDataType() string {
	return "json"
}

// GormDBDataType picks the column type per dialect
func (EventDetails) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	case "mysql":
		return "json"
	default:
		return "text"
	}
}

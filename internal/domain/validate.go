package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParseFeedPayload decodes and validates a raw NeoWs feed response. The
// returned payload is safe to normalize: every object carries an ID, a name,
// a hazard flag, a diameter estimate, and a close_approach_data array (which
// may legitimately be empty), and every approach carries its date key.
func ParseFeedPayload(data []byte) (*FeedPayload, error) {
	var payload FeedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, decodeError(err)
	}
	if err := ValidateFeedPayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// decodeError turns a json.Unmarshal failure into a SchemaError, keeping the
// offending field path when the decoder reports one.
func decodeError(err error) *SchemaError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &SchemaError{Path: typeErr.Field, Reason: fmt.Sprintf("unexpected %s", typeErr.Value)}
	}
	return &SchemaError{Path: "$", Reason: fmt.Sprintf("malformed JSON: %v", err)}
}

// ValidateFeedPayload checks a decoded feed payload against the minimum shape
// normalization relies on. It fails on the first violation found.
func ValidateFeedPayload(p *FeedPayload) error {
	if p.NearEarthObjects == nil {
		return &SchemaError{Path: "near_earth_objects", Reason: "missing"}
	}
	for date, objects := range p.NearEarthObjects {
		for i := range objects {
			path := fmt.Sprintf("near_earth_objects.%s[%d]", date, i)
			if err := validateObject(&objects[i], path); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseDetailPayload decodes and validates a raw NeoWs lookup response.
func ParseDetailPayload(data []byte) (*RawObject, error) {
	var obj RawObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, decodeError(err)
	}
	if err := validateObject(&obj, ""); err != nil {
		return nil, err
	}
	return &obj, nil
}

// validateObject applies the per-object shape checks shared by feed and
// lookup payloads. An empty close_approach_data array passes; a missing or
// null one does not.
func validateObject(obj *RawObject, path string) error {
	if obj.ID == nil || *obj.ID == "" {
		return &SchemaError{Path: fieldPath(path, "id"), Reason: "missing or empty"}
	}
	if obj.Name == nil || *obj.Name == "" {
		return &SchemaError{Path: fieldPath(path, "name"), Reason: "missing or empty"}
	}
	if obj.Hazardous == nil {
		return &SchemaError{Path: fieldPath(path, "is_potentially_hazardous_asteroid"), Reason: "missing"}
	}
	if obj.EstimatedDiameter == nil {
		return &SchemaError{Path: fieldPath(path, "estimated_diameter"), Reason: "missing"}
	}
	if obj.CloseApproachData == nil {
		return &SchemaError{Path: fieldPath(path, "close_approach_data"), Reason: "missing"}
	}
	for i, approach := range obj.CloseApproachData {
		if approach.CloseApproachDate == nil || *approach.CloseApproachDate == "" {
			return &SchemaError{
				Path:   fmt.Sprintf("%s[%d].close_approach_date", fieldPath(path, "close_approach_data"), i),
				Reason: "missing or empty",
			}
		}
	}
	return nil
}

func fieldPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

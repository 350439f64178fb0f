// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package operators

import (
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	uuid "github.com/gofrs/uuid"

	"github.com/qolzam/hybridq/qlerrors"
	"github.com/qolzam/hybridq/types"
)

// ltreeLabel matches one label of a PostgreSQL ltree path.
var ltreeLabel = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// normalizeLiteral validates a literal against the field's declared scalar
// type and returns the value to bind. Validation happens here, before any
// SQL is rendered, so malformed input fails loudly instead of surfacing as a
// runtime "operator does not exist" from PostgreSQL.
func normalizeLiteral(t types.ScalarType, field string, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, &qlerrors.InvalidLiteralError{
			Field: field, Value: v, Want: t.String(), Reason: "literal must not be null",
		}
	}

	switch t {
	case types.Integer, types.Float, types.Decimal:
		return normalizeNumeric(t, field, v)
	case types.Boolean:
		return normalizeBoolean(field, v)
	case types.Uuid:
		return normalizeUUID(field, v)
	case types.IpAddress:
		return normalizeIP(field, v)
	case types.Date:
		return normalizeDate(field, v)
	case types.DateTime:
		return normalizeDateTime(field, v)
	case types.HierarchicalPath:
		return normalizeLtree(field, v)
	case types.Text, types.Hostname:
		s, ok := v.(string)
		if !ok {
			return nil, &qlerrors.InvalidLiteralError{
				Field: field, Value: v, Want: t.String(), Reason: "expected a string",
			}
		}
		return s, nil
	}

	// Generic and anything unrecognized: bind as-is, compare as text.
	return v, nil
}

func normalizeNumeric(t types.ScalarType, field string, v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return n, nil
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return nil, &qlerrors.InvalidLiteralError{
				Field: field, Value: v, Want: t.String(), Reason: "string does not parse as a number",
			}
		}
		return n, nil
	}
	return nil, &qlerrors.InvalidLiteralError{
		Field: field, Value: v, Want: t.String(), Reason: "expected a number",
	}
}

// normalizeBoolean lowers booleans to the lowercase text PostgreSQL stores
// inside JSONB. The comparison stays text against text; no ::boolean cast is
// ever emitted.
func normalizeBoolean(field string, v interface{}) (interface{}, error) {
	switch b := v.(type) {
	case bool:
		if b {
			return "true", nil
		}
		return "false", nil
	case string:
		switch strings.ToLower(b) {
		case "true":
			return "true", nil
		case "false":
			return "false", nil
		}
	}
	return nil, &qlerrors.InvalidLiteralError{
		Field: field, Value: v, Want: "boolean", Reason: "expected true or false",
	}
}

func normalizeUUID(field string, v interface{}) (interface{}, error) {
	switch u := v.(type) {
	case uuid.UUID:
		return u.String(), nil
	case string:
		parsed, err := uuid.FromString(u)
		if err != nil {
			return nil, &qlerrors.InvalidLiteralError{
				Field: field, Value: v, Want: "uuid", Reason: err.Error(),
			}
		}
		return parsed.String(), nil
	}
	return nil, &qlerrors.InvalidLiteralError{
		Field: field, Value: v, Want: "uuid", Reason: "expected a UUID",
	}
}

func normalizeIP(field string, v interface{}) (interface{}, error) {
	switch ip := v.(type) {
	case net.IP:
		return ip.String(), nil
	case string:
		if net.ParseIP(ip) == nil {
			// Also accept CIDR notation, inet columns store either.
			if _, _, err := net.ParseCIDR(ip); err != nil {
				return nil, &qlerrors.InvalidLiteralError{
					Field: field, Value: v, Want: "ipaddress", Reason: "not a valid IP address",
				}
			}
		}
		return ip, nil
	}
	return nil, &qlerrors.InvalidLiteralError{
		Field: field, Value: v, Want: "ipaddress", Reason: "expected an IP address",
	}
}

func normalizeDate(field string, v interface{}) (interface{}, error) {
	switch d := v.(type) {
	case time.Time:
		return d.Format("2006-01-02"), nil
	case string:
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, &qlerrors.InvalidLiteralError{
				Field: field, Value: v, Want: "date", Reason: "expected YYYY-MM-DD",
			}
		}
		return d, nil
	}
	return nil, &qlerrors.InvalidLiteralError{
		Field: field, Value: v, Want: "date", Reason: "expected a date",
	}
}

func normalizeDateTime(field string, v interface{}) (interface{}, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if _, err := time.Parse(layout, d); err == nil {
				return d, nil
			}
		}
		return nil, &qlerrors.InvalidLiteralError{
			Field: field, Value: v, Want: "datetime", Reason: "expected an RFC 3339 timestamp",
		}
	}
	return nil, &qlerrors.InvalidLiteralError{
		Field: field, Value: v, Want: "datetime", Reason: "expected a timestamp",
	}
}

// normalizeLtree validates the dotted-label shape of an ltree literal. The
// check runs only for fields DECLARED HierarchicalPath; a hostname value
// containing dots never reaches this path.
func normalizeLtree(field string, v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, &qlerrors.InvalidLiteralError{
			Field: field, Value: v, Want: "hierarchicalpath", Reason: "expected a string path",
		}
	}
	if s == "" {
		return nil, &qlerrors.InvalidLiteralError{
			Field: field, Value: v, Want: "hierarchicalpath", Reason: "path must not be empty",
		}
	}
	for _, label := range strings.Split(s, ".") {
		if !ltreeLabel.MatchString(label) {
			return nil, &qlerrors.InvalidLiteralError{
				Field: field, Value: v, Want: "hierarchicalpath",
				Reason: "labels must be alphanumeric or underscore",
			}
		}
	}
	return s, nil
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The bulk submission body is validated against a schema before any typed
// decoding: the payload comes from a multi-row form and the earlier a bad
// row is rejected, the better the error points at it.
const bulkUpsertSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["items"],
  "additionalProperties": false,
  "properties": {
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["recyclables_id", "action"],
        "additionalProperties": false,
        "properties": {
          "recyclables_id": {"type": "integer", "minimum": 1},
          "action": {"type": "integer", "enum": [1, 2]},
          "monthly_volume": {"type": "integer", "minimum": 0},
          "price": {"type": "number", "minimum": 0},
          "deleted": {"type": "boolean"},
          "status": {"type": "integer", "enum": [1, 2, 3]}
        }
      }
    }
  }
}`

var compiledBulkUpsertSchema = jsonschema.MustCompileString("bulk_upsert.json", bulkUpsertSchema)

// Company patches carry boolean flags as spelled-out strings, so the schema
// checks types and spellings the coercion layer would otherwise reject one
// field at a time.
const companyPatchSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "inn": {"type": "string"},
    "address": {"type": "string"},
    "latitude": {"type": "number"},
    "longitude": {"type": "number"},
    "description": {"type": "string"},
    "with_vat": {"type": "string", "pattern": "^(?i)(yes|no|true|false|t|f|1|0)$"},
    "bic": {"type": "string"},
    "payment_account": {"type": "string"},
    "correspondent_account": {"type": "string"},
    "bank_name": {"type": "string"},
    "head_full_name": {"type": "string"},
    "phone": {"type": "string"},
    "email": {"type": "string"},
    "city_id": {"type": "integer", "minimum": 1},
    "manager_id": {"type": "integer", "minimum": 1}
  }
}`

var compiledCompanyPatchSchema = jsonschema.MustCompileString("company_patch.json", companyPatchSchema)

// validateBulkUpsert checks raw against the bulk submission schema and
// returns a human-readable violation, or "" when the body is valid.
func validateBulkUpsert(raw []byte) string {
	return validateAgainst(compiledBulkUpsertSchema, raw, "invalid bulk payload")
}

// validateCompanyPatch checks raw against the company patch schema.
func validateCompanyPatch(raw []byte) string {
	return validateAgainst(compiledCompanyPatchSchema, raw, "invalid company patch")
}

func validateAgainst(schema *jsonschema.Schema, raw []byte, label string) string {
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return "invalid json body"
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Sprintf("%s: %v", label, err)
	}
	return ""
}

package report

// CallSchema is the JSON Schema (Draft 2020-12) for a call outcome as
// written by WriteCallJSON. Exactly one of result and error is present.
const CallSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/quotient/call-outcome.schema.json",
  "title": "Quotient Call Outcome",
  "description": "Output schema for quotient call --format=json",
  "type": "object",
  "required": ["id", "function", "args", "ok", "metadata"],
  "properties": {
    "id": {
      "type": "string",
      "description": "Call identifier (UUID)"
    },
    "function": {
      "type": "string",
      "description": "Qualified function name (Object.name)"
    },
    "args": {
      "type": "object",
      "additionalProperties": {
        "type": ["integer", "number", "string", "boolean"]
      }
    },
    "ok": { "type": "boolean" },
    "result": {
      "type": ["integer", "number", "string", "boolean"],
      "description": "Success value"
    },
    "error": { "$ref": "#/$defs/CallError" },
    "metadata": { "$ref": "#/$defs/Metadata" }
  },
  "oneOf": [
    {
      "properties": { "ok": { "const": true } },
      "required": ["result"],
      "not": { "required": ["error"] }
    },
    {
      "properties": { "ok": { "const": false } },
      "required": ["error"],
      "not": { "required": ["result"] }
    }
  ],
  "$defs": {
    "CallError": {
      "type": "object",
      "required": ["kind", "message"],
      "properties": {
        "kind": {
          "type": "string",
          "description": "Error kind, e.g. InvalidArgument"
        },
        "message": { "type": "string" }
      }
    },
    "Metadata": {
      "type": "object",
      "required": ["version", "go_version", "duration_ms"],
      "properties": {
        "version": { "type": "string" },
        "go_version": { "type": "string" },
        "duration_ms": {
          "type": "integer",
          "description": "Call duration in milliseconds"
        },
        "timestamp": {
          "type": "string",
          "description": "RFC 3339 start time"
        }
      }
    }
  }
}`

// FunctionsSchema is the JSON Schema (Draft 2020-12) for a function
// listing as written by WriteFunctionsJSON.
const FunctionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/quotient/functions.schema.json",
  "title": "Quotient Function Table",
  "description": "Output schema for quotient functions --format=json",
  "type": "object",
  "required": ["version", "object", "functions"],
  "properties": {
    "version": { "type": "string" },
    "package": {
      "type": "string",
      "description": "Import path, when described from source"
    },
    "object": { "type": "string" },
    "functions": {
      "type": "array",
      "items": { "$ref": "#/$defs/FunctionDef" }
    },
    "warnings": {
      "type": "array",
      "items": { "type": "string" }
    }
  },
  "$defs": {
    "Kind": {
      "type": "string",
      "enum": ["Integer", "Float", "String", "Boolean"]
    },
    "ArgDef": {
      "type": "object",
      "required": ["name", "kind"],
      "properties": {
        "name": { "type": "string" },
        "kind": { "$ref": "#/$defs/Kind" },
        "description": { "type": "string" }
      }
    },
    "FunctionDef": {
      "type": "object",
      "required": ["object", "name", "args", "returns"],
      "properties": {
        "object": { "type": "string" },
        "name": { "type": "string" },
        "description": { "type": "string" },
        "args": {
          "type": "array",
          "items": { "$ref": "#/$defs/ArgDef" }
        },
        "returns": { "$ref": "#/$defs/Kind" },
        "location": {
          "type": "string",
          "description": "Source position (file:line:col)"
        },
        "complexity": {
          "type": "integer",
          "minimum": 1,
          "description": "Cyclomatic complexity"
        }
      }
    }
  }
}`

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unbound-force/quotient/internal/calc"
	"github.com/unbound-force/quotient/internal/registry"
)

const testModulePkg = "github.com/unbound-force/quotient/internal/introspect/testdata/src/mymodule"

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := calc.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

// executeRoot runs the root command with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(newTestRegistry(t))
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

// ---------------------------------------------------------------------------
// runCall tests
// ---------------------------------------------------------------------------

func TestRunCall_InvalidFormat(t *testing.T) {
	err := runCall(context.Background(), callParams{
		reg:      newTestRegistry(t),
		function: "divide",
		raw:      map[string]string{"a": "1", "b": "1"},
		format:   "yaml",
		stdout:   &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), `invalid format "yaml"`) {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestRunCall_Text(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{"10", "2", "Result: 5.0"},
		{"7", "2", "Result: 3.5"},
		{"-9", "3", "Result: -3.0"},
		{"0", "5", "Result: 0.0"},
	}
	for _, tt := range tests {
		var stdout bytes.Buffer
		err := runCall(context.Background(), callParams{
			reg:      newTestRegistry(t),
			function: "divide",
			raw:      map[string]string{"a": tt.a, "b": tt.b},
			format:   "text",
			stdout:   &stdout,
		})
		if err != nil {
			t.Fatalf("divide(%s, %s): unexpected error: %v", tt.a, tt.b, err)
		}
		if !strings.Contains(stdout.String(), tt.want) {
			t.Errorf("divide(%s, %s): expected %q, got:\n%s", tt.a, tt.b, tt.want, stdout.String())
		}
	}
}

func TestRunCall_JSON(t *testing.T) {
	var stdout bytes.Buffer
	err := runCall(context.Background(), callParams{
		reg:      newTestRegistry(t),
		function: "divide",
		raw:      map[string]string{"a": "7", "b": "2"},
		format:   "json",
		stdout:   &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput:\n%s", err, stdout.String())
	}
	if parsed["ok"] != true || parsed["result"] != 3.5 {
		t.Errorf("unexpected outcome: %v", parsed)
	}
	if parsed["function"] != "MyModule.divide" {
		t.Errorf("function = %v", parsed["function"])
	}
	meta, _ := parsed["metadata"].(map[string]any)
	if meta["version"] != version || meta["go_version"] == "" {
		t.Errorf("unexpected metadata: %v", meta)
	}
}

func TestRunCall_DivideByZero(t *testing.T) {
	var stdout bytes.Buffer
	err := runCall(context.Background(), callParams{
		reg:      newTestRegistry(t),
		function: "divide",
		raw:      map[string]string{"a": "5", "b": "0"},
		format:   "json",
		stdout:   &stdout,
	})
	if err == nil {
		t.Fatal("expected error for division by zero")
	}
	if !errors.Is(err, calc.ErrDivideByZero) {
		t.Errorf("expected ErrDivideByZero in chain, got %v", err)
	}

	// The outcome is still written.
	var parsed struct {
		OK    bool `json:"ok"`
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput:\n%s", err, stdout.String())
	}
	if parsed.OK {
		t.Error("expected ok=false")
	}
	if parsed.Error.Kind != "InvalidArgument" || parsed.Error.Message != "cannot divide by zero" {
		t.Errorf("unexpected error payload: %+v", parsed.Error)
	}
}

func TestRunCall_BadArgument(t *testing.T) {
	var stdout bytes.Buffer
	err := runCall(context.Background(), callParams{
		reg:      newTestRegistry(t),
		function: "divide",
		raw:      map[string]string{"a": "ten", "b": "2"},
		format:   "text",
		stdout:   &stdout,
	})
	if !errors.Is(err, registry.ErrBadArgument) {
		t.Fatalf("expected ErrBadArgument, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("no outcome should be written for a dispatch error, got:\n%s", stdout.String())
	}
}

func TestRunCall_UnknownFunction(t *testing.T) {
	err := runCall(context.Background(), callParams{
		reg:      newTestRegistry(t),
		function: "multiply",
		format:   "text",
		stdout:   &bytes.Buffer{},
	})
	if !errors.Is(err, registry.ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestRunCall_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout bytes.Buffer
	err := runCall(ctx, callParams{
		reg:      newTestRegistry(t),
		function: "divide",
		raw:      map[string]string{"a": "1", "b": "1"},
		format:   "text",
		stdout:   &stdout,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("no outcome should be written, got:\n%s", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// command tree tests
// ---------------------------------------------------------------------------

func TestCallCommand_Flags(t *testing.T) {
	out, err := executeRoot(t, "call", "divide", "--a", "10", "--b", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Result: 5.0") {
		t.Errorf("expected 'Result: 5.0', got:\n%s", out)
	}
}

func TestCallCommand_NegativeValueAndJSON(t *testing.T) {
	out, err := executeRoot(t, "call", "divide", "--a=-9", "--b", "3", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"result": -3`) {
		t.Errorf("expected result -3 in JSON, got:\n%s", out)
	}
}

func TestCallCommand_DivideByZeroExitsWithError(t *testing.T) {
	out, err := executeRoot(t, "call", "divide", "--a", "5", "--b", "0")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "cannot divide by zero") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "InvalidArgument") {
		t.Errorf("expected outcome on stdout, got:\n%s", out)
	}
}

func TestCallCommand_MissingFlag(t *testing.T) {
	_, err := executeRoot(t, "call", "divide", "--a", "5")
	if err == nil {
		t.Fatal("expected error for missing required flag")
	}
	if !strings.Contains(err.Error(), `"b"`) {
		t.Errorf("error should name the missing flag: %v", err)
	}
}

func TestCallCommand_InvalidFormatFlag(t *testing.T) {
	_, err := executeRoot(t, "call", "divide", "--a", "1", "--b", "1", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), `invalid format "xml"`) {
		t.Errorf("expected invalid format error, got %v", err)
	}
}

func TestCallCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".quotient.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeRoot(t, "--config", path, "call", "divide", "--a", "1", "--b", "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"result": 0.25`) {
		t.Errorf("expected JSON from config format, got:\n%s", out)
	}

	// The flag wins over the file.
	out, err = executeRoot(t, "--config", path, "--format", "text", "call", "divide", "--a", "1", "--b", "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Result: 0.25") {
		t.Errorf("expected text output from flag override, got:\n%s", out)
	}
}

func TestCallCommand_BadConfigFile(t *testing.T) {
	_, err := executeRoot(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "schema")
	if err == nil || !strings.Contains(err.Error(), "config file") {
		t.Errorf("expected config file error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// runFunctions tests
// ---------------------------------------------------------------------------

func TestRunFunctions_Registry(t *testing.T) {
	var stdout bytes.Buffer
	err := runFunctions(functionsParams{
		reg:    newTestRegistry(t),
		format: "text",
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "divide") || !strings.Contains(out, "1 function(s) on MyModule") {
		t.Errorf("unexpected listing:\n%s", out)
	}
}

func TestRunFunctions_SourceJSON(t *testing.T) {
	var stdout bytes.Buffer
	err := runFunctions(functionsParams{
		reg:    newTestRegistry(t),
		source: testModulePkg,
		object: "MyModule",
		format: "json",
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed struct {
		Package   string `json:"package"`
		Functions []struct {
			Name       string `json:"name"`
			Complexity int    `json:"complexity"`
		} `json:"functions"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput:\n%s", err, stdout.String())
	}
	if parsed.Package != testModulePkg {
		t.Errorf("package = %q", parsed.Package)
	}
	if len(parsed.Functions) == 0 || parsed.Functions[0].Name != "divide" {
		t.Errorf("expected divide first, got %+v", parsed.Functions)
	}
	if len(parsed.Warnings) == 0 {
		t.Error("expected warnings for unsupported methods")
	}
}

func TestRunFunctions_SourceMissingObject(t *testing.T) {
	err := runFunctions(functionsParams{
		reg:    newTestRegistry(t),
		source: testModulePkg,
		object: "Nope",
		format: "text",
		stdout: &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestRunFunctions_InvalidFormat(t *testing.T) {
	err := runFunctions(functionsParams{
		reg:    newTestRegistry(t),
		format: "html",
		stdout: &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), `invalid format "html"`) {
		t.Errorf("expected invalid format error, got %v", err)
	}
}

func TestFunctionsCommand_ObjectFromConfigDefault(t *testing.T) {
	out, err := executeRoot(t, "functions", "--source", testModulePkg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "httpStatus") {
		t.Errorf("expected discovered httpStatus, got:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// schema tests
// ---------------------------------------------------------------------------

func TestSchemaCommand(t *testing.T) {
	out, err := executeRoot(t, "schema")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Quotient Call Outcome") {
		t.Errorf("expected call schema, got:\n%s", out)
	}

	out, err = executeRoot(t, "schema", "functions")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Quotient Function Table") {
		t.Errorf("expected functions schema, got:\n%s", out)
	}

	if _, err := executeRoot(t, "schema", "bogus"); err == nil {
		t.Error("expected error for unknown schema name")
	}
}

// ---------------------------------------------------------------------------
// init tests
// ---------------------------------------------------------------------------

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// A broken config must not stop init from replacing it.
	if err := os.WriteFile(".quotient.yaml", []byte("output: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeRoot(t, "init")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "skipped") {
		t.Errorf("expected skip without --force, got:\n%s", out)
	}

	out, err = executeRoot(t, "init", "--force")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "overwritten") {
		t.Errorf("expected overwrite, got:\n%s", out)
	}

	// The scaffolded file is picked up as the default config.
	out, err = executeRoot(t, "functions")
	if err != nil {
		t.Fatalf("functions with scaffolded config: %v", err)
	}
	if !strings.Contains(out, "divide") {
		t.Errorf("unexpected listing:\n%s", out)
	}
}

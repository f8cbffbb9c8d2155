package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/router"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BUILD_API_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		arg     string
		service string
		method  string
		wantErr bool
	}{
		{"buildapi.ApiService/GetVersion", "buildapi.ApiService", "GetVersion", false},
		{"pkg.Svc/Build", "pkg.Svc", "Build", false},
		{"noslash", "", "", true},
		{"a/b/c", "", "", true},
		{"/Build", "", "", true},
		{"pkg.Svc/", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			service, method, err := ParseRoute(tt.arg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRoute) {
					t.Errorf("cli:cli_test - expected ErrInvalidRoute, got %v", err)
				}
				return
			}
			if err != nil || service != tt.service || method != tt.method {
				t.Errorf("cli:cli_test - ParseRoute(%q) = %q, %q, %v", tt.arg, service, method, err)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("cli:cli_test - unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != api.Version {
		t.Errorf("cli:cli_test - version = %q, want %q", out, api.Version)
	}
}

func TestCLI_ListMethods(t *testing.T) {
	out, err := runCLI(t, "list-methods")
	if err != nil {
		t.Fatalf("cli:cli_test - unexpected error: %v", err)
	}
	for _, want := range []string{"buildapi.ApiService/GetMethods", "buildapi.ArtifactsService/Stage"} {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("cli:cli_test - list-methods output missing %s:\n%s", want, out)
		}
	}
}

func TestCLI_RouteWritesOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.json")
	t.Setenv("BUILD_API_OUTPUT_MODE", "0600")

	_, err := runCLI(t, "buildapi.ApiService/GetVersion",
		"--input-json", filepath.Join(dir, "missing.json"),
		"--output-json", output)
	if err != nil {
		t.Fatalf("cli:cli_test - unexpected error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("cli:cli_test - output not written: %v", err)
	}
	var resp api.VersionGetResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("cli:cli_test - output is not valid JSON: %v\n%s", err, data)
	}
	if resp.Version == nil || resp.Version.Major != int32(api.CurrentVersion().Major()) {
		t.Errorf("cli:cli_test - unexpected version in %s", data)
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("cli:cli_test - stat output: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("cli:cli_test - output mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestCLI_RouteWithoutOutput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(input, []byte("{}"), 0o644); err != nil {
		t.Fatalf("cli:cli_test - write input: %v", err)
	}
	if _, err := runCLI(t, "buildapi.ApiService/GetMethods", "--input-json", input); err != nil {
		t.Errorf("cli:cli_test - unexpected error: %v", err)
	}
}

func TestCLI_Errors(t *testing.T) {
	_, err := runCLI(t, "not-a-route")
	if !errors.Is(err, ErrInvalidRoute) {
		t.Errorf("cli:cli_test - expected ErrInvalidRoute, got %v", err)
	}

	_, err = runCLI(t, "pkg.Unknown/Build")
	var unknown *router.UnknownServiceError
	if !errors.As(err, &unknown) || !strings.Contains(err.Error(), "pkg.Unknown/Build") {
		t.Errorf("cli:cli_test - expected UnknownServiceError naming the route, got %v", err)
	}

	_, err = runCLI(t, "version", "extra")
	if err == nil {
		t.Error("cli:cli_test - expected an error for extra arguments")
	}
}

func TestCLI_InvalidConfig(t *testing.T) {
	t.Setenv("BUILD_API_MIN_VERSION", ">= 99")
	if _, err := runCLI(t, "version"); err == nil {
		t.Error("cli:cli_test - expected an error when the minimum version is not met")
	}
}

func TestUsage_ContainsEnvironment(t *testing.T) {
	long := NewRootCommand().Long
	required := []string{"--input-json", "BUILD_API_LOG_LEVEL", "BUILD_API_OUTPUT_MODE", "BUILD_API_MIN_VERSION", "BUILD_API_ROUTE_EVENTS"}
	for _, word := range required {
		if !strings.Contains(long, word) {
			t.Errorf("cli:cli_test - usage should contain %q", word)
		}
	}
}

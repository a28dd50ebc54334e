package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeDoctor builds a doctor over a fixed environment map.
func fakeDoctor(vars map[string]string, chromePath string, found bool) *doctor {
	return &doctor{
		getenv:   func(k string) string { return vars[k] },
		lookPath: func() (string, bool) { return chromePath, found },
		version:  func(string) (string, error) { return "Chromium 120.0", nil },
	}
}

// fakeChrome creates an empty file standing in for the browser binary.
func fakeChrome(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDoctor_Ready(t *testing.T) {
	t.Parallel()

	chrome := fakeChrome(t)
	r := fakeDoctor(map[string]string{"ROD_BROWSER_BIN": chrome}, "", false).run()

	if !r.Chrome.Found || r.Chrome.Path != chrome {
		t.Errorf("Chrome = %+v, want found at %s", r.Chrome, chrome)
	}
	if r.Chrome.Version != "Chromium 120.0" {
		t.Errorf("Version = %q", r.Chrome.Version)
	}
	if !r.Chrome.Sandbox {
		t.Error("Sandbox = false, want true without ROD_NO_SANDBOX")
	}
	if !r.System.AssetsOK || len(r.System.Styles) == 0 {
		t.Errorf("System = %+v, want usable embedded assets", r.System)
	}
	if r.Env.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", r.Env.OS, runtime.GOOS)
	}
}

func TestDoctor_ChromeMissing(t *testing.T) {
	t.Parallel()

	r := fakeDoctor(nil, "", false).run()
	if r.Status != statusErrors {
		t.Errorf("Status = %q, want %q", r.Status, statusErrors)
	}
	if len(r.Errors) == 0 || !strings.Contains(r.Errors[0], "ROD_BROWSER_BIN") {
		t.Errorf("Errors = %v, want Chrome not found", r.Errors)
	}
}

func TestDoctor_ChromePathGone(t *testing.T) {
	t.Parallel()

	r := fakeDoctor(nil, "/definitely/not/chrome", true).run()
	if r.Chrome.Found {
		t.Error("Chrome.Found = true for missing binary")
	}
	if r.Status != statusErrors {
		t.Errorf("Status = %q, want errors", r.Status)
	}
}

func TestDoctor_CIWithoutNoSandbox(t *testing.T) {
	t.Parallel()

	chrome := fakeChrome(t)
	r := fakeDoctor(map[string]string{"CI": "true"}, chrome, true).run()

	if !r.Env.CI {
		t.Error("CI = false, want true")
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "ROD_NO_SANDBOX") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want ROD_NO_SANDBOX warning", r.Warnings)
	}
}

func TestDoctor_ContainerOverride(t *testing.T) {
	t.Parallel()

	chrome := fakeChrome(t)
	r := fakeDoctor(map[string]string{"DANFE_CONTAINER": "1", "ROD_NO_SANDBOX": "1"}, chrome, true).run()

	if !r.Env.Container || r.Env.ContainerHint != "DANFE_CONTAINER=1" {
		t.Errorf("Container = %v (%q), want detected via override", r.Env.Container, r.Env.ContainerHint)
	}
	if r.Chrome.Sandbox {
		t.Error("Sandbox = true, want false with ROD_NO_SANDBOX=1")
	}
}

func TestDoctor_BrokenConfig(t *testing.T) {
	t.Parallel()

	chrome := fakeChrome(t)
	cfg := filepath.Join(t.TempDir(), "danfe.yaml")
	if err := os.WriteFile(cfg, []byte("output:\n  bogus: 1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := fakeDoctor(map[string]string{"DANFE_CONFIG": cfg}, chrome, true).run()

	if r.Status != statusErrors {
		t.Errorf("Status = %q, want errors", r.Status)
	}
	if len(r.Errors) == 0 || !strings.HasPrefix(r.Errors[0], "DANFE_CONFIG:") {
		t.Errorf("Errors = %v, want DANFE_CONFIG error", r.Errors)
	}
}

func TestDoctor_VersionFailureIsWarning(t *testing.T) {
	t.Parallel()

	chrome := fakeChrome(t)
	d := fakeDoctor(nil, chrome, true)
	d.version = func(string) (string, error) { return "", errors.New("exec format error") }
	r := d.run()

	if !r.Chrome.Found {
		t.Error("Chrome.Found = false")
	}
	if r.Status == statusErrors {
		t.Errorf("Status = errors, want version failure to be a warning: %v", r.Errors)
	}
}

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(okConverter())
	exitCode := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput was: %s", err, stdout.String())
	}

	validStatuses := map[string]bool{statusReady: true, statusWarnings: true, statusErrors: true}
	if !validStatuses[result.Status] {
		t.Errorf("Invalid status %q", result.Status)
	}
	if result.Status == statusErrors && exitCode != ExitGeneral {
		t.Errorf("exit = %d for errors status, want %d", exitCode, ExitGeneral)
	}
	if result.Status != statusErrors && exitCode != ExitSuccess {
		t.Errorf("exit = %d for %s status, want %d", exitCode, result.Status, ExitSuccess)
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printDoctorResult(&buf, &doctorResult{
		Status:   statusWarnings,
		Chrome:   chromeInfo{Found: true, Path: "/usr/bin/chromium", Sandbox: false},
		Env:      envInfo{OS: "linux", Arch: "amd64", CI: true},
		System:   systemInfo{TempWritable: true, AssetsOK: true, Styles: []string{"danfe"}},
		Warnings: []string{"Container/CI detected"},
	})

	out := buf.String()
	for _, want := range []string{
		"danfe doctor",
		"[OK] Found at /usr/bin/chromium",
		"Sandbox: disabled",
		"CI: detected",
		"Styles: danfe",
		"[WARN] Container/CI detected",
		"Status: Ready with warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustSetenv_Restores(t *testing.T) {
	const key = "INVOKE_TESTUTIL_PROBE"
	defer MustUnsetenv(t, key)()

	cleanup := MustSetenv(t, key, "one")
	if got := os.Getenv(key); got != "one" {
		t.Fatalf("Getenv = %q, want one", got)
	}
	inner := MustUnsetenv(t, key)
	if _, ok := os.LookupEnv(key); ok {
		t.Fatal("variable should be unset")
	}
	inner()
	if got := os.Getenv(key); got != "one" {
		t.Errorf("after inner cleanup Getenv = %q, want one", got)
	}
	cleanup()
	if _, ok := os.LookupEnv(key); ok {
		t.Error("variable should be unset after cleanup")
	}
}

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := MustWriteFile(t, dir, filepath.Join("a", "b", "tasks.yaml"), "tasks: []\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "tasks: []\n" {
		t.Errorf("content = %q", data)
	}
}

func TestMustChdir(t *testing.T) {
	dir := t.TempDir()
	before, _ := os.Getwd()

	restore := MustChdir(t, dir)
	now, _ := os.Getwd()
	resolved, _ := filepath.EvalSymlinks(dir)
	nowResolved, _ := filepath.EvalSymlinks(now)
	if nowResolved != resolved {
		t.Errorf("Getwd = %q, want %q", nowResolved, resolved)
	}
	restore()
	if after, _ := os.Getwd(); after != before {
		t.Errorf("Getwd after restore = %q, want %q", after, before)
	}
}

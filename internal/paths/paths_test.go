package paths

import (
	"path/filepath"
	"testing"
)

func TestDataDirOverride(t *testing.T) {
	t.Setenv("AUTOFLOW_DATA_DIR", "/tmp/autoflow-test-data")

	if got := DataDir(); got != "/tmp/autoflow-test-data" {
		t.Errorf("DataDir() = %q, want override", got)
	}
	if got := IndexFile(); got != filepath.Join("/tmp/autoflow-test-data", "index.json") {
		t.Errorf("IndexFile() = %q", got)
	}
	if got := RegistryFile(); got != filepath.Join("/tmp/autoflow-test-data", "autorun.json") {
		t.Errorf("RegistryFile() = %q", got)
	}
	if got := ErrorLogFile(); got != filepath.Join("/tmp/autoflow-test-data", "errors.log") {
		t.Errorf("ErrorLogFile() = %q", got)
	}
	if got := HistoryFile(); got != filepath.Join("/tmp/autoflow-test-data", "history.db") {
		t.Errorf("HistoryFile() = %q", got)
	}
}

func TestConfigDirOverride(t *testing.T) {
	t.Setenv("AUTOFLOW_CONFIG_DIR", "/tmp/autoflow-test-config")

	if got := ConfigDir(); got != "/tmp/autoflow-test-config" {
		t.Errorf("ConfigDir() = %q, want override", got)
	}
	if got := ConfigFile(); got != filepath.Join("/tmp/autoflow-test-config", "config.yaml") {
		t.Errorf("ConfigFile() = %q", got)
	}
}

func TestDefaultDirsAreAbsolute(t *testing.T) {
	t.Setenv("AUTOFLOW_CONFIG_DIR", "")
	t.Setenv("AUTOFLOW_DATA_DIR", "")

	if dir := ConfigDir(); !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir() = %q, want absolute path", dir)
	}
	if dir := DataDir(); !filepath.IsAbs(dir) {
		t.Errorf("DataDir() = %q, want absolute path", dir)
	}
}

package buildinfo

import (
	"runtime"
	"runtime/debug"
	"testing"
)

func TestBinaryVersion(t *testing.T) {
	if BinaryVersion != "dev" {
		t.Errorf("Expected BinaryVersion to be 'dev', got '%s'", BinaryVersion)
	}
}

func TestModuleVersionIntegration(t *testing.T) {
	expected := ""
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		expected = info.Main.Version
	}
	if actual := ModuleVersion(); expected != actual {
		t.Errorf("ModuleVersion() = '%s', expected '%s'", actual, expected)
	}
}

func TestCurrent(t *testing.T) {
	info := Current()
	if info.Version != BinaryVersion {
		t.Errorf("Version = %q, expected %q", info.Version, BinaryVersion)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, expected %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %q", info.Platform)
	}
}

func TestCurrent_LdflagsWin(t *testing.T) {
	old := GitCommit
	GitCommit = "abc1234"
	t.Cleanup(func() { GitCommit = old })

	if got := Current().Commit; got != "abc1234" {
		t.Errorf("Commit = %q, expected ldflags value", got)
	}
}

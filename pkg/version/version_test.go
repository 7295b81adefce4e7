package version

import (
	"strings"
	"testing"
)

func TestBuildVersion(t *testing.T) {
	if got := BuildVersion(); !strings.HasPrefix(got, "fiszki version ") || !strings.HasSuffix(got, APIVersion()) {
		t.Errorf("BuildVersion() = %q", got)
	}
}

package configs

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	data, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}

	for _, want := range []string{"![Illustration]", "![Make me Smile]", "random.json?limit=1"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Defaults() missing %q", want)
		}
	}
}

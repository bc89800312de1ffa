package document

import (
	"errors"
	"testing"
)

func TestFragment(t *testing.T) {
	got := Fragment("Illustration", "https://i.redd.it/abc123.png?width=100&height=100")
	want := "![Illustration](https://i.redd.it/abc123.png?width=100&height=100)"
	if got != want {
		t.Errorf("Fragment() = %q, want %q", got, want)
	}
}

func TestVerifyFragment(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		label    string
		wantErr  bool
	}{
		{
			name:     "image with query string",
			fragment: Fragment("Illustration", "https://i.redd.it/abc123.png?width=100&height=100"),
			label:    "Illustration",
		},
		{
			name:     "label with spaces",
			fragment: Fragment("Make me Smile", "https://i.redd.it/smile.jpeg?width=100&height=100"),
			label:    "Make me Smile",
		},
		{
			name:     "space in link breaks the image",
			fragment: Fragment("Illustration", "https://i.redd.it/a b.png"),
			label:    "Illustration",
			wantErr:  true,
		},
		{
			name:     "empty link",
			fragment: Fragment("Illustration", ""),
			label:    "Illustration",
			wantErr:  true,
		},
		{
			name:     "alt text mismatch",
			fragment: Fragment("Other", "https://i.redd.it/a.png"),
			label:    "Illustration",
			wantErr:  true,
		},
		{
			name:     "plain text",
			fragment: "no image here",
			label:    "Illustration",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyFragment(tt.fragment, tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyFragment(%q) error = %v, wantErr %v", tt.fragment, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFragment) {
				t.Errorf("VerifyFragment() error = %v, want ErrInvalidFragment", err)
			}
		})
	}
}

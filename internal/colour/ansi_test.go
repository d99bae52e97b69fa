package colour

import "testing"

func TestColourPreviewWithText(t *testing.T) {
	tests := []struct {
		name  string
		c     RGB
		text  string
		width int
		want  string
	}{
		{
			name:  "light background gets dark text",
			c:     RGB{R: 255, G: 255, B: 255},
			text:  "ab",
			width: 6,
			want:  "\033[48;2;255;255;255m\033[38;2;0;0;0m  ab  \033[0m",
		},
		{
			name:  "dark background gets light text",
			c:     RGB{R: 128, G: 128, B: 128},
			text:  "+0%",
			width: 6,
			want:  "\033[48;2;128;128;128m\033[38;2;255;255;255m +0%  \033[0m",
		},
		{
			name:  "long text is cut",
			c:     RGB{},
			text:  "-100%",
			width: 3,
			want:  "\033[48;2;0;0;0m\033[38;2;255;255;255m-10\033[0m",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColourPreviewWithText(tt.c, tt.text, tt.width); got != tt.want {
				t.Errorf("ColourPreviewWithText() = %q, want %q", got, tt.want)
			}
		})
	}
}

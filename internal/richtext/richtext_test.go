package richtext

import (
	"strings"
	"testing"
)

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"paragraph", "<p>Hello</p>", "Hello"},
		{"heading and bold", "<h2>Details</h2><p>Matte <strong>300g</strong> paper</p>", "## Details\n\nMatte **300g** paper"},
		{"italic", "<p>Print <em>both</em> sides</p>", "Print *both* sides"},
		{"unordered list", "<ul><li>A4</li><li>A3</li></ul>", "- A4\n- A3"},
		{"ordered list", "<ol><li>Upload art</li><li>Approve proof</li></ol>", "1. Upload art\n2. Approve proof"},
		{"link", `<a href="https://globalprint.example/papers">paper guide</a>`, "[paper guide](https://globalprint.example/papers)"},
		{"image alt first", `<img alt="mockup" src="/media/mug.png">`, "![mockup](/media/mug.png)"},
		{"image without alt", `<img src="/media/mug.png" />`, "![](/media/mug.png)"},
		{"line break", "240x120mm<br>full color", "240x120mm\nfull color"},
		{"strikethrough", "<del>R$ 99,90</del> R$ 79,90", "~~R$ 99,90~~ R$ 79,90"},
		{"entities", "<p>Tom &amp; Jerry &lt;3</p>", "Tom & Jerry <3"},
		{"unknown tags stripped", `<span class="x">Caneca</span>`, "Caneca"},
		{"blockquote", "<blockquote>Ships in 3 days</blockquote>", "> Ships in 3 days"},
		{"rule", "<p>a</p><hr><p>b</p>", "a\n\n---\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTMLToMarkdown(tt.input)
			if got != tt.expected {
				t.Errorf("HTMLToMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"simple text", "Hello world"},
		{"heading", "# Business cards"},
		{"bold text", "Printed on **couché 300g**"},
		{"list", "- Item 1\n- Item 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderMarkdown(tt.input)
			if err != nil {
				t.Fatalf("RenderMarkdown() error = %v", err)
			}
			if tt.input == "" && result != "" {
				t.Errorf("RenderMarkdown(%q) = %q, want empty string", tt.input, result)
			}
			if tt.input != "" && result == "" {
				t.Errorf("RenderMarkdown(%q) returned empty string", tt.input)
			}
		})
	}
}

func TestRenderMarkdownWithWidth(t *testing.T) {
	input := "This is a very long line that should be wrapped at a specific width for testing purposes."

	result80, err := RenderMarkdownWithWidth(input, 80)
	if err != nil {
		t.Fatalf("RenderMarkdownWithWidth failed: %v", err)
	}
	result40, err := RenderMarkdownWithWidth(input, 40)
	if err != nil {
		t.Fatalf("RenderMarkdownWithWidth failed: %v", err)
	}
	if result80 == "" || result40 == "" {
		t.Error("RenderMarkdownWithWidth returned empty string")
	}

	// Zero width falls back to the default
	if _, err := RenderMarkdownWithWidth(input, 0); err != nil {
		t.Errorf("RenderMarkdownWithWidth(0) error = %v", err)
	}
}

func TestRenderDescription(t *testing.T) {
	out := RenderDescription("<p>Matte <strong>300g</strong> paper</p>", 60)
	if !strings.Contains(out, "300g") {
		t.Errorf("RenderDescription lost content: %q", out)
	}
	if strings.Contains(out, "<strong>") {
		t.Errorf("RenderDescription kept HTML tags: %q", out)
	}

	if got := RenderDescription("", 60); got != "" {
		t.Errorf("RenderDescription(\"\") = %q, want empty", got)
	}
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"plain text", false},
		{"5 < 6 and 7 > 3", false},
		{"<p>Hello</p>", true},
		{"Text with <br> inside", true},
		{"**markdown**", false},
	}

	for _, tt := range tests {
		if got := IsHTML(tt.input); got != tt.want {
			t.Errorf("IsHTML(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

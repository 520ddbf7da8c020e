package extract

import (
	"context"
	"strings"
	"testing"
)

func TestExtractDropsMarkupAndScripts(t *testing.T) {
	t.Parallel()

	html := `<html><head><style>p { color: red }</style></head>
	<body><h1>标题</h1><p>正文第一段。</p>
	<script>console.log("tracking")</script>
	<p>正文第二段。</p></body></html>`

	text, err := NewHTMLExtractor().Extract(context.Background(), strings.NewReader(html))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if !strings.Contains(text, "正文第一段。") || !strings.Contains(text, "正文第二段。") {
		t.Fatalf("body text missing: %q", text)
	}
	if strings.Contains(text, "tracking") || strings.Contains(text, "color") {
		t.Fatalf("script/style leaked into text: %q", text)
	}
}

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	text, err := NewHTMLExtractor().Extract(context.Background(), strings.NewReader("just   plain\n\ntext"))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if text != "just plain text" {
		t.Fatalf("text = %q", text)
	}
}

package tmpl

import "testing"

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		want     string
	}{
		{
			name:     "page placeholders",
			template: "<title>{{title}}</title><time>{{date}}</time>{{content}}",
			values:   map[string]string{"title": "Hello", "date": "2024-06-01", "content": "<p>x</p>"},
			want:     "<title>Hello</title><time>2024-06-01</time><p>x</p>",
		},
		{
			name:     "repeated placeholder",
			template: "<title>{{title}}</title><h1>{{title}}</h1>",
			values:   map[string]string{"title": "Twice"},
			want:     "<title>Twice</title><h1>Twice</h1>",
		},
		{
			name:     "unknown placeholder untouched",
			template: "{{title}} {{author}}",
			values:   map[string]string{"title": "T"},
			want:     "T {{author}}",
		},
		{
			name:     "value containing a token is not expanded",
			template: "{{title}}|{{date}}",
			values:   map[string]string{"title": "{{date}}", "date": "D"},
			want:     "{{date}}|D",
		},
		{
			name:     "no values",
			template: "{{article_list}}",
			values:   nil,
			want:     "{{article_list}}",
		},
		{
			name:     "no escaping",
			template: "{{title}}",
			values:   map[string]string{"title": "<b>bold</b>"},
			want:     "<b>bold</b>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.template, tt.values); got != tt.want {
				t.Errorf("Fill() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFill_Deterministic(t *testing.T) {
	values := map[string]string{"a": "1", "b": "2", "c": "3", "article_list": "<li/>"}
	first := Fill("{{a}}{{b}}{{c}}{{article_list}}", values)
	for i := 0; i < 50; i++ {
		if got := Fill("{{a}}{{b}}{{c}}{{article_list}}", values); got != first {
			t.Fatalf("run %d produced %q, want %q", i, got, first)
		}
	}
}

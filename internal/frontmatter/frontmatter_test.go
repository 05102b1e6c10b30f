package frontmatter

import "testing"

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		wantFormat Format
		wantFront  string
		wantBody   string
		wantFound  bool
		wantOpen   bool
	}{
		{
			name:       "toml section",
			content:    "+++\ntitle = \"Test Post\"\n+++\n\n# Heading\n",
			wantFormat: FormatTOML,
			wantFront:  "title = \"Test Post\"\n",
			wantBody:   "# Heading\n",
			wantFound:  true,
		},
		{
			name:       "yaml section",
			content:    "---\ntitle: Hello\n---\nBody",
			wantFormat: FormatYAML,
			wantFront:  "title: Hello\n",
			wantBody:   "Body",
			wantFound:  true,
		},
		{
			name:       "leading blank lines and CRLF",
			content:    "\r\n+++\r\ntitle = \"x\"\r\n+++\r\nBody\r\n",
			wantFormat: FormatTOML,
			wantFront:  "title = \"x\"\r\n",
			wantBody:   "Body\r\n",
			wantFound:  true,
		},
		{
			name:       "byte order mark",
			content:    "\uFEFF+++\ntitle = \"x\"\n+++\nBody",
			wantFormat: FormatTOML,
			wantFront:  "title = \"x\"\n",
			wantBody:   "Body",
			wantFound:  true,
		},
		{
			name:       "first pair wins",
			content:    "+++\na = 1\n+++\nBody\n+++\nnot metadata\n+++\n",
			wantFormat: FormatTOML,
			wantFront:  "a = 1\n",
			wantBody:   "Body\n+++\nnot metadata\n+++\n",
			wantFound:  true,
		},
		{
			name:       "no metadata",
			content:    "# Just a heading\n",
			wantFormat: FormatNone,
			wantBody:   "# Just a heading\n",
		},
		{
			name:       "unclosed section keeps whole text",
			content:    "+++\ntitle = \"x\"\nBody",
			wantFormat: FormatTOML,
			wantBody:   "+++\ntitle = \"x\"\nBody",
			wantOpen:   true,
		},
		{
			name:       "mismatched delimiters",
			content:    "+++\ntitle = \"x\"\n---\nBody",
			wantFormat: FormatTOML,
			wantBody:   "+++\ntitle = \"x\"\n---\nBody",
			wantOpen:   true,
		},
		{
			name:    "empty input",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Split(tt.content)
			if got.Format != tt.wantFormat {
				t.Errorf("Format = %v, want %v", got.Format, tt.wantFormat)
			}
			if got.Front != tt.wantFront {
				t.Errorf("Front = %q, want %q", got.Front, tt.wantFront)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Found != tt.wantFound {
				t.Errorf("Found = %v, want %v", got.Found, tt.wantFound)
			}
			if got.Unclosed != tt.wantOpen {
				t.Errorf("Unclosed = %v, want %v", got.Unclosed, tt.wantOpen)
			}
		})
	}
}

func TestFormat_String(t *testing.T) {
	t.Parallel()

	if FormatTOML.String() != "toml" || FormatYAML.String() != "yaml" || FormatNone.String() != "none" {
		t.Errorf("unexpected format names: %s %s %s", FormatTOML, FormatYAML, FormatNone)
	}
}

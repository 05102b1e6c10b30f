package frontmatter

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    Fields
		wantErr error
	}{
		{
			name:    "quoted toml values",
			content: "+++\ntitle = \"Test Post\"\ndate = \"2024-01-15\"\n+++\n",
			want:    Fields{Title: "Test Post", Date: "2024-01-15"},
		},
		{
			name:    "toml date literal",
			content: "+++\ntitle = \"Dated\"\ndate = 2024-01-15\n+++\n",
			want:    Fields{Title: "Dated", Date: "2024-01-15"},
		},
		{
			name:    "toml local datetime",
			content: "+++\ndate = 2024-01-15T09:00:00\n+++\n",
			want:    Fields{Date: "2024-01-15T09:00:00"},
		},
		{
			name:    "toml offset datetime",
			content: "+++\ndate = 2023-11-02T08:30:00+01:00\n+++\n",
			want:    Fields{Date: "2023-11-02T08:30:00+01:00"},
		},
		{
			name: "featured image under extra",
			content: "+++\ntitle = \"Pics\"\ndescription = \"About pictures\"\n" +
				"[extra]\nfeatured_image = \"hero.webp\"\n+++\n",
			want: Fields{Title: "Pics", Description: "About pictures", FeaturedImage: "hero.webp"},
		},
		{
			name:    "dashed key beats snake key",
			content: "+++\nfeatured-image = \"a.png\"\nfeatured_image = \"b.png\"\n+++\n",
			want:    Fields{FeaturedImage: "a.png"},
		},
		{
			name:    "top level beats extra",
			content: "+++\nfeatured_image = \"top.png\"\n[extra]\nfeatured_image = \"extra.png\"\nabstract = \"Short\"\n+++\n",
			want:    Fields{FeaturedImage: "top.png", Abstract: "Short"},
		},
		{
			name:    "unknown keys ignored",
			content: "+++\ntitle = \"T\"\ndraft = true\n[taxonomies]\ntags = [\"go\"]\n+++\n",
			want:    Fields{Title: "T"},
		},
		{
			name:    "numeric title stringified",
			content: "+++\ntitle = 2024\n+++\n",
			want:    Fields{Title: "2024"},
		},
		{
			name:    "yaml section",
			content: "---\ntitle: Newsletter\ndate: \"2024-02-01\"\nfeatured-image: cover.jpg\n---\n",
			want:    Fields{Title: "Newsletter", Date: "2024-02-01", FeaturedImage: "cover.jpg"},
		},
		{
			name:    "no section",
			content: "plain body",
			want:    Fields{},
		},
		{
			name:    "invalid toml",
			content: "+++\ntitle = Unquoted Title\n+++\n",
			wantErr: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(Split(tt.content))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		front string
		want  Fields
	}{
		{
			name:  "unquoted values",
			front: "title = Unquoted Title\ndate = 2024-01-15\n",
			want:  Fields{Title: "Unquoted Title", Date: "2024-01-15"},
		},
		{
			name:  "first match wins",
			front: "title = \"First\"\ntitle = \"Second\"\n",
			want:  Fields{Title: "First"},
		},
		{
			name:  "colon syntax and single quotes",
			front: "title: 'Quoted'\nfeatured_image: hero.webp\n",
			want:  Fields{Title: "Quoted", FeaturedImage: "hero.webp"},
		},
		{
			name:  "table headers skipped",
			front: "[extra]\nfeatured-image = \"x.png\"\r\n",
			want:  Fields{FeaturedImage: "x.png"},
		},
		{
			name:  "garbage lines",
			front: "!!!\n   \n= nothing\n",
			want:  Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseLenient(tt.front); got != tt.want {
				t.Errorf("ParseLenient() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

package pipeline

import (
	"slices"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"txt", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"txt", "svg"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "pdf"}); err == nil {
		t.Error("invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestValidateEngine(t *testing.T) {
	for _, e := range []string{"", "dot", "neato", "fdp", "circo"} {
		if err := ValidateEngine(e); err != nil {
			t.Errorf("ValidateEngine(%q) error: %v", e, err)
		}
	}
	if err := ValidateEngine("spring"); err == nil {
		t.Error("unknown engine should fail")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{" TXT , svg,,txt ", []string{"txt", "svg"}},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if opts.TopN != DefaultTopN {
		t.Errorf("TopN = %d, want %d", opts.TopN, DefaultTopN)
	}
	if !slices.Equal(opts.Formats, []string{FormatTXT}) {
		t.Errorf("Formats = %v, want [txt]", opts.Formats)
	}
	if opts.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", opts.Title, DefaultTitle)
	}
	if opts.Highlight != DefaultHighlight {
		t.Errorf("Highlight = %d, want %d", opts.Highlight, DefaultHighlight)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero", Options{}, false},
		{"all formats", Options{Formats: []string{"txt", "json", "dot", "svg"}}, false},
		{"bad format", Options{Formats: []string{"pdf"}}, true},
		{"bad engine", Options{Engine: "spring"}, true},
		{"negative top", Options{TopN: -1}, true},
		{"negative highlight", Options{Highlight: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if opts.TopN != first.TopN || opts.Title != first.Title || !slices.Equal(opts.Formats, first.Formats) {
		t.Error("options changed on second call")
	}
}

func TestOptionsWants(t *testing.T) {
	opts := Options{Formats: []string{"txt", "svg"}}
	if !opts.Wants(FormatSVG) || opts.Wants(FormatDOT) {
		t.Errorf("Wants() wrong for %v", opts.Formats)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{TopN: 5, Title: "A"}
	b := Options{TopN: 3, Title: "B"}

	if a.ArtifactKeyOpts(FormatJSON) != b.ArtifactKeyOpts(FormatJSON) {
		t.Error("json artifacts do not depend on render options")
	}
	if a.ArtifactKeyOpts(FormatTXT) == b.ArtifactKeyOpts(FormatTXT) {
		t.Error("txt artifacts depend on TopN")
	}
	if a.ArtifactKeyOpts(FormatSVG) == b.ArtifactKeyOpts(FormatSVG) {
		t.Error("svg artifacts depend on Title")
	}

	c := Options{TopN: 9, Title: "A"}
	if a.ArtifactKeyOpts(FormatDOT) != c.ArtifactKeyOpts(FormatDOT) {
		t.Error("dot artifacts do not depend on TopN")
	}
}

func TestNodelinkOptions(t *testing.T) {
	opts := Options{Title: "7b", Engine: "neato", Highlight: 2, Counts: true, Clusters: true}
	n := opts.NodelinkOptions()
	if n.Title != "7b" || n.Engine != "neato" || n.Highlight != 2 || !n.Counts || !n.Clusters {
		t.Errorf("NodelinkOptions() = %+v", n)
	}
}

package lang

import "testing"

func TestLookupStatic(t *testing.T) {
	tests := []struct {
		language string
		ext      string
	}{
		{"awk", ".awk"},
		{"bash", ".sh"},
		{"sh", ".sh"},
		{"shell", ".sh"},
		{"c", ".c"},
		{"cpp", ".cpp"},
		{"c++", ".cpp"},
		{"csharp", ".cs"},
		{"c#", ".cs"},
		{"cs", ".cs"},
		{"css", ".css"},
		{"d", ".d"},
		{"emacs-lisp", ".el"},
		{"go", ".go"},
		{"html", ".html"},
		{"java", ".java"},
		{"javascript", ".js"},
		{"js", ".js"},
		{"json", ".json"},
		{"julia", ".jl"},
		{"jupyter", ".ipynb"},
		{"latex", ".tex"},
		{"lua", ".lua"},
		{"markdown", ".md"},
		{"ocaml", ".ml"},
		{"perl", ".pl"},
		{"php", ".php"},
		{"prolog", ".pl"},
		{"python", ".py"},
		{"r", ".r"},
		{"ruby", ".rb"},
		{"rust", ".rs"},
		{"sql", ".sql"},
		{"toml", ".toml"},
		{"yaml", ".yml"},
	}

	table := NewTable()
	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			ext, ok := table.Lookup(tt.language)
			if !ok {
				t.Fatalf("Lookup(%q) unknown, want %q", tt.language, tt.ext)
			}
			if ext != tt.ext {
				t.Errorf("Lookup(%q) = %q, want %q", tt.language, ext, tt.ext)
			}
		})
	}

	if len(tests) != len(extensions) {
		t.Errorf("table test covers %d languages, static table has %d", len(tests), len(extensions))
	}
}

func TestLookupUnknown(t *testing.T) {
	table := NewTable()
	for _, language := range []string{"", "cobol", "klingon"} {
		if ext, ok := table.Lookup(language); ok {
			t.Errorf("Lookup(%q) = %q, want unknown", language, ext)
		}
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	table := NewTable()
	for _, language := range []string{"Python", "PYTHON", " python "} {
		ext, ok := table.Lookup(language)
		if !ok || ext != ".py" {
			t.Errorf("Lookup(%q) = %q, %v, want .py, true", language, ext, ok)
		}
	}
}

func TestRegister(t *testing.T) {
	table := NewTable()

	table.Register("zig", "zig")
	if ext, ok := table.Lookup("zig"); !ok || ext != ".zig" {
		t.Errorf("Lookup(zig) = %q, %v, want .zig, true", ext, ok)
	}

	table.Register("Nim", ".nim")
	if ext, ok := table.Lookup("nim"); !ok || ext != ".nim" {
		t.Errorf("Lookup(nim) = %q, %v, want .nim, true", ext, ok)
	}

	// The static table is not overridable.
	table.Register("python", ".python3")
	if ext, _ := table.Lookup("python"); ext != ".py" {
		t.Errorf("Lookup(python) = %q after Register, want .py", ext)
	}

	// Blank pairs are ignored.
	table.Register("", ".x")
	table.Register("x", "")
	if _, ok := table.Lookup("x"); ok {
		t.Error("Lookup(x) known after blank Register")
	}
}

func TestKnownSorted(t *testing.T) {
	names := Known()
	if len(names) != len(extensions) {
		t.Fatalf("Known() has %d names, static table has %d", len(names), len(extensions))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Known() not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}

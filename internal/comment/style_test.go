package comment

import "testing"

func TestResolve(t *testing.T) {
	tt := []struct {
		ext  string
		want Style
	}{
		{"py", Style{Prefix: "#"}},
		{".py", Style{Prefix: "#"}},
		{".PY", Style{Prefix: "#"}},
		{"go", Style{Prefix: "//"}},
		{".rs", Style{Prefix: "//"}},
		{"sql", Style{Prefix: "--"}},
		{".lua", Style{Prefix: "--"}},
		{"ml", Style{Prefix: "(*", Suffix: "*)"}},
		{".xyz", Style{Prefix: "#"}},
		{"", Style{Prefix: "#"}},
	}
	for _, tc := range tt {
		if got := Resolve(tc.ext); got != tc.want {
			t.Errorf("Resolve(%q) = %+v, want %+v", tc.ext, got, tc.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	tt := []struct {
		path string
		want string
	}{
		{"src/auth.py", "#"},
		{"cmd/main.go", "//"},
		{"schema.sql", "--"},
		{"Makefile", "#"},
		{"a.b/noext", "#"},
	}
	for _, tc := range tt {
		if got := ResolvePath(tc.path); got.Prefix != tc.want {
			t.Errorf("ResolvePath(%q).Prefix = %q, want %q", tc.path, got.Prefix, tc.want)
		}
	}
}

func TestExtensionsCoversEveryStyle(t *testing.T) {
	exts := Extensions()
	if len(exts) != len(styles) {
		t.Fatalf("Extensions() has %d entries, styles has %d", len(exts), len(styles))
	}
	for _, ext := range []string{"py", "go", "sql", "ml"} {
		if !exts[ext] {
			t.Errorf("Extensions() missing %q", ext)
		}
	}
}

package lang

import "testing"

// FuzzResolveString checks that arbitrary input never panics the
// lexer, parser, or evaluator; it must either resolve or return an
// error.
func FuzzResolveString(f *testing.F) {
	seeds := []string{
		"",
		"a 1\n",
		"name \"x\"\napp:\n  port 8080\nend\n",
		"gather \"x.rune\" as x\n",
		`level if $env.DEBUG = "1" "debug" else "info"` + "\n",
		"app:\nif a = 1:\nb 2\nelse:\nb 3\nendif\nend\n",
		`p r"\.(mkv|mp4)$"` + "\n",
		"list [1, \"two\", true, null]\n",
		"a \"unterminated",
		"@meta \"m\"\nmonitor-media true\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	opts := []Option{
		WithLoader(LoaderFunc(func(path string) (string, error) {
			return "", ErrRead.Wrapf("no files in fuzzing")
		})),
		WithEnviron(MapEnviron(map[string]string{"DEBUG": "1"})),
		WithSysinfo(MapSysinfo(map[string]string{"cpu_count": "8"})),
	}

	f.Fuzz(func(t *testing.T, src string) {
		cfg, err := ResolveString(src, opts...)
		if err == nil && cfg == nil {
			t.Errorf("nil config without error")
		}
	})
}

package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
)

func classBytes(t *testing.T, name string) []byte {
	t.Helper()
	cf := &classfile.ClassFile{
		MajorVersion: 65,
		ConstantPool: classfile.ConstantPool{
			&classfile.ConstantUtf8Info{Bytes: []byte(name)},
			&classfile.ConstantClassInfo{NameIndex: 1},
			&classfile.ConstantLongInfo{Value: 1},
			nil,
		},
		AccessFlags: classfile.AccPublic | classfile.AccSuper,
		ThisClass:   2,
	}
	data, err := cf.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	return data
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// runCmd executes the root command with an empty config file.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, cfg, nil)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestScanSources(t *testing.T) {
	var sources []source
	for i := range 20 {
		name := fmt.Sprintf("p/C%02d", i)
		data := classBytes(t, name)
		if i%5 == 0 {
			data = data[:len(data)-1]
		}
		sources = append(sources, source{name: name + ".class", open: func() ([]byte, error) { return data, nil }})
	}
	sources = append(sources, source{name: "unreadable.class", open: func() ([]byte, error) {
		return nil, errors.New("permission denied")
	}})

	for _, workers := range []int{0, 1, 4, 64} {
		results := scanSources(sources, workers)
		if len(results) != len(sources) {
			t.Fatalf("workers=%d: got %d results, want %d", workers, len(results), len(sources))
		}
		failed := 0
		for i, r := range results {
			if i > 0 && results[i-1].name > r.name {
				t.Errorf("workers=%d: results not sorted at %d", workers, i)
			}
			if r.err != nil {
				failed++
				continue
			}
			if want := strings.TrimSuffix(r.name, ".class"); r.className != want {
				t.Errorf("workers=%d: %s decoded as %q", workers, r.name, r.className)
			}
			if r.entries != 3 {
				t.Errorf("workers=%d: %s has %d entries, want 3", workers, r.name, r.entries)
			}
		}
		if failed != 5 {
			t.Errorf("workers=%d: %d failures, want 5", workers, failed)
		}
	}
}

func TestRunScan(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a", "A.class"), classBytes(t, "a/A"))
		writeFile(t, filepath.Join(dir, "a", "b", "B.class"), classBytes(t, "a/b/B"))
		writeFile(t, filepath.Join(dir, "Broken.class"), []byte{0xCA, 0xFE})
		writeFile(t, filepath.Join(dir, "README.md"), []byte("not a class"))

		var out bytes.Buffer
		if err := runScan(&out, dir, 2); err != nil {
			t.Fatalf("runScan() error = %v", err)
		}
		got := out.String()
		for _, want := range []string{
			"[OK] " + filepath.Join(dir, "a", "A.class") + " (a/A, 3 constants)",
			"[OK] " + filepath.Join(dir, "a", "b", "B.class") + " (a/b/B, 3 constants)",
			"[ERROR] " + filepath.Join(dir, "Broken.class"),
			"Class files: 3\n",
			"Errors: 1\n",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
		if strings.Contains(got, "README") {
			t.Errorf("non-class file was scanned:\n%s", got)
		}
	})

	t.Run("jar", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for name, data := range map[string][]byte{
			"com/x/Main.class":     classBytes(t, "com/x/Main"),
			"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0\n"),
			"com/x/Bad.class":      {0x00},
		} {
			w, err := zw.Create(name)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write(data); err != nil {
				t.Fatal(err)
			}
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(t.TempDir(), "app.jar")
		writeFile(t, path, buf.Bytes())

		var out bytes.Buffer
		if err := runScan(&out, path, 4); err != nil {
			t.Fatalf("runScan() error = %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "[OK] com/x/Main.class (com/x/Main, 3 constants)") {
			t.Errorf("missing Main:\n%s", got)
		}
		if !strings.Contains(got, "[ERROR] com/x/Bad.class: ") || !strings.Contains(got, "Class files: 2\n") {
			t.Errorf("unexpected summary:\n%s", got)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		writeFile(t, path, []byte("x"))
		if err := runScan(&bytes.Buffer{}, path, 1); err == nil {
			t.Error("runScan() error = nil, want an error")
		}
	})
}

func TestDumpCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Hello.class")
	writeFile(t, path, classBytes(t, "Hello"))

	out, err := runCmd(t, "dump", path)
	if err != nil {
		t.Fatalf("dump error = %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "class Hello\n") || !strings.Contains(out, "Constant pool (count 5):") {
		t.Errorf("dump output:\n%s", out)
	}

	out, err = runCmd(t, "dump", "-f", "json", path)
	if err != nil {
		t.Fatalf("dump -f json error = %v", err)
	}
	if !strings.Contains(out, `"name": "Hello"`) {
		t.Errorf("json output:\n%s", out)
	}

	if _, err := runCmd(t, "dump", "-f", "yaml", path); err == nil {
		t.Error("dump -f yaml error = nil, want unknown format")
	}
}

func TestPoolCmd(t *testing.T) {
	data := classBytes(t, "Hello")
	path := filepath.Join(t.TempDir(), "Hello.class")
	// The pool command stops before the body, so a damaged body is fine.
	writeFile(t, path, append(data[:10+8+3+9], 0xFF))

	out, err := runCmd(t, "pool", path)
	if err != nil {
		t.Fatalf("pool error = %v\n%s", err, out)
	}
	for _, want := range []string{
		"major version: 65 (Java 21)",
		"#2 = Class",
		"#3 = Long",
		"constant pool ends at offset 30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("version printed nothing")
	}
}

package domain

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

var testTime = time.Date(2025, time.March, 7, 9, 41, 0, 0, time.UTC)

func fileEntry(name string) DirectoryEntry {
	return DirectoryEntry{
		Name:    name,
		Path:    "/tmp/work/" + name,
		Kind:    KindFile,
		Size:    42,
		ModTime: testTime,
		Mode:    0644,
	}
}

func TestParseLine_Strategies(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		layout   ColumnLayout
		wantName string
		wantKind EntryKind
		wantErr  error
	}{
		{
			name:     "full layout uses date anchor",
			line:     "-rw-r--r--       42 Mar 07 09:41 notes.txt",
			layout:   DefaultLayout(),
			wantName: "notes.txt",
			wantKind: KindFile,
		},
		{
			name:     "name with spaces after date",
			line:     "-rw-r--r--       42 Mar 07 09:41 my notes.txt",
			layout:   DefaultLayout(),
			wantName: "my notes.txt",
			wantKind: KindFile,
		},
		{
			name:     "year form of the date column",
			line:     "-rw-r--r--       42 Mar 07  2019 old.log",
			layout:   DefaultLayout(),
			wantName: "old.log",
			wantKind: KindFile,
		},
		{
			name:     "oversized size column still parses via date",
			line:     "-rw-r--r-- 1234567890 Mar 07 09:41 big.iso",
			layout:   DefaultLayout(),
			wantName: "big.iso",
			wantKind: KindFile,
		},
		{
			name:     "trailing slash marks directory",
			line:     "drwxr-xr-x     4096 Mar 07 09:41 src/",
			layout:   DefaultLayout(),
			wantName: "src",
			wantKind: KindDirectory,
		},
		{
			name:     "arrow marks symlink",
			line:     "lrwxrwxrwx       11 Mar 07 09:41 current -> releases/v2",
			layout:   DefaultLayout(),
			wantName: "current",
			wantKind: KindSymlink,
		},
		{
			name:     "permissions and size without date",
			line:     "-rw-r--r--       42 report.pdf",
			layout:   ColumnLayout{Permissions: true, Size: true},
			wantName: "report.pdf",
			wantKind: KindFile,
		},
		{
			name:     "fixed offset for size only layout",
			line:     "      42 data.csv",
			layout:   ColumnLayout{Size: true},
			wantName: "data.csv",
			wantKind: KindFile,
		},
		{
			name:     "no columns keeps whole line",
			line:     "hello world.txt",
			layout:   ColumnLayout{},
			wantName: "hello world.txt",
			wantKind: KindFile,
		},
		{
			name:     "token fallback on short line",
			line:     "d.txt",
			layout:   DefaultLayout(),
			wantName: "d.txt",
			wantKind: KindFile,
		},
		{
			name:     "token fallback skips metadata tokens",
			line:     "-rw-r--r-- 42 draft.md",
			layout:   DefaultLayout(),
			wantName: "draft.md",
			wantKind: KindFile,
		},
		{
			name:     "long bare name with full layout",
			line:     "quarterly_financial_report_final_v2.xlsx",
			layout:   DefaultLayout(),
			wantName: "quarterly_financial_report_final_v2.xlsx",
			wantKind: KindFile,
		},
		{
			name:     "long bare directory with spaces",
			line:     "my new directory with spaces in name/",
			layout:   DefaultLayout(),
			wantName: "my new directory with spaces in name",
			wantKind: KindDirectory,
		},
		{
			name:     "long bare name with permissions and size layout",
			line:     "a_rather_long_descriptive_file_name.txt",
			layout:   ColumnLayout{Permissions: true, Size: true},
			wantName: "a_rather_long_descriptive_file_name.txt",
			wantKind: KindFile,
		},
		{
			name:     "long bare name with size only layout",
			line:     "a_rather_long_descriptive_file_name.txt",
			layout:   ColumnLayout{Size: true},
			wantName: "a_rather_long_descriptive_file_name.txt",
			wantKind: KindFile,
		},
		{
			name:    "blank line",
			line:    "   ",
			layout:  DefaultLayout(),
			wantErr: ErrBlankLine,
		},
		{
			name:    "date anchor with emptied name",
			line:    "-rw-r--r--       42 Mar 07 09:41 ",
			layout:  DefaultLayout(),
			wantErr: ErrParseAmbiguity,
		},
		{
			name:    "permission anchor with emptied name",
			line:    "-rw-r--r--       42",
			layout:  ColumnLayout{Permissions: true, Size: true},
			wantErr: ErrParseAmbiguity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line, tt.layout, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v (parsed %+v)", tt.wantErr, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, got.Name)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, got.Kind)
			}
		})
	}
}

func TestParseLine_DateShapedNameIsAmbiguous(t *testing.T) {
	// The date anchor takes the leftmost match. When the real date column is
	// intact this is still right, even if the name embeds a date-shaped text.
	line := "-rw-r--r--       42 Mar 07 09:41 backup Jan 01 12:00 final"
	got, err := ParseLine(line, DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "backup Jan 01 12:00 final" {
		t.Errorf("expected full name after first date, got %q", got.Name)
	}

	// Once the metadata is stripped the embedded date becomes the anchor.
	got, err = ParseLine("backup Jan 01 12:00 final", DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "final" {
		t.Errorf("expected heuristic to cut at the embedded date, got %q", got.Name)
	}
}

func TestParseLine_Context(t *testing.T) {
	dir := DirectoryEntry{
		Name:    "build",
		Path:    "/tmp/work/build",
		Kind:    KindDirectory,
		Size:    4096,
		ModTime: testTime,
		Mode:    fs.ModeDir | 0755,
	}

	t.Run("unchanged rendered line returns context entry", func(t *testing.T) {
		line := RenderLine(dir, DefaultLayout())
		got, err := ParseLine(line, DefaultLayout(), &dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "build" || got.Kind != KindDirectory {
			t.Errorf("expected build directory, got %+v", got)
		}
	})

	t.Run("missing slash keeps context kind", func(t *testing.T) {
		got, err := ParseLine("drwxr-xr-x     4096 Mar 07 09:41 dist", DefaultLayout(), &dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "dist" {
			t.Errorf("expected dist, got %q", got.Name)
		}
		if got.Kind != KindDirectory {
			t.Errorf("expected directory kind from context, got %s", got.Kind)
		}
	})
}

func TestRenderLine_RoundTrip(t *testing.T) {
	entries := []DirectoryEntry{
		fileEntry("a.txt"),
		{Name: "src", Path: "/tmp/work/src", Kind: KindDirectory, Size: 4096, ModTime: testTime, Mode: fs.ModeDir | 0755},
		{Name: "latest", Path: "/tmp/work/latest", Kind: KindSymlink, Size: 5, ModTime: testTime, Mode: fs.ModeSymlink | 0777, LinkTarget: "a.txt"},
	}
	layouts := []ColumnLayout{
		DefaultLayout(),
		{Permissions: true, Size: true},
		{Size: true},
		{},
	}

	for _, layout := range layouts {
		for _, e := range entries {
			line := RenderLine(e, layout)
			got, err := ParseLine(line, layout, nil)
			if err != nil {
				t.Fatalf("layout %v: unexpected error for %q: %v", layout.Columns(), line, err)
			}
			if got.Name != e.Name {
				t.Errorf("layout %v: expected %q, got %q from %q", layout.Columns(), e.Name, got.Name, line)
			}
			if got.Kind != e.Kind {
				t.Errorf("layout %v: expected kind %s, got %s", layout.Columns(), e.Kind, got.Kind)
			}
		}
	}
}

func TestRenderLine_Format(t *testing.T) {
	line := RenderLine(fileEntry("a.txt"), DefaultLayout())
	want := "-rw-r--r--       42 Mar 07 09:41 a.txt"
	if line != want {
		t.Errorf("expected %q, got %q", want, line)
	}
	if len([]rune(line))-len("a.txt") != DefaultLayout().NameOffset() {
		t.Errorf("name offset %d does not match rendered prefix", DefaultLayout().NameOffset())
	}
}

func TestParseColumns(t *testing.T) {
	layout, err := ParseColumns([]string{"size", "mtime"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layout.Permissions || !layout.Size || !layout.ModTime {
		t.Errorf("unexpected layout %+v", layout)
	}

	if _, err := ParseColumns([]string{"owner"}); err == nil {
		t.Error("expected error for unknown column")
	}
}

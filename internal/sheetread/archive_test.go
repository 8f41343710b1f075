package sheetread

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gyeh/billclaims/internal/fixture"
)

func TestIsWorkbookMember(t *testing.T) {
	cases := map[string]bool{
		"claims.xlsx":            true,
		"batch/March.XLSX":       true,
		"__MACOSX/._claims.xlsx": false,
		"batch/":                 false,
		"batch/~$claims.xlsx":    false,
		"notes.txt":              false,
		"legacy.xls":             false,
	}
	for name, want := range cases {
		if got := IsWorkbookMember(name); got != want {
			t.Errorf("IsWorkbookMember(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestReadArchive(t *testing.T) {
	wb, err := fixture.ClaimsWorkbook().Bytes()
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	data, err := fixture.Zip([]fixture.Member{
		{Name: "a.xlsx", Data: wb},
		{Name: "__MACOSX/._a.xlsx", Data: []byte("junk")},
		{Name: "readme.txt", Data: []byte("hello")},
		{Name: "nested/b.xlsx", Data: wb},
	})
	if err != nil {
		t.Fatalf("Zip: %v", err)
	}

	members, err := ReadArchive(data)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}
	if diff := cmp.Diff([]string{"a.xlsx", "nested/b.xlsx"}, names); diff != "" {
		t.Fatalf("members (-want +got):\n%s", diff)
	}

	w, err := members[1].Open()
	if err != nil {
		t.Fatalf("open member: %v", err)
	}
	defer w.Close()
	d, err := w.ReadClaims()
	if err != nil {
		t.Fatalf("ReadClaims: %v", err)
	}
	if d.Source != "nested/b.xlsx" || len(d.Patients) != 2 {
		t.Errorf("member data: source %q, %d patients", d.Source, len(d.Patients))
	}
}

func TestOpenArchive_File(t *testing.T) {
	data, err := fixture.ClaimsArchive()
	if err != nil {
		t.Fatalf("ClaimsArchive: %v", err)
	}
	path := filepath.Join(t.TempDir(), "claims.zip")
	if err := fixture.WriteFile(path, data); err != nil {
		t.Fatal(err)
	}
	members, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	if len(members) != 1 || members[0].Name != "claims_1.xlsx" {
		t.Errorf("members: %v", members)
	}
}

func TestReadArchive_NotZip(t *testing.T) {
	if _, err := ReadArchive([]byte("plain text")); err == nil {
		t.Fatal("expected error for non-zip data")
	}
}

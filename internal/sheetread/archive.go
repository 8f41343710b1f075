package sheetread

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// MaxMemberSize caps the uncompressed size of a single archive member.
const MaxMemberSize = 64 << 20

// Member is one workbook extracted from a claims archive.
type Member struct {
	Name string
	Data []byte
}

// OpenArchive reads every workbook member of the ZIP file at p.
func OpenArchive(p string) ([]Member, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()
	return members(&zr.Reader)
}

// ReadArchive reads every workbook member of a ZIP held in memory.
func ReadArchive(data []byte) ([]Member, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return members(zr)
}

// IsWorkbookMember reports whether a ZIP entry name is a workbook worth
// reading. macOS resource forks and Office lock files are skipped.
func IsWorkbookMember(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") || strings.HasSuffix(name, "/") {
		return false
	}
	base := path.Base(name)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, "._") {
		return false
	}
	return strings.EqualFold(path.Ext(base), ".xlsx")
}

func members(zr *zip.Reader) ([]Member, error) {
	var out []Member
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !IsWorkbookMember(f.Name) {
			continue
		}
		if f.UncompressedSize64 > MaxMemberSize {
			return nil, fmt.Errorf("archive member %s exceeds %d bytes", f.Name, MaxMemberSize)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, MaxMemberSize+1))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read archive member %s: %w", f.Name, err)
		}
		if len(data) > MaxMemberSize {
			return nil, fmt.Errorf("archive member %s exceeds %d bytes", f.Name, MaxMemberSize)
		}
		out = append(out, Member{Name: f.Name, Data: data})
	}
	return out, nil
}

// Open opens the member as a workbook.
func (m Member) Open() (*Workbook, error) {
	return OpenReader(m.Name, bytes.NewReader(m.Data))
}

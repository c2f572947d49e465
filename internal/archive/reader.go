// Package archive opens mod archives and pulls out their metadata descriptor.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// FabricDescriptor is the metadata entry used by Fabric mods.
	FabricDescriptor = "fabric.mod.json"
	// QuiltDescriptor is the metadata entry used by Quilt mods.
	QuiltDescriptor = "quilt.mod.json"

	// MaxEntrySize caps how much of a descriptor is read into memory.
	MaxEntrySize = 4 << 20
)

// Candidates lists descriptor entry names in lookup priority order.
var Candidates = []string{FabricDescriptor, QuiltDescriptor}

var (
	// ErrArchiveUnreadable is returned when the file is not a readable ZIP container.
	ErrArchiveUnreadable = errors.New("archive unreadable")
	// ErrMetadataEntryMissing is returned when no candidate descriptor exists in the archive.
	ErrMetadataEntryMissing = errors.New("metadata entry missing")
)

// Entry is the raw descriptor found inside an archive.
type Entry struct {
	Name string // matched candidate, e.g. "fabric.mod.json"
	Data []byte
}

// ReadMetadata opens the archive at path and returns the first candidate
// descriptor present, in Candidates order.
func ReadMetadata(path string) (*Entry, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveUnreadable, path, err)
	}
	defer zr.Close()

	return readFrom(&zr.Reader, path)
}

// ReadMetadataFrom is ReadMetadata for an already opened container.
func ReadMetadataFrom(r io.ReaderAt, size int64) (*Entry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveUnreadable, err)
	}
	return readFrom(zr, "archive")
}

func readFrom(zr *zip.Reader, label string) (*Entry, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		// Some packers write "./fabric.mod.json" or a leading slash.
		name := strings.TrimPrefix(strings.TrimPrefix(f.Name, "./"), "/")
		if _, seen := files[name]; !seen {
			files[name] = f
		}
	}

	var readErr error
	for _, candidate := range Candidates {
		f, ok := files[candidate]
		if !ok {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			// A corrupt fabric entry should not hide a readable quilt one.
			readErr = err
			continue
		}
		return &Entry{Name: candidate, Data: data}, nil
	}

	if readErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveUnreadable, label, readErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrMetadataEntryMissing, label)
}

func readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > MaxEntrySize {
		return nil, fmt.Errorf("entry %s too large (%d bytes)", f.Name, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", f.Name, err)
	}
	if len(data) > MaxEntrySize {
		return nil, fmt.Errorf("entry %s too large", f.Name)
	}
	return data, nil
}

package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/blackwell-systems/modsnap/internal/archive"
	"github.com/blackwell-systems/modsnap/internal/metadata"
	"github.com/blackwell-systems/modsnap/internal/snapshots"
)

// BuildRecord merges extraction attempts into one record. Each field comes
// from the first attempt that produced it. Without an identifier the file
// name is used, so BuildRecord never fails.
//
// The record's mode is the mode of the attempt that supplied the
// identifier, else of the first attempt that supplied anything, else
// unknown.
//
// File names that are not valid UTF-8 are stored with U+FFFD in place of
// the bad bytes so the record survives a JSON round trip unchanged.
func BuildRecord(fileName string, res metadata.Result) *snapshots.PackageRecord {
	fileName = strings.ToValidUTF8(fileName, string(utf8.RuneError))
	rec := &snapshots.PackageRecord{
		FileName:       fileName,
		Enabled:        !archive.IsDisabledName(fileName),
		ExtractionMode: metadata.ModeUnknown,
	}

	var idMode, anyMode metadata.Mode
	for _, a := range res.Attempts {
		f := a.Fields
		if rec.Identifier == "" && f.ID != "" {
			rec.Identifier = f.ID
			idMode = a.Mode
		}
		if rec.DisplayName == "" && f.Name != "" {
			rec.DisplayName = f.Name
		}
		if rec.Version == "" && f.Version != "" {
			rec.Version = f.Version
		}
		if rec.Loader == "" && f.Loader != "" {
			rec.Loader = f.Loader
		}
		if anyMode == "" && !f.Empty() {
			anyMode = a.Mode
		}
	}

	switch {
	case idMode != "":
		rec.ExtractionMode = idMode
	case anyMode != "":
		rec.ExtractionMode = anyMode
	}

	if rec.Identifier == "" {
		rec.Identifier = fileName
	}

	return rec
}

// loaderForEntry names the loader a descriptor file belongs to.
func loaderForEntry(entryName string) string {
	switch entryName {
	case archive.QuiltDescriptor:
		return metadata.LoaderQuilt
	case archive.FabricDescriptor:
		return metadata.LoaderFabric
	}
	return ""
}

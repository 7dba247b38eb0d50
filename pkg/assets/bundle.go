package assets

import (
	"bytes"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"
)

// WriteBundle packs every regular file under dir into a single bundle at
// out, returning how many files were packed. Paths inside the bundle are
// slash-separated and relative to dir, so a packed root mirrors the
// directory convention of an FSRoot.
func WriteBundle(dir string, out string) (int, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return 0, err
	}
	sort.Strings(paths)

	var blob bytes.Buffer
	index := bundleIndex{Entries: make([]bundleEntry, 0, len(paths))}

	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return 0, err
		}

		offset := uint64(blob.Len())
		writer, err := gzip.NewWriterLevel(&blob, gzip.BestCompression)
		if err != nil {
			return 0, err
		}
		if _, err := writer.Write(data); err != nil {
			return 0, err
		}
		if err := writer.Close(); err != nil {
			return 0, err
		}

		index.Entries = append(index.Entries, bundleEntry{
			Path:   rel,
			Offset: offset,
			Size:   uint64(blob.Len()) - offset,
			Sum:    xxhash.Sum64(data),
		})
	}

	encoded, err := cbor.Marshal(&index)
	if err != nil {
		return 0, err
	}

	var file bytes.Buffer
	file.Write(bundleMagic)
	var indexLen [8]byte
	binary.BigEndian.PutUint64(indexLen[:], uint64(len(encoded)))
	file.Write(indexLen[:])
	file.Write(encoded)
	file.Write(blob.Bytes())

	if err := os.WriteFile(out, file.Bytes(), 0644); err != nil {
		return 0, err
	}
	return len(paths), nil
}

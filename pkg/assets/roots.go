package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"
)

// A Root is one place asset files can come from. Roots are consulted in
// declared priority order; the first root that has a path wins.
type Root interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	// Source labels the root for provenance reporting.
	Source() string
}

// An FSRoot is a directory on the filesystem. Paths inside it follow the
// shared subdirectory convention (images/, spritesheets/, audio/, fonts/).
type FSRoot string

func (f FSRoot) abs(path string) string {
	return filepath.Join(string(f), filepath.FromSlash(path))
}

func (f FSRoot) Exists(path string) bool {
	info, err := os.Stat(f.abs(path))
	return err == nil && !info.IsDir()
}

func (f FSRoot) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(f.abs(path))
	if os.IsNotExist(err) {
		return nil, Missing
	}
	return data, err
}

func (f FSRoot) Source() string {
	return string(f)
}

// Bundle file layout: magic, big-endian index length, cbor index, then the
// blob section the index offsets point into. Entries are individually
// gzip-compressed and checksummed over the uncompressed bytes.
var bundleMagic = []byte("ODAB\x01")

type bundleEntry struct {
	_      struct{} `cbor:",toarray"`
	Path   string
	Offset uint64
	Size   uint64
	Sum    uint64
}

type bundleIndex struct {
	Entries []bundleEntry
}

// A BundleRoot serves assets out of a single packed file produced by
// WriteBundle (the `officeday pack` command). Useful as an override root
// that ships as one artifact.
type BundleRoot struct {
	source string
	blob   []byte
	fs     map[string]bundleEntry
}

func NewBundleRoot(path string) (*BundleRoot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) < len(bundleMagic)+8 || !bytes.Equal(data[:len(bundleMagic)], bundleMagic) {
		return nil, fmt.Errorf("%s is not an asset bundle", path)
	}
	data = data[len(bundleMagic):]

	indexLen := binary.BigEndian.Uint64(data[:8])
	data = data[8:]
	if uint64(len(data)) < indexLen {
		return nil, fmt.Errorf("%s: truncated bundle index", path)
	}

	var index bundleIndex
	if err := cbor.Unmarshal(data[:indexLen], &index); err != nil {
		return nil, err
	}

	fs := make(map[string]bundleEntry, len(index.Entries))
	for _, entry := range index.Entries {
		fs[entry.Path] = entry
	}

	return &BundleRoot{
		source: path,
		blob:   data[indexLen:],
		fs:     fs,
	}, nil
}

func (b *BundleRoot) Exists(path string) bool {
	_, ok := b.fs[path]
	return ok
}

func (b *BundleRoot) ReadFile(path string) ([]byte, error) {
	entry, ok := b.fs[path]
	if !ok {
		return nil, Missing
	}

	if entry.Offset+entry.Size > uint64(len(b.blob)) {
		return nil, fmt.Errorf("bundle entry %s points past the blob", path)
	}

	reader, err := gzip.NewReader(bytes.NewReader(b.blob[entry.Offset : entry.Offset+entry.Size]))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if xxhash.Sum64(data) != entry.Sum {
		return nil, fmt.Errorf("bundle entry %s failed its checksum", path)
	}

	return data, nil
}

func (b *BundleRoot) Source() string {
	return b.source
}

var _ Root = (FSRoot)("")
var _ Root = (*BundleRoot)(nil)

// LoadRoots turns configured root targets into Roots, preserving their
// priority order. A target that is a regular file is opened as a bundle;
// directories (existing or not) become FSRoots.
func LoadRoots(targets []string) ([]Root, error) {
	roots := make([]Root, 0, len(targets))
	for _, target := range targets {
		absolute, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}

		if info, err := os.Stat(absolute); err == nil && !info.IsDir() {
			root, err := NewBundleRoot(absolute)
			if err != nil {
				return nil, err
			}
			roots = append(roots, root)
			continue
		}

		roots = append(roots, FSRoot(absolute))
	}

	return roots, nil
}

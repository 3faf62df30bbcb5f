package visitor

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/behavior/pkg/generic"
)

var (
	ErrFormat   = errors.New("not a visitor snapshot")
	ErrChecksum = errors.New("snapshot checksum mismatch")
)

// Binary layout: magic | version (u16) | checksum of body (u64) | body length (u64) | gob body.
var magic = [4]byte{'B', 'T', 'V', 'S'}

const (
	formatVersion uint16 = 1
	headerSize           = 4 + 2 + 8 + 8
)

var bodies = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// SaveBinary writes the recorded regions in the compact binary form.
func (v *Visitor) SaveBinary(w io.Writer) error {
	body := bodies.Get()
	defer bodies.Put(body)
	if err := gob.NewEncoder(body).Encode(v.root); err != nil {
		return errors.Wrap(err, "encode snapshot body")
	}

	var hdr [headerSize]byte
	copy(hdr[:4], magic[:])
	binary.LittleEndian.PutUint16(hdr[4:6], formatVersion)
	binary.LittleEndian.PutUint64(hdr[6:14], xxhash.Sum64(body.Bytes()))
	binary.LittleEndian.PutUint64(hdr[14:22], uint64(body.Len()))

	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "write snapshot header")
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return errors.Wrap(err, "write snapshot body")
	}
	return nil
}

// LoadBinary reads a snapshot written by SaveBinary and returns a read-mode visitor.
func LoadBinary(r io.Reader) (*Visitor, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrapf(ErrFormat, "read header: %v", err)
	}
	if !bytes.Equal(hdr[:4], magic[:]) {
		return nil, errors.Wrapf(ErrFormat, "bad magic %q", hdr[:4])
	}
	if version := binary.LittleEndian.Uint16(hdr[4:6]); version != formatVersion {
		return nil, errors.Wrapf(ErrFormat, "unsupported version %d", version)
	}
	sum := binary.LittleEndian.Uint64(hdr[6:14])
	size := binary.LittleEndian.Uint64(hdr[14:22])

	body, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot body")
	}
	if uint64(len(body)) != size {
		return nil, errors.Wrapf(ErrFormat, "truncated body: %d of %d bytes", len(body), size)
	}
	if xxhash.Sum64(body) != sum {
		return nil, ErrChecksum
	}

	var root Region
	if err = gob.NewDecoder(bytes.NewReader(body)).Decode(&root); err != nil {
		return nil, errors.Wrap(err, "decode snapshot body")
	}
	return NewReader(&root), nil
}

// SaveText writes the recorded regions as YAML.
func (v *Visitor) SaveText(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.root); err != nil {
		return errors.Wrap(err, "encode text snapshot")
	}
	return enc.Close()
}

// LoadText reads a YAML snapshot written by SaveText.
func LoadText(r io.Reader) (*Visitor, error) {
	var root Region
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(err, "decode text snapshot")
	}
	if root.Name != rootRegionName {
		return nil, errors.Wrapf(ErrFormat, "unexpected root region %q", root.Name)
	}
	return NewReader(&root), nil
}

func (v *Visitor) SaveBinaryFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = v.SaveBinary(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func LoadBinaryFile(path string) (*Visitor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadBinary(f)
}

func (v *Visitor) SaveTextFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = v.SaveText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func LoadTextFile(path string) (*Visitor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadText(f)
}

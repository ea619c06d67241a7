package docio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// SaveFile writes d to path, compressed according to the extension.
func SaveFile(path string, d Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var w io.WriteCloser
	switch filepath.Ext(path) {
	case ".gz":
		w = gzip.NewWriter(bw)
	case ".zst":
		w, err = zstd.NewWriter(bw)
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
	}
	if w == nil {
		err = Write(bw, d)
	} else {
		err = Write(w, d)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// LoadFile reads the document saved at path by SaveFile.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	switch filepath.Ext(path) {
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return Document{}, fmt.Errorf("creating gzip decoder: %w", err)
		}
		defer gr.Close()
		r = gr
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return Document{}, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return Read(r)
}

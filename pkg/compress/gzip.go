package compress

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// WriteGzipFile compresses everything writeFn writes into path. the file is written to a
// temporary sibling first and renamed, so readers never see a half written index.
func WriteGzipFile(path string, writeFn func(w io.Writer) error) error {
	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error when creating %s: %w", tmpPath, err)
	}

	bw := bufio.NewWriter(file)
	gw, err := gzip.NewWriterLevel(bw, gzip.BestSpeed)
	if err != nil {
		file.Close()
		return err
	}

	if err := writeFn(gw); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := gw.Close(); err != nil {
		file.Close()
		return fmt.Errorf("error when closing gzip writer: %w", err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ReadGzipFile hands the decompressed content of path to readFn.
// open errors are returned as is so callers can classify them.
func ReadGzipFile(path string, readFn func(r io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gr, err := gzip.NewReader(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("error when reading gzip header of %s: %w", path, err)
	}
	defer gr.Close()

	return readFn(gr)
}

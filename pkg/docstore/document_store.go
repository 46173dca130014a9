// Package docstore gives random access to dataset rows by ordinal through a flat offset index.
package docstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/dataset"
	"github.com/lintang-b-s/place-search/pkg/datastructure"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/exp/mmap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	OFFSET_SIZE = 8

	DEFAULT_MAX_ROW_LENGTH = 1024
	DEFAULT_CONCURRENCY    = 8
)

// CacheObserver is notified on every cache lookup.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

type DocumentStore struct {
	datasetPath  string
	indexPath    string
	hasHeader    bool
	maxRowLength int
	concurrency  int

	cache    *xsync.MapOf[int, datastructure.Place]
	group    singleflight.Group
	observer CacheObserver
}

type Option func(*DocumentStore)

// WithHeader tells whether line 0 of the dataset is a header. default true.
func WithHeader(hasHeader bool) Option {
	return func(s *DocumentStore) {
		s.hasHeader = hasHeader
	}
}

// WithMaxRowLength sets the longest row (in bytes, without the line break) that can be read.
// longer rows are reported as not found.
func WithMaxRowLength(n int) Option {
	return func(s *DocumentStore) {
		if n > 0 {
			s.maxRowLength = n
		}
	}
}

// WithConcurrency bounds the number of rows read in parallel by one FetchMany call.
func WithConcurrency(n int) Option {
	return func(s *DocumentStore) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithCacheObserver(o CacheObserver) Option {
	return func(s *DocumentStore) {
		s.observer = o
	}
}

func New(datasetPath, indexPath string, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		datasetPath:  datasetPath,
		indexPath:    indexPath,
		hasHeader:    true,
		maxRowLength: DEFAULT_MAX_ROW_LENGTH,
		concurrency:  DEFAULT_CONCURRENCY,
		cache:        xsync.NewMapOf[int, datastructure.Place](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// batch holds the file handles shared by all reads of one FetchMany call.
type batch struct {
	dataset     *os.File
	datasetSize int64
	index       *mmap.ReaderAt
	entries     int
}

func (s *DocumentStore) openBatch() (*batch, error) {
	datasetFile, err := os.Open(s.datasetPath)
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "dataset file %s cannot be opened", s.datasetPath)
	}
	stat, err := datasetFile.Stat()
	if err != nil {
		datasetFile.Close()
		return nil, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "dataset file %s cannot be opened", s.datasetPath)
	}

	index, err := mmap.Open(s.indexPath)
	if err != nil {
		datasetFile.Close()
		return nil, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "offset index %s cannot be opened", s.indexPath)
	}
	if index.Len()%OFFSET_SIZE != 0 {
		datasetFile.Close()
		index.Close()
		return nil, pkg.WrapErrorf(nil, pkg.ErrCorruptIndex, "offset index %s has size %d, not a multiple of %d",
			s.indexPath, index.Len(), OFFSET_SIZE)
	}

	return &batch{
		dataset:     datasetFile,
		datasetSize: stat.Size(),
		index:       index,
		entries:     index.Len() / OFFSET_SIZE,
	}, nil
}

func (b *batch) close() {
	b.dataset.Close()
	b.index.Close()
}

// FetchMany returns one place per requested ordinal, in request order. the first ordinal that
// cannot be read fails the whole batch.
func (s *DocumentStore) FetchMany(ctx context.Context, ordinals []int) ([]datastructure.Place, error) {
	places := make([]datastructure.Place, len(ordinals))
	missing := make([]int, 0, len(ordinals))
	for i, ordinal := range ordinals {
		if place, ok := s.cache.Load(ordinal); ok {
			s.observeHit()
			places[i] = place
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return places, nil
	}

	b, err := s.openBatch()
	if err != nil {
		return nil, err
	}
	defer b.close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, i := range missing {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			place, err := s.fetch(b, ordinals[i])
			if err != nil {
				return err
			}
			places[i] = place
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return places, nil
}

// FetchOne fetches a single ordinal.
func (s *DocumentStore) FetchOne(ctx context.Context, ordinal int) (datastructure.Place, error) {
	places, err := s.FetchMany(ctx, []int{ordinal})
	if err != nil {
		return datastructure.Place{}, err
	}
	return places[0], nil
}

// Lookup is FetchOne with not found reported as absence instead of an error.
func (s *DocumentStore) Lookup(ctx context.Context, ordinal int) (datastructure.Place, bool, error) {
	place, err := s.FetchOne(ctx, ordinal)
	if errors.Is(err, pkg.ErrNotFound) {
		return datastructure.Place{}, false, nil
	}
	if err != nil {
		return datastructure.Place{}, false, err
	}
	return place, true, nil
}

// Len returns the number of offset index entries, header line included.
func (s *DocumentStore) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	stat, err := os.Stat(s.indexPath)
	if err != nil {
		return 0, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "offset index %s cannot be opened", s.indexPath)
	}
	if stat.Size()%OFFSET_SIZE != 0 {
		return 0, pkg.WrapErrorf(nil, pkg.ErrCorruptIndex, "offset index %s has size %d, not a multiple of %d",
			s.indexPath, stat.Size(), OFFSET_SIZE)
	}
	return int(stat.Size() / OFFSET_SIZE), nil
}

// CacheSize returns the number of cached places.
func (s *DocumentStore) CacheSize() int {
	return s.cache.Size()
}

// fetch reads one ordinal through the cache. concurrent misses on the same ordinal share one read.
func (s *DocumentStore) fetch(b *batch, ordinal int) (datastructure.Place, error) {
	if place, ok := s.cache.Load(ordinal); ok {
		s.observeHit()
		return place, nil
	}
	s.observeMiss()

	v, err, _ := s.group.Do(strconv.Itoa(ordinal), func() (interface{}, error) {
		if place, ok := s.cache.Load(ordinal); ok {
			return place, nil
		}
		place, err := s.readRow(b, ordinal)
		if err != nil {
			return nil, err
		}
		s.cache.Store(ordinal, place)
		return place, nil
	})
	if err != nil {
		return datastructure.Place{}, err
	}
	return v.(datastructure.Place), nil
}

func (s *DocumentStore) readRow(b *batch, ordinal int) (datastructure.Place, error) {
	if ordinal < 0 || ordinal >= b.entries || (s.hasHeader && ordinal == 0) {
		return datastructure.Place{}, pkg.WrapErrorf(nil, pkg.ErrNotFound, "ordinal %d is out of range", ordinal)
	}

	var offsetBuf [OFFSET_SIZE]byte
	if _, err := b.index.ReadAt(offsetBuf[:], int64(ordinal)*OFFSET_SIZE); err != nil {
		return datastructure.Place{}, pkg.WrapErrorf(err, pkg.ErrCorruptIndex, "offset of ordinal %d cannot be read", ordinal)
	}
	offset := int64(binary.LittleEndian.Uint64(offsetBuf[:]))
	if offset < 0 || offset >= b.datasetSize {
		return datastructure.Place{}, pkg.WrapErrorf(nil, pkg.ErrCorruptIndex,
			"offset %d of ordinal %d is outside the dataset (size %d)", offset, ordinal, b.datasetSize)
	}

	// one byte more than the limit, so a row of exactly maxRowLength bytes still shows its line break.
	chunkSize := int64(s.maxRowLength) + 1
	if remaining := b.datasetSize - offset; remaining < chunkSize {
		chunkSize = remaining
	}
	chunk := make([]byte, chunkSize)
	n, err := b.dataset.ReadAt(chunk, offset)
	if err != nil && err != io.EOF {
		return datastructure.Place{}, fmt.Errorf("error when reading row %d at offset %d: %w", ordinal, offset, err)
	}
	chunk = chunk[:n]

	end := bytes.IndexByte(chunk, '\n')
	if end < 0 {
		if offset+int64(n) < b.datasetSize {
			return datastructure.Place{}, pkg.WrapErrorf(nil, pkg.ErrNotFound,
				"row %d is longer than %d bytes", ordinal, s.maxRowLength)
		}
		end = n
	}
	line := string(bytes.TrimSuffix(chunk[:end], []byte("\r")))

	place, err := dataset.ParseRow(line, ordinal)
	if err != nil {
		return datastructure.Place{}, pkg.WrapErrorf(err, pkg.ErrNotFound, "row %d cannot be parsed", ordinal)
	}
	return place, nil
}

func (s *DocumentStore) observeHit() {
	if s.observer != nil {
		s.observer.CacheHit()
	}
}

func (s *DocumentStore) observeMiss() {
	if s.observer != nil {
		s.observer.CacheMiss()
	}
}

// BuildOffsetIndex writes the byte offset of every line of the dataset, header and blank lines included,
// as little endian int64. it returns the number of entries written.
func BuildOffsetIndex(ctx context.Context, datasetPath, indexPath string) (int, error) {
	tmpPath := indexPath + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("error when creating %s: %w", tmpPath, err)
	}
	bw := bufio.NewWriterSize(file, 1<<16)

	entries := 0
	var buf [OFFSET_SIZE]byte
	err = dataset.ForEachLineInFile(ctx, datasetPath, func(_ int, offset int64, _ string) error {
		binary.LittleEndian.PutUint64(buf[:], uint64(offset))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
		entries++
		return nil
	})
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("error when building offset index %s: %w", indexPath, err)
	}

	if err := os.Rename(tmpPath, indexPath); err != nil {
		return 0, fmt.Errorf("error when building offset index %s: %w", indexPath, err)
	}
	return entries, nil
}

// Package file provides a VectorStore persisting one flat index per
// document as a pair of artifacts on disk: a packed vector file and a
// chunk metadata JSONL file written in insertion order.
//
// Both artifacts are written once per ingest and replaced wholesale on
// re-ingest; there are no in-place updates. Brute-force inner-product
// scan over normalized vectors is exact cosine search and is plenty
// for single-document indexes.
package file

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/docask-cli/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Artifact filenames inside each per-document directory.
const (
	indexFile = "index.vec"
	metaFile  = "chunks_meta.jsonl"
)

// Store is a file-backed per-document vector store.
type Store struct {
	dataDir string
}

// NewStore creates a file-backed vector store rooted at dataDir.
// If dataDir is empty, defaults to ~/.docask/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docask", "data")
	}

	if err := os.MkdirAll(filepath.Join(dataDir, "docs"), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

// docDir returns the artifact directory for one document.
func (s *Store) docDir(documentID string) string {
	return filepath.Join(s.dataDir, "docs", documentID)
}

// Build writes the index and metadata artifacts for a document.
func (s *Store) Build(_ context.Context, documentID string, chunks []domain.Chunk, embeddings [][]float32) error {
	dim, err := vectorstore.ValidateShape(chunks, embeddings)
	if err != nil {
		return err
	}

	dir := s.docDir(documentID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	normalized := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		normalized[i] = vectorstore.Normalize(emb)
	}

	if err := writeIndex(filepath.Join(dir, indexFile), dim, normalized); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	if err := writeMeta(filepath.Join(dir, metaFile), chunks); err != nil {
		return fmt.Errorf("writing chunk metadata: %w", err)
	}

	return nil
}

// Search scans the document's index for the k nearest chunks.
func (s *Store) Search(_ context.Context, documentID string, query []float32, k int) ([]domain.RetrievedSource, error) {
	dir := s.docDir(documentID)

	vectors, err := readIndex(filepath.Join(dir, indexFile))
	if os.IsNotExist(err) {
		// No index yet means no sources, not a failure.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	chunks, err := readMeta(filepath.Join(dir, metaFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chunk metadata: %w", err)
	}

	if k <= 0 || len(vectors) == 0 {
		return nil, nil
	}

	if dim := len(vectors[0]); len(query) != dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrShapeMismatch, len(query), dim)
	}

	q := vectorstore.Normalize(query)

	type scored struct {
		idx int
		sim float64
	}
	scores := make([]scored, len(vectors))
	for i, v := range vectors {
		scores[i] = scored{idx: i, sim: vectorstore.Dot(q, v)}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].sim > scores[b].sim
	})

	if k > len(scores) {
		k = len(scores)
	}

	out := make([]domain.RetrievedSource, 0, k)
	for rank, sc := range scores[:k] {
		if sc.idx >= len(chunks) {
			continue
		}
		c := chunks[sc.idx]
		out = append(out, domain.RetrievedSource{
			Rank:       rank + 1,
			Similarity: sc.sim,
			PageNum:    c.PageNum,
			ChunkIndex: c.ChunkIndex,
			ChunkID:    c.ID,
			Text:       c.Text,
		})
	}

	return out, nil
}

// Delete removes both artifacts for a document.
func (s *Store) Delete(_ context.Context, documentID string) error {
	if err := os.RemoveAll(s.docDir(documentID)); err != nil {
		return fmt.Errorf("deleting document artifacts: %w", err)
	}
	return nil
}

// writeIndex persists normalized vectors as a little-endian float32
// blob with a dimension header. The file is written to a temp path and
// renamed so a reader never observes a half-written index.
func writeIndex(path string, dim int, vectors [][]float32) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)

	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:], uint32(dim))
	binary.LittleEndian.PutUint32(header[4:], uint32(len(vectors)))
	if _, err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	buf := make([]byte, 4)
	for _, vec := range vectors {
		for _, x := range vec {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := w.Write(buf); err != nil {
				f.Close()
				return err
			}
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// readIndex loads the vector blob back into per-row slices.
func readIndex(path string) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("index file truncated: %d bytes", len(data))
	}

	dim := int(binary.LittleEndian.Uint32(data[0:]))
	count := int(binary.LittleEndian.Uint32(data[4:]))
	body := data[8:]

	if dim <= 0 || count < 0 || len(body) != dim*count*4 {
		return nil, fmt.Errorf("index file corrupt: dim=%d count=%d body=%d bytes", dim, count, len(body))
	}

	vectors := make([][]float32, count)
	for i := 0; i < count; i++ {
		row := make([]float32, dim)
		base := i * dim * 4
		for j := 0; j < dim; j++ {
			bits := binary.LittleEndian.Uint32(body[base+j*4:])
			row[j] = math.Float32frombits(bits)
		}
		vectors[i] = row
	}

	return vectors, nil
}

// writeMeta persists chunk metadata as JSONL in insertion order,
// matching vector row order in the index file.
func writeMeta(path string, chunks []domain.Chunk) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// readMeta loads chunk metadata rows in stored order.
func readMeta(path string) ([]domain.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []domain.Chunk
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var c domain.Chunk
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("decoding chunk metadata: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

package trie

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lintang-b-s/place-search/pkg"
	"github.com/lintang-b-s/place-search/pkg/compress"

	"github.com/vmihailenco/msgpack/v5"
)

type Codec int

const (
	CodecMsgpack Codec = iota
	CodecJSON
)

func (c Codec) String() string {
	switch c {
	case CodecJSON:
		return "json"
	default:
		return "msgpack"
	}
}

func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "msgpack":
		return CodecMsgpack, nil
	case "json":
		return CodecJSON, nil
	}
	return CodecMsgpack, fmt.Errorf("unknown trie codec %q", s)
}

// Postings is a sorted posting list. as json it is a plain array of ordinals, as msgpack it is a
// single byte string of delta gaps.
type Postings []int

func (p Postings) EncodeMsgpack(enc *msgpack.Encoder) error {
	b, err := compress.EncodePostingList(p)
	if err != nil {
		return err
	}
	return enc.EncodeBytes(b)
}

func (p *Postings) DecodeMsgpack(dec *msgpack.Decoder) error {
	b, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	list, err := compress.DecodePostingList(b)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		*p = nil
		return nil
	}
	*p = list
	return nil
}

// EncodedNode is the serializable form of a trie node. each key of Children is a single character.
type EncodedNode struct {
	Children map[string]*EncodedNode `json:"c,omitempty" msgpack:"c,omitempty"`
	Postings Postings                `json:"l,omitempty" msgpack:"l,omitempty"`
}

// Encode converts the arena into a nested node tree.
func (t *Trie) Encode() *EncodedNode {
	return t.encodeNode(rootIdx)
}

func (t *Trie) encodeNode(idx int32) *EncodedNode {
	n := &t.nodes[idx]
	enc := &EncodedNode{}
	if len(n.postings) > 0 {
		enc.Postings = Postings(cloneInts(n.postings))
	}
	if len(n.children) > 0 {
		enc.Children = make(map[string]*EncodedNode, len(n.children))
		for c, child := range n.children {
			enc.Children[string(c)] = t.encodeNode(child)
		}
	}
	return enc
}

// Decode rebuilds a trie from its encoded form. keys that are not exactly one character and
// posting lists that are not strictly ascending are rejected.
func Decode(root *EncodedNode) (*Trie, error) {
	t := New()
	if root == nil {
		return t, nil
	}
	if err := t.decodeNode(rootIdx, root); err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrCorruptIndex, "trie cannot be decoded")
	}
	return t, nil
}

func (t *Trie) decodeNode(idx int32, enc *EncodedNode) error {
	for i := 1; i < len(enc.Postings); i++ {
		if enc.Postings[i] <= enc.Postings[i-1] {
			return fmt.Errorf("posting list is not strictly ascending at %d", i)
		}
	}
	if len(enc.Postings) > 0 {
		t.nodes[idx].postings = cloneInts(enc.Postings)
	}

	if len(enc.Children) == 0 {
		return nil
	}

	keys := make([]string, 0, len(enc.Children))
	for key := range enc.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t.nodes[idx].children = make(map[rune]int32, len(keys))
	for _, key := range keys {
		c, size := utf8.DecodeRuneInString(key)
		if size != len(key) || (c == utf8.RuneError && size == 1) {
			return fmt.Errorf("invalid child key %q", key)
		}
		child := enc.Children[key]
		if child == nil {
			child = &EncodedNode{}
		}

		childIdx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{})
		t.nodes[idx].children[c] = childIdx
		if err := t.decodeNode(childIdx, child); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the encoded trie to w without compression.
func (t *Trie) Save(w io.Writer, codec Codec) error {
	enc := t.Encode()
	switch codec {
	case CodecJSON:
		return json.NewEncoder(w).Encode(enc)
	default:
		return msgpack.NewEncoder(w).Encode(enc)
	}
}

// Load reads a trie written by Save with the same codec.
func Load(r io.Reader, codec Codec) (*Trie, error) {
	var root EncodedNode
	var err error
	switch codec {
	case CodecJSON:
		err = json.NewDecoder(r).Decode(&root)
	default:
		err = msgpack.NewDecoder(r).Decode(&root)
	}
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrCorruptIndex, "error when decoding %s trie", codec)
	}
	return Decode(&root)
}

// SaveFile writes the trie gzip compressed to path.
func (t *Trie) SaveFile(path string, codec Codec) error {
	err := compress.WriteGzipFile(path, func(w io.Writer) error {
		return t.Save(w, codec)
	})
	if err != nil {
		return fmt.Errorf("error when saving trie to %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a trie written by SaveFile.
func LoadFile(path string, codec Codec) (*Trie, error) {
	var t *Trie
	err := compress.ReadGzipFile(path, func(r io.Reader) error {
		var err error
		t, err = Load(r, codec)
		return err
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, pkg.WrapErrorf(err, pkg.ErrMissingStorage, "trie file %s not found", path)
	}
	if err != nil {
		var perr *pkg.Error
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, pkg.WrapErrorf(err, pkg.ErrCorruptIndex, "trie file %s cannot be read", path)
	}
	return t, nil
}

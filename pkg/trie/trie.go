package trie

import (
	"sort"
	"strings"

	"github.com/lintang-b-s/place-search/pkg/normalize"
)

const rootIdx = 0

// maxResultSetHint bounds the preallocation of the autocomplete result set.
const maxResultSetHint = 1024

// node children point into the trie arena. postings are the sorted unique ordinals of the names
// that end exactly at this node.
type node struct {
	children map[rune]int32
	postings []int
}

// Trie is a prefix tree over place names. every name is inserted twice into the same tree,
// once under its literal spelling and once folded, so a query in either spelling reaches it.
// a built Trie is read only and safe for concurrent queries.
type Trie struct {
	nodes []node
}

func New() *Trie {
	return &Trie{nodes: []node{{}}}
}

// Insert records ordinal under both the literal and the folded spelling of name.
// names that are empty after normalization are ignored.
func (t *Trie) Insert(name string, ordinal int) {
	name = strings.ToValidUTF8(name, "\uFFFD")
	t.insertWord(normalize.Literal(name), ordinal)
	t.insertWord(normalize.Fold(name), ordinal)
}

func (t *Trie) insertWord(word string, ordinal int) {
	if word == "" {
		return
	}

	curr := int32(rootIdx)
	for _, c := range word {
		next, ok := t.nodes[curr].children[c]
		if !ok {
			next = int32(len(t.nodes))
			t.nodes = append(t.nodes, node{})
			if t.nodes[curr].children == nil {
				t.nodes[curr].children = make(map[rune]int32, 1)
			}
			t.nodes[curr].children[c] = next
		}
		curr = next
	}

	t.nodes[curr].addPosting(ordinal)
}

func (n *node) addPosting(ordinal int) {
	i := sort.SearchInts(n.postings, ordinal)
	if i < len(n.postings) && n.postings[i] == ordinal {
		return
	}
	n.postings = append(n.postings, 0)
	copy(n.postings[i+1:], n.postings[i:])
	n.postings[i] = ordinal
}

func (n *node) hasPosting(ordinal int) bool {
	i := sort.SearchInts(n.postings, ordinal)
	return i < len(n.postings) && n.postings[i] == ordinal
}

// find walks the whole word. ok is false when the path does not exist.
func (t *Trie) find(word string) (int32, bool) {
	curr := int32(rootIdx)
	for _, c := range word {
		next, ok := t.nodes[curr].children[c]
		if !ok {
			return 0, false
		}
		curr = next
	}
	return curr, true
}

// longestMatch walks word as far as the trie allows and returns the last node reached
// and how many bytes of word were consumed.
func (t *Trie) longestMatch(word string) (int32, int, int) {
	curr := int32(rootIdx)
	consumedRunes := 0
	consumedBytes := 0
	for i, c := range word {
		next, ok := t.nodes[curr].children[c]
		if !ok {
			return curr, consumedRunes, i
		}
		curr = next
		consumedRunes++
		consumedBytes = i + len(string(c))
	}
	return curr, consumedRunes, consumedBytes
}

// PrefixSearch returns the ordinals stored at the node reached by the literal spelling of query,
// falling back to the folded spelling when the literal path does not exist. only the postings of that
// node are returned, not its subtree.
func (t *Trie) PrefixSearch(query string) ([]int, bool) {
	literal := normalize.Literal(query)
	if literal == "" {
		return nil, false
	}

	if idx, ok := t.find(literal); ok {
		return cloneInts(t.nodes[idx].postings), true
	}
	if idx, ok := t.find(normalize.Fold(query)); ok {
		return cloneInts(t.nodes[idx].postings), true
	}
	return nil, false
}

// contains reports whether ordinal is stored exactly at word (already normalized).
func (t *Trie) contains(word string, ordinal int) bool {
	idx, ok := t.find(word)
	return ok && t.nodes[idx].hasPosting(ordinal)
}

// AutocompleteResult holds the candidate ordinals in ascending order, the part of the query that
// matched the trie and the spelling it matched in.
type AutocompleteResult struct {
	Ordinals     []int
	MatchedQuery string
	Form         normalize.Form
}

// Autocomplete walks the literal and the folded spelling of query as deep as the trie allows and keeps
// the walk that consumed more runes (ties keep literal). the subtree below that node is then collected
// until more than maxResults ordinals are gathered. the cap is checked before each node is visited, so
// the result may overshoot maxResults by the postings of one node.
func (t *Trie) Autocomplete(query string, maxResults int) AutocompleteResult {
	literal := normalize.Literal(query)
	if literal == "" {
		return AutocompleteResult{Ordinals: []int{}}
	}
	folded := normalize.Fold(query)

	litIdx, litRunes, litBytes := t.longestMatch(literal)
	foldIdx, foldRunes, foldBytes := t.longestMatch(folded)

	res := AutocompleteResult{Form: normalize.LiteralForm}
	start, consumed := litIdx, litRunes
	res.MatchedQuery = literal[:litBytes]
	if foldRunes > litRunes {
		start, consumed = foldIdx, foldRunes
		res.MatchedQuery = folded[:foldBytes]
		res.Form = normalize.FoldedForm
	}

	if consumed == 0 {
		res.Ordinals = []int{}
		return res
	}

	resultSet := make(map[int]struct{}, min(maxResults+1, maxResultSetHint))
	t.collect(start, resultSet, maxResults)

	res.Ordinals = make([]int, 0, len(resultSet))
	for ordinal := range resultSet {
		res.Ordinals = append(res.Ordinals, ordinal)
	}
	sort.Ints(res.Ordinals)
	return res
}

// collect is a depth first traversal in ascending rune order.
func (t *Trie) collect(idx int32, resultSet map[int]struct{}, maxResults int) {
	if len(resultSet) > maxResults {
		return
	}

	n := &t.nodes[idx]
	for _, ordinal := range n.postings {
		resultSet[ordinal] = struct{}{}
	}

	for _, c := range sortedRunes(n.children) {
		t.collect(n.children[c], resultSet, maxResults)
	}
}

func sortedRunes(children map[rune]int32) []rune {
	keys := make([]rune, 0, len(children))
	for c := range children {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Stats returns the number of nodes and the total number of postings.
func (t *Trie) Stats() (int, int) {
	postings := 0
	for i := range t.nodes {
		postings += len(t.nodes[i].postings)
	}
	return len(t.nodes), postings
}

func cloneInts(a []int) []int {
	out := make([]int, len(a))
	copy(out, a)
	return out
}

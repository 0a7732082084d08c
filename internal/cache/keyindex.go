// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package cache

import "sort"

// trieNode is a node in the key index.
type trieNode struct {
	children map[byte]*trieNode
	isEnd    bool   // Marks end of a complete key
	key      string // The complete key stored at this node (if isEnd is true)
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// keyIndex is a byte-wise prefix tree over cache keys. It gives
// DeletePrefix and Keys O(m + k) cost (m = prefix length, k = matches)
// instead of a scan over every entry.
//
// keyIndex is not safe for concurrent use; MemoryStore guards it with its
// own mutex.
type keyIndex struct {
	root *trieNode
	size int
}

func newKeyIndex() *keyIndex {
	return &keyIndex{root: newTrieNode()}
}

// insert adds key. Returns true if key was not already present.
func (t *keyIndex) insert(key string) bool {
	node := t.root
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if node.children[ch] == nil {
			node.children[ch] = newTrieNode()
		}
		node = node.children[ch]
	}
	if node.isEnd {
		return false
	}
	node.isEnd = true
	node.key = key
	t.size++
	return true
}

// remove deletes key and prunes empty nodes. Returns true if key was present.
func (t *keyIndex) remove(key string) bool {
	return t.removeRecursive(t.root, key, 0)
}

func (t *keyIndex) removeRecursive(node *trieNode, key string, depth int) bool {
	if depth == len(key) {
		if !node.isEnd {
			return false
		}
		node.isEnd = false
		node.key = ""
		t.size--
		return true
	}

	ch := key[depth]
	child := node.children[ch]
	if child == nil {
		return false
	}

	removed := t.removeRecursive(child, key, depth+1)
	if removed && !child.isEnd && len(child.children) == 0 {
		delete(node.children, ch)
	}
	return removed
}

// find returns the node at the end of prefix, or nil.
func (t *keyIndex) find(prefix string) *trieNode {
	node := t.root
	for i := 0; i < len(prefix); i++ {
		node = node.children[prefix[i]]
		if node == nil {
			return nil
		}
	}
	return node
}

// withPrefix returns every key starting with prefix, sorted.
func (t *keyIndex) withPrefix(prefix string) []string {
	node := t.find(prefix)
	if node == nil {
		return nil
	}
	var keys []string
	collectKeys(node, &keys)
	sort.Strings(keys)
	return keys
}

// removePrefix detaches the subtree under prefix and returns the keys it held.
func (t *keyIndex) removePrefix(prefix string) []string {
	if prefix == "" {
		var keys []string
		collectKeys(t.root, &keys)
		t.root = newTrieNode()
		t.size = 0
		return keys
	}

	keys := t.withPrefix(prefix)
	for _, k := range keys {
		t.remove(k)
	}
	return keys
}

func collectKeys(node *trieNode, keys *[]string) {
	if node.isEnd {
		*keys = append(*keys, node.key)
	}
	for _, child := range node.children {
		collectKeys(child, keys)
	}
}

// count returns the number of indexed keys.
func (t *keyIndex) count() int {
	return t.size
}

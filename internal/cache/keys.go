// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Namespace prefixes every recommendation key.
const Namespace = "rec"

// NamespacePattern matches every key in Namespace.
const NamespacePattern = Namespace + ":*"

// Scope is the entity class a key belongs to. Entity invalidation matches on
// the scope segment, so every strategy that caches per-user or per-article
// results is covered without being listed anywhere.
type Scope string

const (
	ScopeArticle Scope = "article"
	ScopeUser    Scope = "user"
	ScopeGlobal  Scope = "global"
)

// globalID fills the id segment of ScopeGlobal keys.
const globalID = "_"

// Params are the tunable query parameters of a request. Every parameter
// that changes the result must be present, or distinct requests collide.
//
// Supported value types: string, int, int64, float64, bool, List.
type Params map[string]any

// List is a list-valued parameter. It is rendered as a short hash of its
// JSON encoding, so element order matters; use SortedList for set-like
// parameters.
type List []string

// SortedList returns a sorted copy of ids, for parameters whose order does
// not affect the result (e.g. exclusions).
func SortedList(ids []string) List {
	out := make(List, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// Key builds rec:<strategy>:<scope>:<id>:<signature>.
func Key(strategy string, scope Scope, id string, params Params) string {
	if scope == ScopeGlobal || id == "" {
		id = globalID
	}
	var b strings.Builder
	b.WriteString(Namespace)
	b.WriteByte(':')
	b.WriteString(escape(strategy))
	b.WriteByte(':')
	b.WriteString(string(scope))
	b.WriteByte(':')
	b.WriteString(escape(id))
	b.WriteByte(':')
	b.WriteString(Signature(params))
	return b.String()
}

// UserPattern matches every key scoped to userID across all strategies.
func UserPattern(userID string) string {
	return entityPattern(ScopeUser, userID)
}

// ArticlePattern matches every key scoped to articleID across all strategies.
func ArticlePattern(articleID string) string {
	return entityPattern(ScopeArticle, articleID)
}

func entityPattern(scope Scope, id string) string {
	return Namespace + ":*:" + string(scope) + ":" + escape(id) + ":*"
}

// Signature renders params as k=v pairs sorted by key and joined with ";".
func Signature(params Params) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, escape(k)+"="+formatValue(params[k]))
	}
	return strings.Join(parts, ";")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return escape(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case List:
		return hashList(val)
	case []string:
		return hashList(List(val))
	default:
		return escape(fmt.Sprint(val))
	}
}

// hashList returns the first 12 hex chars of the SHA-256 of the list's
// JSON encoding. An empty list renders as "".
func hashList(l List) string {
	if len(l) == 0 {
		return ""
	}
	data, err := json.Marshal(l)
	if err != nil {
		data = []byte(strings.Join(l, "\x00"))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:6])
}

// escape percent-encodes the characters that carry meaning in keys and
// patterns, so an id can never span segments or act as a wildcard.
func escape(s string) string {
	if !strings.ContainsAny(s, "%:*;=") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '%', ':', '*', ';', '=':
			fmt.Fprintf(&b, "%%%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// matchGlob reports whether key matches pattern, where '*' matches any run
// of bytes (including ':') and every other byte matches itself.
func matchGlob(pattern, key string) bool {
	p, k := 0, 0
	star, mark := -1, 0
	for k < len(key) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = k
			p++
		case p < len(pattern) && pattern[p] == key[k]:
			p++
			k++
		case star >= 0:
			p = star + 1
			mark++
			k = mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

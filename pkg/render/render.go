// Package render fills placeholders in a document with values read from the
// store.
//
// Two placeholder forms are understood:
//
//	${tree:// users/user1 }        value of key user1 in tree users
//	${kv:// greeting | default hi } legacy key greeting, hi when it is missing
//
// The tree part ends at the first slash, the rest is the key. A default of
// '' stands for the empty string.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"regexp"
	"strings"

	"tespkg.in/kit/log"
)

//go:generate mockgen -source=render.go -destination=mock_render.go -package=render

const (
	TreeKind = "tree"
	KvKind   = "kv"

	briefMaxLen      = 50
	defaultEmptyStub = `''`
)

var ErrMissingValue = errors.New("missing value")

var placeholderRegex = regexp.MustCompile(`\$\{(tree|kv):// *([^ |}]+) *(\| *default +([^}]*?))? *}`)

// Getter reads values from the store, *api.Client satisfies it.
type Getter interface {
	TreeGet(ctx context.Context, tree, key string) (string, bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
}

// Placeholder is one reference found in a document.
type Placeholder struct {
	Kind string `json:"kind"`
	Tree string `json:"tree,omitempty"`
	Key  string `json:"key"`

	Default    string `json:"default,omitempty"`
	HasDefault bool   `json:"hasDefault,omitempty"`
}

// id tells apart occurrences of a key with different defaults.
func (p Placeholder) id() string {
	if p.HasDefault {
		return p.String() + " | default " + p.Default
	}
	return p.String()
}

func (p Placeholder) String() string {
	if p.Kind == TreeKind {
		return p.Kind + "://" + p.Tree + "/" + p.Key
	}
	return p.Kind + "://" + p.Key
}

// Scan returns the unique placeholders of r in order of appearance, the same
// key with another default is reported again.
func Scan(r io.Reader) ([]Placeholder, error) {
	bs, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var out []Placeholder
	seen := make(map[string]struct{})
	for _, m := range placeholderRegex.FindAllStringSubmatch(string(bs), -1) {
		p, err := fromMatch(m)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p.id()]; ok {
			continue
		}
		seen[p.id()] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// Render copies r to w with every placeholder replaced by its value.
// Each key is read once, every occurrence then applies its own default.
// Nothing is written when a value can not be resolved.
func Render(ctx context.Context, g Getter, r io.Reader, w io.Writer) error {
	bs, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}
	doc := string(bs)

	lookups := make(map[string]lookup)
	resolved := make(map[string]string)
	for _, m := range placeholderRegex.FindAllStringSubmatch(doc, -1) {
		if _, ok := resolved[m[0]]; ok {
			continue
		}
		p, err := fromMatch(m)
		if err != nil {
			return err
		}
		l, ok := lookups[p.String()]
		if !ok {
			if l, err = lookupOf(ctx, g, p); err != nil {
				return err
			}
			lookups[p.String()] = l
		}
		val, err := l.valueFor(p)
		if err != nil {
			return err
		}
		resolved[m[0]] = val
	}

	doc = placeholderRegex.ReplaceAllStringFunc(doc, func(s string) string {
		return resolved[s]
	})
	_, err = io.WriteString(w, doc)
	return err
}

// lookup is the answer of the store for one key.
type lookup struct {
	value string
	found bool
}

func lookupOf(ctx context.Context, g Getter, p Placeholder) (lookup, error) {
	var (
		l   lookup
		err error
	)
	switch p.Kind {
	case TreeKind:
		l.value, l.found, err = g.TreeGet(ctx, p.Tree, p.Key)
	default:
		l.value, l.found, err = g.Get(ctx, p.Key)
	}
	if err != nil {
		return lookup{}, fmt.Errorf("get %v failed: %w", p, err)
	}
	return l, nil
}

func (l lookup) valueFor(p Placeholder) (string, error) {
	if l.found {
		return l.value, nil
	}
	if !p.HasDefault {
		return "", fmt.Errorf("%w: %v", ErrMissingValue, p)
	}
	log.Infof("Use default value %v for %v", briefOf(p.Default), p)
	return p.Default, nil
}

func fromMatch(m []string) (Placeholder, error) {
	p := Placeholder{Kind: m[1], Key: m[2]}
	if p.Kind == TreeKind {
		parts := strings.SplitN(m[2], "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return Placeholder{}, fmt.Errorf("invalid tree placeholder %q, want <tree>/<key>", m[0])
		}
		p.Tree, p.Key = parts[0], parts[1]
	}
	if m[3] != "" {
		p.HasDefault = true
		p.Default = strings.TrimSpace(m[4])
		if p.Default == defaultEmptyStub {
			p.Default = ""
		}
	}
	return p, nil
}

func briefOf(value string) string {
	if len(value) > briefMaxLen {
		return value[:briefMaxLen] + "..."
	}
	return value
}

package main

import (
	"fmt"
	"io"
)

// summaryTree is an ascii box-drawing renderer adapted from tree/tree.go
// (itself taken from https://github.com/Tufin/asciitree in the teacher
// repo). Only the two operations launch_inspect actually needs -- Add and
// Fprint -- are kept; the teacher's if_absent/if_present callback
// parameters are dropped since this CLI only ever builds a static summary,
// never reacts to repeat insertions.
type summaryTree map[string]summaryTree

func (t summaryTree) Add(path []string) {
	if len(path) == 0 {
		return
	}
	next, ok := t[path[0]]
	if !ok {
		next = summaryTree{}
		t[path[0]] = next
	}
	next.Add(path[1:])
}

func (t summaryTree) Fprint(w io.Writer, root bool, padding string) {
	if t == nil {
		return
	}

	index := 0
	for k, v := range t {
		fmt.Fprintf(w, "%s%s\n", padding+boxPrefix(root, boxType(index, len(t))), k)
		v.Fprint(w, false, padding+boxPrefix(root, boxTypeExternal(index, len(t))))
		index++
	}
}

type box int

const (
	boxRegular box = iota
	boxLast
	boxBetween
	boxAfterLast
)

func (b box) String() string {
	switch b {
	case boxRegular:
		return "├" // ├
	case boxLast:
		return "└" // └
	case boxBetween:
		return "│" // │
	default:
		return " "
	}
}

func boxType(index, length int) box {
	if index+1 == length {
		return boxLast
	}
	return boxRegular
}

func boxTypeExternal(index, length int) box {
	if index+1 == length {
		return boxAfterLast
	}
	return boxBetween
}

func boxPrefix(root bool, b box) string {
	if root {
		return ""
	}
	return b.String() + " "
}

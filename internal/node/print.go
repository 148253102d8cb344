package node

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes v as an indented tree, using the same labels as the
// overlay: "name [n]" for arrays, "name (n)" for maps, "#i" for elements.
func Fprint(w io.Writer, name string, v Value) error {
	return fprint(w, name, v, 0)
}

func fprint(w io.Writer, name string, v Value, depth int) error {
	indent := strings.Repeat("  ", depth)

	switch x := v.(type) {
	case Array:
		if _, err := fmt.Fprintf(w, "%s%s [%d]\n", indent, name, len(x)); err != nil {
			return err
		}
		for i, el := range x {
			if err := fprint(w, fmt.Sprintf("#%d", i), el, depth+1); err != nil {
				return err
			}
		}
		return nil
	case Map:
		if _, err := fmt.Fprintf(w, "%s%s (%d)\n", indent, name, len(x)); err != nil {
			return err
		}
		for _, e := range x {
			if err := fprint(w, e.Key, e.Value, depth+1); err != nil {
				return err
			}
		}
		return nil
	case None:
		_, err := fmt.Fprintf(w, "%s%s = <Empty>\n", indent, name)
		return err
	}

	text, ok := Scalar(v)
	if !ok {
		text = "<Unavailable>"
	}
	_, err := fmt.Fprintf(w, "%s%s = %s\n", indent, name, text)
	return err
}

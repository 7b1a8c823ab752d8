package main

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

// editsFlag collects repeated -set field=value pairs.
type editsFlag map[entity.Field]string

func (e editsFlag) String() string {
	parts := make([]string, 0, len(e))
	for f, v := range e {
		parts = append(parts, string(f)+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (e editsFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("want field=value, got %q", s)
	}
	f, err := entity.ParseField(strings.TrimSpace(name))
	if err != nil {
		return err
	}
	e[f] = value
	return nil
}

// rectFlag parses "x0,y0,x1,y1".
type rectFlag struct {
	image.Rectangle
}

func (r *rectFlag) String() string {
	if r.Empty() {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d,%d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

func (r *rectFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return fmt.Errorf("want x0,y0,x1,y1, got %q", s)
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("bad coordinate %q: %w", p, err)
		}
		n[i] = v
	}
	r.Rectangle = image.Rect(n[0], n[1], n[2], n[3])
	if r.Empty() {
		return fmt.Errorf("empty rectangle %q", s)
	}
	return nil
}

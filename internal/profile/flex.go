package profile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlexInt decodes a numeric field that historical roster files encode
// either as an int or as a quoted string ("4", "-1").
type FlexInt int

func (f *FlexInt) UnmarshalYAML(node *yaml.Node) error {
	var i int
	if err := node.Decode(&i); err == nil {
		*f = FlexInt(i)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("expected int or string, got %s", node.Tag)
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("malformed numeric field %q: %w", s, err)
	}
	*f = FlexInt(i)
	return nil
}

// FlexExpr decodes a field that may be a plain int or a dice expression
// string ("D6", "2d6+1"). The value is kept as its normalized string
// form for the dice service to resolve at roll time.
type FlexExpr string

func (f *FlexExpr) UnmarshalYAML(node *yaml.Node) error {
	var i int
	if err := node.Decode(&i); err == nil {
		*f = FlexExpr(strconv.Itoa(i))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("expected int or string, got %s", node.Tag)
	}
	*f = FlexExpr(strings.TrimSpace(s))
	return nil
}

func (f FlexExpr) String() string { return string(f) }

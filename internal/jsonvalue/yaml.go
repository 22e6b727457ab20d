package jsonvalue

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML lets yaml.v3 encode a Value with object keys in document
// order.
func (v Value) MarshalYAML() (any, error) {
	return v.yamlNode(), nil
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case KindBool:
		return scalar("!!bool", strconv.FormatBool(v.b))
	case KindNumber:
		lit := string(v.num)
		if lit == "" {
			lit = "0"
		}
		if strings.ContainsAny(lit, ".eE") {
			return scalar("!!float", lit)
		}
		return scalar("!!int", lit)
	case KindString:
		return scalar("!!str", v.str)
	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.arr {
			node.Content = append(node.Content, item.yamlNode())
		}
		return node
	case KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members() {
			node.Content = append(node.Content, scalar("!!str", m.Key), m.Value.yamlNode())
		}
		return node
	default:
		return scalar("!!null", "null")
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

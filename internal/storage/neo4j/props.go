package neo4j

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// props reads typed values out of node properties; missing or null
// properties yield zero values
type props map[string]any

func nodeProps(rec *neo4j.Record, key string) (props, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, fmt.Errorf("record has no %q column", key)
	}
	node, ok := v.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("column %q is %T, not a node", key, v)
	}
	return props(node.Props), nil
}

func (p props) str(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p props) boolean(key string) bool {
	b, _ := p[key].(bool)
	return b
}

func (p props) intPtr(key string) *int {
	n, ok := p[key].(int64)
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

func (p props) strings(key string) []string {
	raw, _ := p[key].([]any)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (p props) timePtr(key string) *time.Time {
	var t time.Time
	switch v := p[key].(type) {
	case time.Time:
		t = v
	case neo4j.LocalDateTime:
		t = v.Time()
	default:
		return nil
	}
	t = t.UTC()
	return &t
}

func (p props) time(key string) time.Time {
	if t := p.timePtr(key); t != nil {
		return *t
	}
	return time.Time{}
}

func (p props) uuid(key string) (uuid.UUID, error) {
	id, err := uuid.Parse(p.str(key))
	if err != nil {
		return uuid.Nil, fmt.Errorf("property %q: %w", key, err)
	}
	return id, nil
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func stringList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

package studio

import (
	"context"
	"fmt"
	"sync"
)

func sequenceIDs(prefix string) IDGenerator {
	var mu sync.Mutex
	n := 0
	return IDFunc(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}

// stripIDs blanks node and card ids so schemas can be compared structurally.
func stripIDs(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, node := range nodes {
		node = node.Clone()
		node.ID = ""
		if cards, ok := node.Props.(CardsProps); ok {
			for j := range cards.Cards {
				cards.Cards[j].ID = ""
			}
			node.Props = cards
		}
		node.Children = stripIDs(node.Children)
		out[i] = node
	}
	return out
}

func stripPage(page PageSchema) PageSchema {
	page.Header.Elements = stripIDs(page.Header.Elements)
	page.Body.Elements = stripIDs(page.Body.Elements)
	page.Footer.Elements = stripIDs(page.Footer.Elements)
	return page
}

func flatten(page PageSchema) map[string]Node {
	out := map[string]Node{}
	page.Walk(func(_ SectionType, n Node) bool {
		n.Children = nil
		out[n.ID] = n
		return true
	})
	return out
}

func findType(nodes []Node, t ComponentType) (Node, bool) {
	for _, n := range nodes {
		var found Node
		var ok bool
		n.Walk(func(candidate Node) bool {
			if candidate.Type == t {
				found, ok = candidate, true
				return false
			}
			return true
		})
		if ok {
			return found, true
		}
	}
	return Node{}, false
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type recordingHook struct {
	mu     sync.Mutex
	events []StudioEvent
	err    error
}

func (h *recordingHook) PageUpdated(_ context.Context, event StudioEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHook) Events() []StudioEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]StudioEvent(nil), h.events...)
}

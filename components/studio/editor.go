package studio

import (
	"fmt"
	"sync"
)

// Patch is a partial update applied to one node. Props keys use the wire (camelCase) names.
type Patch struct {
	Props  map[string]any    `json:"props,omitempty"`
	Styles map[string]string `json:"styles,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Props) == 0 && len(p.Styles) == 0
}

// Position addresses an insertion point. An empty ParentID targets the zone root; an
// Index outside the sibling range appends.
type Position struct {
	Section  SectionType `json:"section"`
	ParentID string      `json:"parent_id,omitempty"`
	Index    int         `json:"index"`
}

// AppendTo returns a position that appends to the root of section.
func AppendTo(section SectionType) Position {
	return Position{Section: section, Index: -1}
}

type slot struct {
	node     Node
	section  SectionType
	parent   string
	children []string
}

// Editor holds the descriptor tree of one page in an id-indexed arena. Lookups by id are
// constant time and updates mutate the arena slot in place.
type Editor struct {
	mu         sync.RWMutex
	ids        IDGenerator
	slots      map[string]*slot
	roots      map[SectionType][]string
	zoneStyles map[SectionType]Styles
	selectedID string
	viewport   Viewport
	editMode   EditMode
	active     SectionType
}

// NewEditor returns an empty editor. Nil ids fall back to uuid v4.
func NewEditor(ids IDGenerator) *Editor {
	e := &Editor{ids: normalizeIDs(ids)}
	e.reset()
	return e
}

func (e *Editor) reset() {
	e.slots = map[string]*slot{}
	e.roots = map[SectionType][]string{}
	e.zoneStyles = map[SectionType]Styles{}
	e.selectedID = ""
	e.viewport = ViewportDesktop
	e.editMode = EditModeAll
	e.active = SectionBody
}

// Load replaces the editor contents with schema. Selection is cleared.
func (e *Editor) Load(schema PageSchema) error {
	if err := schema.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	viewport, mode, active := e.viewport, e.editMode, e.active
	e.reset()
	e.viewport, e.editMode, e.active = viewport, mode, active
	for _, section := range Sections {
		zone := schema.Zone(section)
		e.zoneStyles[section] = zone.Styles.Clone()
		for _, node := range zone.Elements {
			e.roots[section] = append(e.roots[section], e.insertTree(node, section, ""))
		}
	}
	return nil
}

func (e *Editor) insertTree(node Node, section SectionType, parent string) string {
	s := &slot{node: node.Clone(), section: section, parent: parent}
	s.node.Children = nil
	e.slots[node.ID] = s
	for _, child := range node.Children {
		s.children = append(s.children, e.insertTree(child, section, node.ID))
	}
	return node.ID
}

// Snapshot materializes the current page.
func (e *Editor) Snapshot() PageSchema {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var schema PageSchema
	for _, section := range Sections {
		zone := schema.Zone(section)
		zone.Styles = e.zoneStyles[section].Clone()
		zone.Elements = e.materializeAll(e.roots[section])
	}
	return schema
}

// Components returns the root elements of a section.
func (e *Editor) Components(section SectionType) []Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.materializeAll(e.roots[section])
}

// Component returns the node with id and its subtree.
func (e *Editor) Component(id string) (Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.slots[id]
	if !ok {
		return Node{}, false
	}
	return e.materialize(id, s), true
}

// Locate reports the section holding id.
func (e *Editor) Locate(id string) (SectionType, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.slots[id]
	if !ok {
		return "", false
	}
	return s.section, true
}

// Len reports how many nodes the page holds.
func (e *Editor) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.slots)
}

func (e *Editor) materializeAll(ids []string) []Node {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.materialize(id, e.slots[id]))
	}
	return out
}

func (e *Editor) materialize(id string, s *slot) Node {
	node := s.node.Clone()
	node.Children = e.materializeAll(s.children)
	return node
}

// UpdateComponent shallow-merges patch into the node with id. Unknown ids are a no-op and
// report false. In individual edit mode prop keys land in the active viewport overrides.
func (e *Editor) UpdateComponent(id string, patch Patch) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.slots[id]
	if !ok {
		return false, nil
	}
	node := s.node
	if len(patch.Props) > 0 {
		if e.editMode == EditModeIndividual {
			overrides := node.Overrides.clone()
			if overrides == nil {
				overrides = ViewportOverrides{}
			}
			merged := cloneMap(overrides[e.viewport])
			if merged == nil {
				merged = map[string]any{}
			}
			for key, value := range patch.Props {
				merged[key] = value
			}
			if _, err := MergeProps(node.Props, merged); err != nil {
				return false, fmt.Errorf("studio: update %s: %w", id, err)
			}
			overrides[e.viewport] = merged
			node.Overrides = overrides
		} else {
			props, err := MergeProps(node.Props, patch.Props)
			if err != nil {
				return false, fmt.Errorf("studio: update %s: %w", id, err)
			}
			node.Props = props
		}
	}
	if len(patch.Styles) > 0 {
		styles := node.Styles.Clone()
		if styles == nil {
			styles = Styles{}
		}
		for key, value := range patch.Styles {
			if value == "" {
				delete(styles, key)
				continue
			}
			styles[key] = value
		}
		node.Styles = styles
	}
	s.node = node
	return true, nil
}

// AddComponent appends a default node of type t to the root of the active section and
// selects it.
func (e *Editor) AddComponent(t ComponentType) (Node, error) {
	node, _, err := e.AddComponentAt(t, Position{Index: -1})
	return node, err
}

// AddComponentAt inserts a default node of type t at pos, selects it and returns the section
// it landed in. A blank Section is taken from ParentID, or from the active section when pos
// has no parent; both are read under the same lock as the insert.
func (e *Editor) AddComponentAt(t ComponentType, pos Position) (Node, SectionType, error) {
	props, ok := DefaultProps(t)
	if !ok {
		return Node{}, "", fmt.Errorf("%w: %s", ErrUnknownComponentType, t)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos.Section == "" {
		if pos.ParentID == "" {
			pos.Section = e.active
		} else if parent, ok := e.slots[pos.ParentID]; ok {
			pos.Section = parent.section
		} else {
			return Node{}, "", fmt.Errorf("%w: %s", ErrNodeNotFound, pos.ParentID)
		}
	}
	node := Node{ID: e.freshID(), Type: t, Props: assignCardIDs(props, e.ids)}
	if err := e.attach(node.ID, pos, func() { e.slots[node.ID] = &slot{node: node, section: pos.Section, parent: pos.ParentID} }); err != nil {
		return Node{}, "", err
	}
	e.selectedID = node.ID
	return node.Clone(), pos.Section, nil
}

func (e *Editor) freshID() string {
	for {
		id := e.ids.NewID()
		if _, taken := e.slots[id]; !taken && id != "" {
			return id
		}
	}
}

// attach validates pos, runs register, and links id under the target. Caller holds the lock.
func (e *Editor) attach(id string, pos Position, register func()) error {
	if !pos.Section.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSection, pos.Section)
	}
	if pos.ParentID != "" {
		parent, ok := e.slots[pos.ParentID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, pos.ParentID)
		}
		if !IsContainer(parent.node.Type) {
			return fmt.Errorf("%w: %s", ErrNotContainer, pos.ParentID)
		}
		if parent.section != pos.Section {
			return fmt.Errorf("%w: %s is in %s", ErrNodeNotFound, pos.ParentID, parent.section)
		}
		register()
		parent.children = insertAt(parent.children, pos.Index, id)
		return nil
	}
	register()
	e.roots[pos.Section] = insertAt(e.roots[pos.Section], pos.Index, id)
	return nil
}

// RemoveComponent deletes the node with id and its subtree. Removing the selected node (or
// one of its ancestors) clears the selection.
func (e *Editor) RemoveComponent(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.slots[id]
	if !ok {
		return false
	}
	e.detach(id, s)
	e.drop(id)
	if _, still := e.slots[e.selectedID]; e.selectedID != "" && !still {
		e.selectedID = ""
	}
	return true
}

func (e *Editor) drop(id string) {
	s := e.slots[id]
	if s == nil {
		return
	}
	for _, child := range s.children {
		e.drop(child)
	}
	delete(e.slots, id)
}

func (e *Editor) detach(id string, s *slot) {
	if s.parent != "" {
		if parent, ok := e.slots[s.parent]; ok {
			parent.children = removeID(parent.children, id)
		}
		return
	}
	e.roots[s.section] = removeID(e.roots[s.section], id)
}

// MoveComponent relocates the node with id (and its subtree) to pos. Node identity is kept.
func (e *Editor) MoveComponent(id string, pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.slots[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	for ancestor := pos.ParentID; ancestor != ""; {
		if ancestor == id {
			return ErrInvalidMove
		}
		next, ok := e.slots[ancestor]
		if !ok {
			break
		}
		ancestor = next.parent
	}
	prev := Position{Section: s.section, ParentID: s.parent, Index: e.indexOf(id, s)}
	e.detach(id, s)
	err := e.attach(id, pos, func() {
		s.parent = pos.ParentID
		e.setSection(id, pos.Section)
	})
	if err != nil {
		_ = e.attach(id, prev, func() {
			s.parent = prev.ParentID
			e.setSection(id, prev.Section)
		})
		return err
	}
	return nil
}

func (e *Editor) indexOf(id string, s *slot) int {
	siblings := e.roots[s.section]
	if s.parent != "" {
		siblings = e.slots[s.parent].children
	}
	for i, candidate := range siblings {
		if candidate == id {
			return i
		}
	}
	return -1
}

func (e *Editor) setSection(id string, section SectionType) {
	s := e.slots[id]
	s.section = section
	for _, child := range s.children {
		e.setSection(child, section)
	}
}

// Select marks id as selected. An empty id clears the selection. Dangling ids are kept and
// reported as false.
func (e *Editor) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectedID = id
	_, ok := e.slots[id]
	return ok
}

// SelectedID returns the raw selection.
func (e *Editor) SelectedID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedID
}

// SelectedComp resolves the selection. A dangling selection yields false.
func (e *Editor) SelectedComp() (Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.selectedID == "" {
		return Node{}, false
	}
	s, ok := e.slots[e.selectedID]
	if !ok {
		return Node{}, false
	}
	return e.materialize(e.selectedID, s), true
}

// SetViewport selects which overrides individual edits write to.
func (e *Editor) SetViewport(vp Viewport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = vp
}

// Viewport returns the active viewport.
func (e *Editor) Viewport() Viewport {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewport
}

// SetEditMode switches between base and per-viewport edits.
func (e *Editor) SetEditMode(mode EditMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editMode = mode
}

// EditMode returns the active edit mode.
func (e *Editor) EditMode() EditMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.editMode
}

// SetActiveSection selects the zone AddComponent appends to.
func (e *Editor) SetActiveSection(section SectionType) error {
	if !section.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = section
	return nil
}

// ActiveSection returns the zone AddComponent appends to.
func (e *Editor) ActiveSection() SectionType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

func insertAt(list []string, index int, id string) []string {
	if index < 0 || index >= len(list) {
		return append(list, id)
	}
	list = append(list, "")
	copy(list[index+1:], list[index:])
	list[index] = id
	return list
}

func removeID(list []string, id string) []string {
	for i, candidate := range list {
		if candidate == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

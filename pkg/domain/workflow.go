package domain

// WorkflowDocument is the portable shape of an exported workflow. It carries
// only the fields that are safe to publish; everything else in an export
// (instance metadata, pin data, version ids) is dropped by the normalizer.
type WorkflowDocument struct {
	Name        string         `json:"name"`
	Nodes       []Node         `json:"nodes"`
	Connections map[string]any `json:"connections"`
	Settings    map[string]any `json:"settings"`
}

// Node is one step of a workflow. Exports are schema-free beyond a handful
// of well-known keys, so a node stays a raw mapping with typed accessors
// over the shapes the engine understands.
type Node map[string]any

// ID returns the node id, or "" if absent.
func (n Node) ID() string {
	s, _ := n["id"].(string)
	return s
}

// Name returns the node display name, or "" if absent.
func (n Node) Name() string {
	s, _ := n["name"].(string)
	return s
}

// Type returns the node type tag. The engine treats it as opaque except for
// structural checks (embedded code, webhook triggers, sticky notes).
func (n Node) Type() string {
	s, _ := n["type"].(string)
	return s
}

// Parameters returns the node's parameter mapping, or nil if absent.
func (n Node) Parameters() map[string]any {
	m, _ := n["parameters"].(map[string]any)
	return m
}

// Credentials returns the node's credential bindings keyed by credential
// type tag, or nil if the node has none.
func (n Node) Credentials() map[string]any {
	m, _ := n["credentials"].(map[string]any)
	return m
}

// Notes returns the human-written notes field, or "" if absent.
func (n Node) Notes() string {
	s, _ := n["notes"].(string)
	return s
}

package api

// KeyValue is the payload of a legacy insert. Tree is always sent as null
// by Insert, the field is kept for wire compatibility.
type KeyValue struct {
	Key   string  `json:"key"`
	Value string  `json:"value"`
	Tree  *string `json:"tree"`
}

// TreeOperation is the payload of a tree scoped write.
type TreeOperation struct {
	Tree  string  `json:"tree"`
	Key   string  `json:"key"`
	Value *string `json:"value,omitempty"`
}

package csexp

// Kind identifies the variant of a node.
type Kind int

const (
	KindNil Kind = iota
	KindCons
	KindSymbol
	KindString
	KindInteger
	KindTagged
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindCons:
		return "cons"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindTagged:
		return "tagged atom"
	default:
		return "unknown"
	}
}

// Storage selects how a document's nodes are held in memory.
type Storage int

const (
	// StorageTree links nodes by pointer.
	StorageTree Storage = iota
	// StorageLinear keeps all nodes in one arena addressed by Ref.
	StorageLinear
)

func (s Storage) String() string {
	switch s {
	case StorageTree:
		return "tree"
	case StorageLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// ParseStorage maps a storage name ("tree" or "linear") to its Storage.
func ParseStorage(name string) (Storage, bool) {
	switch name {
	case "tree":
		return StorageTree, true
	case "linear":
		return StorageLinear, true
	}
	return 0, false
}

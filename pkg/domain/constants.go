package domain

// Field constants for documents and JSON standardization.
const (
	// KeyTag is the document attribute holding a node's tag.
	KeyTag = "tag"
	// KeyTypeInfo is the document attribute holding a node's registry name.
	KeyTypeInfo = "type_info"

	// KeyAttributes and KeyChildren are the two members of every document node.
	KeyAttributes = "attributes"
	KeyChildren   = "children"
)

// Archive layout.
const (
	// ArchiveEntry is the name of the single JSON payload inside a project archive.
	ArchiveEntry = "digest.json"
	// DefaultExtension is appended to project names by file based stores.
	DefaultExtension = ".proj"
)

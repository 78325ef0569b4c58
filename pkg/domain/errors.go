package domain

import "errors"

// ErrInvalidChildKind is returned when a child's kind is not accepted by the parent.
var ErrInvalidChildKind = errors.New("invalid child kind")

// ErrDuplicateTag is returned when a tag collides with a sibling or with the parent's tag.
var ErrDuplicateTag = errors.New("duplicate tag")

// ErrUnknownTag is returned when no child carries the requested tag.
var ErrUnknownTag = errors.New("unknown tag")

// ErrIndexOutOfRange is returned when a child position is outside the valid range.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrUnknownEntityKind is returned when a type tag has no registered factory.
var ErrUnknownEntityKind = errors.New("unknown entity kind")

// ErrInvalidPropertyValue is returned when a value cannot be coerced or fails validation.
var ErrInvalidPropertyValue = errors.New("invalid property value")

// ErrMalformedDocument is returned when a serialized document cannot be rebuilt into a tree.
var ErrMalformedDocument = errors.New("malformed document")

// ErrIO is returned when the archive or file layer fails.
var ErrIO = errors.New("io failure")

// ErrInvalidTag is returned when a tag is empty or contains forbidden characters.
var ErrInvalidTag = errors.New("invalid tag")

// ErrAlreadyAttached is returned when a node that already has a parent is attached again.
var ErrAlreadyAttached = errors.New("node already attached")

// ErrCycle is returned when a node would become its own ancestor.
var ErrCycle = errors.New("node cannot be attached beneath itself")

// ErrProjectNotFound is returned when a project name cannot be found in the store.
var ErrProjectNotFound = errors.New("project not found")

// ErrProjectExists is returned when creating a project whose name is taken.
var ErrProjectExists = errors.New("project already exists")

// ErrInvalidProjectName is returned when a project name cannot be used as a storage key.
var ErrInvalidProjectName = errors.New("invalid project name")

// ErrRootNode is returned when an operation needs a parent but targets the model root.
var ErrRootNode = errors.New("operation not allowed on the root node")

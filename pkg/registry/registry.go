// Package registry maps entity type tags to factories and property tables.
//
// A Registry is populated once at startup and sealed on first use. After
// sealing, lookups read the table without taking a lock.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// ErrSealed is returned when registering into a registry that is already in use.
var ErrSealed = errors.New("registry is sealed")

// Factory builds the payload of a new entity from its constructor arguments.
// Arguments have already been coerced against Descriptor.Required.
type Factory func(args map[string]any) (any, error)

// Descriptor describes one instantiable entity type.
type Descriptor struct {
	// Name is the type tag used to create the entity ("component", "rectangle").
	Name string
	// Kind is the family the entity belongs to.
	Kind domain.Kind
	// Children lists the kinds accepted as children. Empty means a leaf.
	Children []domain.Kind
	// Required lists constructor arguments that must be supplied on creation.
	Required schema.Schema
	// New builds the entity payload.
	New Factory
	// Properties is the attribute table of the payload.
	Properties attr.Table
	// Summary is a one line description for listings.
	Summary string
}

// Accepts reports whether kind may be a child of entities of this type.
func (d *Descriptor) Accepts(kind domain.Kind) bool {
	for _, k := range d.Children {
		if k == kind {
			return true
		}
	}
	return false
}

// Build coerces args against the required schema and runs the factory.
func (d *Descriptor) Build(args map[string]any) (any, error) {
	required := make(map[string]any, len(d.Required))
	for k := range d.Required {
		if v, ok := args[k]; ok {
			required[k] = v
		}
	}
	coerced, err := schema.Coerce(d.Required, required)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidPropertyValue, d.Name, err)
	}
	entity, err := d.New(coerced)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidPropertyValue, d.Name, err)
	}
	return entity, nil
}

// Registry holds the descriptors known to a process.
type Registry struct {
	mu       sync.Mutex
	sealed   atomic.Bool
	entries  map[string]*Descriptor
	families map[domain.Kind]string
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		entries:  make(map[string]*Descriptor),
		families: make(map[domain.Kind]string),
	}
}

// Register adds a descriptor. Names are normalized and must be unique.
func (r *Registry) Register(d Descriptor) error {
	d.Name = Normalize(d.Name)
	if d.Name == "" || d.Kind == "" || d.New == nil {
		return fmt.Errorf("register %q: name, kind and factory are required", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return fmt.Errorf("register %q: %w", d.Name, ErrSealed)
	}
	if _, exists := r.entries[d.Name]; exists {
		return fmt.Errorf("register %q: already registered", d.Name)
	}
	if d.Required == nil {
		d.Required = schema.Schema{}
	}
	r.entries[d.Name] = &d
	return nil
}

// MustRegister is like Register but panics on error. Intended for init functions.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// RegisterFamily declares kind as abstract: its members are told apart in
// documents by the value of the discriminator attribute.
func (r *Registry) RegisterFamily(kind domain.Kind, discriminator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return fmt.Errorf("register family %q: %w", kind, ErrSealed)
	}
	r.families[kind] = discriminator
	return nil
}

// Seal forbids further registration. Lookups seal implicitly.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

// Sealed reports whether the registry accepts registrations.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

func (r *Registry) ensureSealed() {
	if !r.sealed.Load() {
		r.Seal()
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.ensureSealed()
	d, ok := r.entries[Normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityKind, name)
	}
	return d, nil
}

// Discriminator returns the attribute that tells members of kind apart, if
// kind was registered as a family.
func (r *Registry) Discriminator(kind domain.Kind) (string, bool) {
	r.ensureSealed()
	key, ok := r.families[kind]
	return key, ok
}

// Resolve finds the descriptor for a serialized node from its type_info
// attribute, following the family discriminator when type_info names an
// abstract kind.
func (r *Registry) Resolve(attributes map[string]any) (*Descriptor, error) {
	typeInfo, ok := attributes[domain.KeyTypeInfo].(string)
	if !ok || typeInfo == "" {
		return nil, fmt.Errorf("%w: missing %q", domain.ErrUnknownEntityKind, domain.KeyTypeInfo)
	}

	if key, family := r.Discriminator(domain.Kind(typeInfo)); family {
		variant, _ := attributes[key].(string)
		if variant == "" {
			return nil, fmt.Errorf("%w: %s without %q", domain.ErrUnknownEntityKind, typeInfo, key)
		}
		d, err := r.Lookup(variant)
		if err != nil {
			return nil, err
		}
		if d.Kind != domain.Kind(typeInfo) {
			return nil, fmt.Errorf("%w: %q is not a %s", domain.ErrUnknownEntityKind, variant, typeInfo)
		}
		return d, nil
	}
	return r.Lookup(typeInfo)
}

// Descriptors returns every registered descriptor sorted by name.
func (r *Registry) Descriptors() []*Descriptor {
	r.ensureSealed()
	out := make([]*Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Normalize lowercases a type tag and maps spaces and dashes to underscores,
// so "Laminar Flow" and "laminar-flow" both name "laminar_flow".
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// Decode copies coerced constructor arguments into a struct tagged with
// `mapstructure` keys.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

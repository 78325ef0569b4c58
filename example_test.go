package femtree_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/pkg/adapters/memory"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
)

// ExampleNew_memory builds a small geometry with an in-memory store.
func ExampleNew_memory() {
	engine, err := femtree.New(memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := engine.NewProject(ctx, "channel", ""); err != nil {
		log.Fatal(err)
	}
	if _, err := engine.Create(ctx, "channel", "", fem.TypeComponent, "comp", map[string]any{"dim": 2}); err != nil {
		log.Fatal(err)
	}
	if _, err := engine.Create(ctx, "channel", "comp", fem.TypeGeometry, "geom", nil); err != nil {
		log.Fatal(err)
	}

	rect, err := engine.Create(ctx, "channel", "comp/geom", fem.TypeRectangle, "r1",
		map[string]any{"a": "100 mm", "b": "20 mm"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rect.Path, rect.Kind, rect.Attributes["a"])

	// Geometry does not accept a study.
	_, err = engine.Create(ctx, "channel", "comp/geom", fem.TypeStudy, "std", nil)
	fmt.Println(errors.Is(err, domain.ErrInvalidChildKind))

	// Output:
	// comp/geom/r1 geometry_feature 0.1 m
	// true
}

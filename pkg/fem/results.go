package fem

import (
	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
)

// Results holds the results features of a model.
type Results struct{}

func resultsDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     TypeResults,
		Kind:     domain.KindResults,
		Children: []domain.Kind{domain.KindResultsFeature},
		New:      container[Results],
		Summary:  "Container of results features",
	}
}

// LinePlot evaluates the solution along Line.
type LinePlot struct {
	Line string
}

func linePlotDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: TypeLinePlot,
		Kind: domain.KindResultsFeature,
		New:  container[LinePlot],
		Properties: attr.Table{
			attr.Const(KeyResultsType, TypeLinePlot),
			attr.OptionalString("line", func(p *LinePlot) string { return p.Line },
				func(p *LinePlot, v string) { p.Line = v }),
		},
		Summary: "Solution plotted along a line",
	}
}

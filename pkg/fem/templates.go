package fem

import (
	"fmt"
	"strconv"

	"github.com/aretw0/femtree/pkg/dsl"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/aretw0/femtree/pkg/units"
)

// ChannelOptions parameterize the Poiseuille flow templates.
type ChannelOptions struct {
	Tag            string
	Length         units.Quantity // along the flow
	Height         units.Quantity // across the flow; the radius for the axisymmetric pipe
	Viscosity      units.Quantity
	Density        units.Quantity
	InletPressure  units.Quantity
	OutletPressure units.Quantity
	EndTime        units.Quantity
	NumSteps       int
}

// DefaultChannel returns water at 300 K in a 100 mm by 20 mm channel driven
// by an 8 Pa pressure drop for 10 s.
func DefaultChannel() ChannelOptions {
	return ChannelOptions{
		Tag:            "pp",
		Length:         units.MustParse("100 mm"),
		Height:         units.MustParse("20 mm"),
		Viscosity:      units.MustParse("8.548e-4 Pa*s"),
		Density:        units.MustParse("996.534 kg/m^3"),
		InletPressure:  units.MustParse("8 Pa"),
		OutletPressure: units.MustParse("0 Pa"),
		EndTime:        units.MustParse("10 s"),
		NumSteps:       500,
	}
}

// Templates lists the model templates by name.
var Templates = map[string]func(*registry.Registry, ChannelOptions) (*tree.ModelTree, error){
	"poiseuille_plane": PoiseuillePlane,
	"poiseuille_axi":   PoiseuilleAxi,
}

// PoiseuillePlane builds pressure driven flow between two parallel plates.
// The channel spans x in [0, Length] and y in [0, Height].
func PoiseuillePlane(reg *registry.Registry, opts ChannelOptions) (*tree.ModelTree, error) {
	l, h := num(opts.Length), num(opts.Height)
	return channel(reg, opts, false, channelGeometry{
		a:       opts.Length,
		b:       opts.Height,
		inflow:  "on_boundary && near(x[0], 0.0, tol)",
		outflow: fmt.Sprintf("on_boundary && near(x[0], %s, tol)", l),
		wall:    fmt.Sprintf("on_boundary && near(x[1], 0) || near(x[1], %s)", h),
		line:    fmt.Sprintf("x[1] == %s", num(units.Quantity{Value: opts.Height.Value / 2, Dim: units.Length})),
	})
}

// PoiseuilleAxi builds pressure driven flow in a circular pipe, modelled as
// an axisymmetric rectangle with r in [0, Height] and z in [0, Length].
func PoiseuilleAxi(reg *registry.Registry, opts ChannelOptions) (*tree.ModelTree, error) {
	if opts.Tag == DefaultChannel().Tag {
		opts.Tag = "pa"
	}
	l, r := num(opts.Length), num(opts.Height)
	return channel(reg, opts, true, channelGeometry{
		a:       opts.Height,
		b:       opts.Length,
		inflow:  fmt.Sprintf("on_boundary && near(x[1], %s, tol)", l),
		outflow: "on_boundary && near(x[1], 0.0, tol)",
		wall:    fmt.Sprintf("on_boundary && near(x[0], %s)", r),
		line:    "x[0] == 0",
	})
}

type channelGeometry struct {
	a, b                        units.Quantity
	inflow, outflow, wall, line string
}

func channel(reg *registry.Registry, opts ChannelOptions, axi bool, g channelGeometry) (*tree.ModelTree, error) {
	if opts.NumSteps <= 0 {
		return nil, fmt.Errorf("num_steps must be positive, got %d", opts.NumSteps)
	}
	dt := units.Quantity{Value: opts.EndTime.Value / float64(opts.NumSteps), Dim: units.Time}

	b := dsl.New(reg, opts.Tag)
	root := b.Root()

	comp := root.Add(TypeComponent, "comp", map[string]any{"dim": 2, "is_axi": axi})
	comp.Add(TypeGeometry, "geom", nil).
		Add(TypeRectangle, "r1", map[string]any{"a": g.a, "b": g.b})
	comp.Add(TypeMesh, "mesh", map[string]any{"geom_tag": "geom"})
	comp.Add(TypeMaterials, "mat", nil).
		Do(func(n *tree.Node) error {
			mat, _ := tree.EntityAs[*Materials](n)
			if err := mat.Add("water", "x[0] <= 0.5 + tol", PropDensity, opts.Density); err != nil {
				return err
			}
			return mat.Add("water", "x[0] <= 0.5 + tol", PropDynamicViscosity, opts.Viscosity)
		})
	comp.Add(TypePhysics, "cfd", nil).
		Add(TypeLaminarFlow, "lam", map[string]any{
			"inflow":          g.inflow,
			"outflow":         g.outflow,
			"wall":            g.wall,
			"inlet_pressure":  opts.InletPressure,
			"outlet_pressure": opts.OutletPressure,
		})

	root.Add(TypeStudy, "std", map[string]any{"physics_tag": "cfd"}).
		Add(TypeIpcs, "ipcs1", map[string]any{"dt": dt, "num_steps": opts.NumSteps})
	root.Add(TypeResults, "res", nil).
		Add(TypeLinePlot, "lp1", map[string]any{"line": g.line})

	return b.Build()
}

// num renders the SI magnitude of q.
func num(q units.Quantity) string {
	return strconv.FormatFloat(q.Value, 'g', -1, 64)
}

package core

import (
	"strconv"
	"strings"

	"sandlife/internal/config"
	"sandlife/pkg/topology"
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeString denotes names, rules and lists.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single value a simulation was built with.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// ParameterSnapshot captures the current set of parameters exposed by a sim.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// MeshGroup describes the topology and initial condition shared by all sims.
func MeshGroup(cfg config.Config, topo *topology.Topology) ParameterGroup {
	dims := make([]string, 0, len(cfg.Shape))
	for _, d := range topo.Shape() {
		dims = append(dims, strconv.Itoa(d))
	}
	return ParameterGroup{
		Name:    "Mesh",
		Summary: topo.String(),
		Params: []Parameter{
			StringParam("kind", "Kind", topo.Kind().String()),
			StringParam("shape", "Shape", strings.Join(dims, "x")),
			StringParam("boundary", "Boundary", topo.Boundary().String()),
			StringParam("neighborhood", "Neighborhood", topo.Neighborhood().String()),
			IntParam("max_degree", "Max degree", topo.MaxDegree()),
			IntParam("cells", "Cells", topo.Size()),
		},
	}
}

// SeedGroup describes the initial fill and run budget.
func SeedGroup(cfg config.Config) ParameterGroup {
	return ParameterGroup{
		Name: "Initial state",
		Params: []Parameter{
			StringParam("fill", "Fill", cfg.Fill),
			IntParam("value", "Value", int(cfg.Value)),
			IntParam("min", "Min", int(cfg.Min)),
			IntParam("max", "Max", int(cfg.Max)),
			FloatParam("density", "Density", cfg.Density),
			Int64Param("seed", "Seed", cfg.Seed),
			IntParam("max_steps", "Max steps", cfg.MaxSteps),
		},
	}
}

// IntParam formats an integer parameter.
func IntParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

// Int64Param formats a 64-bit integer parameter.
func Int64Param(key, label string, value int64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

// FloatParam formats a float with the shortest exact representation.
func FloatParam(key, label string, value float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

// StringParam wraps a name, rule or list.
func StringParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: value}
}

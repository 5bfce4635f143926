package cache

import "sort"

// SliceKeyOpts are the inputs of one slicing run.
type SliceKeyOpts struct {
	// ModelHash is Hash of the placed model file sent to the slicer.
	ModelHash string
	// Params are the slicing.* settings passed through to the slicer.
	Params map[string]string
	// Figures are the figure descriptions, in registry order.
	Figures []string
	// Command is the slicer command template.
	Command string
}

// Keyer generates cache keys.
type Keyer interface {
	// SliceKey identifies a slicing result.
	SliceKey(opts SliceKeyOpts) string
}

// DefaultKeyer is the standard key layout: "slice:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SliceKey hashes every input that changes the slicing output. Parameter
// order does not matter.
func (DefaultKeyer) SliceKey(opts SliceKeyOpts) string {
	names := make([]string, 0, len(opts.Params))
	for k := range opts.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	params := make([][2]string, len(names))
	for i, k := range names {
		params[i] = [2]string{k, opts.Params[k]}
	}
	return hashKey("slice", opts.ModelHash, params, opts.Figures, opts.Command)
}

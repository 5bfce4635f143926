package render

// Style holds the colors and widths the core applies to actors, along with
// the default dimensions of figure and reference-plane geometry.
type Style struct {
	Background     RGB
	Layer          RGB
	LastLayer      RGB
	Figure         RGB
	SelectedFigure RGB
	Model          RGB

	LayerWidth     float64
	LastLayerWidth float64

	PlaneSizeX    float64
	PlaneSizeY    float64
	PlaneDiameter float64
}

// DefaultStyle returns the stock viewer palette.
func DefaultStyle() Style {
	return Style{
		Background:     MustColor("SlateGray"),
		Layer:          MustColor("White"),
		LastLayer:      MustColor("Red"),
		Figure:         MustColor("Cyan"),
		SelectedFigure: MustColor("Red"),
		Model:          MustColor("Gainsboro"),
		LayerWidth:     1,
		LastLayerWidth: 4,
		PlaneSizeX:     200,
		PlaneSizeY:     200,
		PlaneDiameter:  250,
	}
}

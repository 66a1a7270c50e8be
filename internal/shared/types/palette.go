package types

import "github.com/diillson/aws-finops-trends/internal/domain/entity"

// Palette maps category labels to hex colors for chart renderers.
// Labels without an entry get a color from the rotation.
type Palette map[string]string

// OthersColor is the fixed color of the "Others" bucket.
const OthersColor = "#9CA3AF"

var rotation = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// DefaultPalette returns the palette used when no colors are configured.
func DefaultPalette() Palette {
	return Palette{
		entity.OthersLabel: OthersColor,
		// severities
		"CRITICAL": "#B91C1C",
		"HIGH":     "#EF4444",
		"MEDIUM":   "#F59E0B",
		"LOW":      "#10B981",
	}
}

// Merge returns a copy of p with the entries of other applied on top.
func (p Palette) Merge(other Palette) Palette {
	merged := make(Palette, len(p)+len(other))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Colors assigns a color to each label, in order. Explicit entries win;
// the rest take rotation colors in sequence.
func (p Palette) Colors(labels []string) []string {
	colors := make([]string, len(labels))
	next := 0
	for i, label := range labels {
		if c, ok := p[label]; ok {
			colors[i] = c
			continue
		}
		colors[i] = rotation[next%len(rotation)]
		next++
	}
	return colors
}

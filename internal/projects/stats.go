package projects

// FilmWidthMM is the fixed width of the film roll material in millimeters.
// Film area is always cut from rolls of this width, so total film usage is
// roll width times the summed segment lengths.
const FilmWidthMM = 1520

// Stats summarizes a payload for list display.
type Stats struct {
	Products  []string `json:"products,omitempty"`
	GlassArea float64  `json:"glass_area"`
	FilmArea  float64  `json:"film_area"`
	HasData   bool     `json:"has_data"`
}

// ExtractStats derives area and product summaries from a payload.
// Areas are converted from mm² to m². A nil payload yields the zero Stats.
func ExtractStats(p *Payload) Stats {
	var stats Stats
	if p == nil {
		return stats
	}

	if len(p.Glasses) > 0 {
		stats.HasData = true

		var sum float64
		seen := make(map[string]struct{})
		for _, g := range p.Glasses {
			sum += float64(g.Width) * float64(g.Height) * float64(g.Quantity)
			if g.Product != "" {
				if _, ok := seen[g.Product]; !ok {
					seen[g.Product] = struct{}{}
					stats.Products = append(stats.Products, g.Product)
				}
			}
		}
		stats.GlassArea = sum / 1_000_000
	}

	if p.OptimizationResult != nil && len(p.OptimizationResult.Segments) > 0 {
		var total float64
		for _, seg := range p.OptimizationResult.Segments {
			total += float64(seg.Length)
		}
		stats.FilmArea = FilmWidthMM * total / 1_000_000
		stats.HasData = true
	}

	return stats
}

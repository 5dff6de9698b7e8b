package sim

import (
	"fmt"
	"image/color"

	"github.com/milosgajdos/go-localize/landmark"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewRunPlot creates new plot of a localization run from the following data sources:
// lms:       landmark map
// truth:     ground truth positions stored in rows as [x, y]
// filter:    filter position estimates stored in rows as [x, y]
// particles: final particle poses stored in columns as [x, y, theta]; may be nil
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * the map, truth or filter data is nil
// * truth or filter data does not have at least 2 columns
// * particles do not have at least 2 rows
// * gonum plot fails to be created
func NewRunPlot(lms *landmark.Map, truth, filter *mat.Dense, particles mat.Matrix) (*plot.Plot, error) {
	if lms == nil || truth == nil || filter == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	_, ct := truth.Dims()
	_, cf := filter.Dims()
	if ct < 2 || cf < 2 {
		return nil, fmt.Errorf("invalid data dimensions")
	}

	p := plot.New()

	p.Title.Text = "Localization"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// Make a scatter plotter for landmarks
	lmScatter, err := plotter.NewScatter(landmarkPoints(lms))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	lmScatter.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	lmScatter.Shape = draw.BoxGlyph{}
	lmScatter.GlyphStyle.Radius = vg.Points(4)

	p.Add(lmScatter)
	p.Legend.Add("landmarks", lmScatter)

	if particles != nil {
		r, _ := particles.Dims()
		if r < 2 {
			return nil, fmt.Errorf("invalid particle dimensions")
		}
		partScatter, err := plotter.NewScatter(colPoints(particles))
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter: %v", err)
		}
		partScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169, A: 128}
		partScatter.GlyphStyle.Radius = vg.Points(1)

		p.Add(partScatter)
		p.Legend.Add("particles", partScatter)
	}

	// Make a line plotter for ground truth
	truthLine, err := plotter.NewLine(rowPoints(truth))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	truthLine.LineStyle.Color = color.RGBA{G: 160, A: 255}
	truthLine.LineStyle.Width = vg.Points(1.5)

	p.Add(truthLine)
	p.Legend.Add("truth", truthLine)

	// Make a scatter plotter for filter estimates
	filterScatter, err := plotter.NewScatter(rowPoints(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	filterScatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	filterScatter.Shape = draw.CrossGlyph{}
	filterScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(filterScatter)
	p.Legend.Add("filtered", filterScatter)

	return p, nil
}

func landmarkPoints(m *landmark.Map) plotter.XYs {
	lms := m.Landmarks()
	pts := make(plotter.XYs, len(lms))
	for i, lm := range lms {
		pts[i].X = lm.X
		pts[i].Y = lm.Y
	}

	return pts
}

func rowPoints(m mat.Matrix) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}

func colPoints(m mat.Matrix) plotter.XYs {
	_, c := m.Dims()
	pts := make(plotter.XYs, c)
	for i := 0; i < c; i++ {
		pts[i].X = m.At(0, i)
		pts[i].Y = m.At(1, i)
	}

	return pts
}

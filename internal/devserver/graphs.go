package devserver

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"time"
)

// Graph kinds served under /graphs/{id}/{kind}.png
const (
	GraphTime     = "time"
	GraphClusters = "clusters"
)

const (
	graphWidth  = 640
	graphMargin = 24
	rowHeight   = 28
)

var (
	graphBackground = color.RGBA{0x1a, 0x1b, 0x26, 0xff}
	graphAxis       = color.RGBA{0x56, 0x5f, 0x89, 0xff}
	graphPalette    = []color.RGBA{
		{0x7a, 0xa2, 0xf7, 0xff},
		{0x9e, 0xce, 0x6a, 0xff},
		{0xe0, 0xaf, 0x68, 0xff},
		{0xbb, 0x9a, 0xf7, 0xff},
		{0xf7, 0x76, 0x8e, 0xff},
		{0x2a, 0xc3, 0xde, 0xff},
	}
)

// RenderGraph draws the graph of kind for e as a PNG.
// ok is false for an unknown kind or an employee without conversations.
func RenderGraph(e *Employee, kind string) ([]byte, bool, error) {
	if len(e.Conversations) == 0 {
		return nil, false, nil
	}

	var img image.Image
	switch kind {
	case GraphTime:
		img = renderTimeline(e)
	case GraphClusters:
		img = renderClusters(e)
	default:
		return nil, false, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

// renderTimeline draws one row per project and one bar per conversation
// spanning its start and end time.
func renderTimeline(e *Employee) image.Image {
	projects := e.Projects()
	rows := make(map[string]int, len(projects))
	for i, p := range projects {
		rows[p] = i
	}

	height := 2*graphMargin + len(projects)*rowHeight
	img := newCanvas(graphWidth, height)

	first, last := timeSpan(e.Conversations)
	span := last.Sub(first)
	if span <= 0 {
		span = time.Hour
	}
	plotWidth := float64(graphWidth - 2*graphMargin)
	xOf := func(t time.Time) int {
		return graphMargin + int(plotWidth*float64(t.Sub(first))/float64(span))
	}

	// x axis
	fillRect(img, graphMargin, height-graphMargin, graphWidth-graphMargin, height-graphMargin+1, graphAxis)

	for _, c := range e.Conversations {
		row := rows[c.ProjectID]
		y := graphMargin + row*rowHeight + rowHeight/4
		x0, x1 := xOf(c.StartTime), xOf(c.EndTime)
		if x1-x0 < 4 {
			x1 = x0 + 4
		}
		fillRect(img, x0, y, x1, y+rowHeight/2, graphPalette[row%len(graphPalette)])
	}
	return img
}

// renderClusters draws one point per conversation around a center per project.
// Positions are derived from the summary so the image is stable.
func renderClusters(e *Employee) image.Image {
	const height = 360
	img := newCanvas(graphWidth, height)

	projects := e.Projects()
	centers := make(map[string]image.Point, len(projects))
	for i, p := range projects {
		angle := 2 * math.Pi * float64(i) / float64(len(projects))
		centers[p] = image.Point{
			X: graphWidth/2 + int(180*math.Cos(angle)),
			Y: height/2 + int(110*math.Sin(angle)),
		}
	}

	rowOf := make(map[string]int, len(projects))
	for i, p := range projects {
		rowOf[p] = i
	}

	for _, c := range e.Conversations {
		h := fnv.New32a()
		_, _ = h.Write([]byte(c.Summary))
		sum := h.Sum32()
		dx := int(sum%61) - 30
		dy := int((sum/61)%41) - 20

		center := centers[c.ProjectID]
		col := graphPalette[rowOf[c.ProjectID]%len(graphPalette)]
		fillRect(img, center.X+dx-4, center.Y+dy-4, center.X+dx+4, center.Y+dy+4, col)
	}
	return img
}

func timeSpan(convs []Conversation) (first, last time.Time) {
	for i, c := range convs {
		if i == 0 || c.StartTime.Before(first) {
			first = c.StartTime
		}
		end := c.EndTime
		if end.Before(c.StartTime) {
			end = c.StartTime
		}
		if i == 0 || end.After(last) {
			last = end
		}
	}
	return first, last
}

func newCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: graphBackground}, image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	r := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

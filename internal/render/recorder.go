package render

import "image/color"

// OpKind names a recorded draw call.
type OpKind int

const (
	OpClear OpKind = iota
	OpCircle
	OpLine
)

// Op is one recorded draw call.
type Op struct {
	Kind           OpKind
	X1, Y1, X2, Y2 float64
	R, Width       float64
	Color          color.RGBA
	Alpha, Blur    float64
}

// Recorder is a Surface that keeps every call, for tests and headless runs.
type Recorder struct {
	W, H int
	Ops  []Op
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear})
}

func (r *Recorder) FillCircle(x, y, radius float64, c color.RGBA, alpha, blur float64) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X1: x, Y1: y, R: radius, Color: c, Alpha: alpha, Blur: blur})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA, alpha, blur float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: c, Alpha: alpha, Blur: blur})
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

package geom

// Quadrilateral is the image of a rectangle by an affine transform,
// that is a (possibly degenerate) parallelogram.
type Quadrilateral [4]Point

// Points returns the corners as a slice, ready to be sent to a canvas.
func (q Quadrilateral) Points() []Point { return q[:] }

// Bounds returns the axis aligned bounds of q.
func (q Quadrilateral) Bounds() Rect { return BoundsOf(q[:]...) }

// Map applies fn to every corner.
func (q Quadrilateral) Map(fn func(Point) Point) Quadrilateral {
	for i, p := range q {
		q[i] = fn(p)
	}
	return q
}

func (q Quadrilateral) area() float64 {
	var a float64
	for i := range q {
		a += q[i].Cross(q[(i+1)%4])
	}
	return a / 2
}

func (q Quadrilateral) centroid() Point {
	return q[0].Add(q[1]).Add(q[2]).Add(q[3]).Mul(0.25)
}

// Contains reports whether p lies inside q, borders included.
func (q Quadrilateral) Contains(p Point) bool {
	var pos, neg bool
	for i := range q {
		c := q[(i+1)%4].Sub(q[i]).Cross(p.Sub(q[i]))
		if c > epsilon {
			pos = true
		} else if c < -epsilon {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// Grown moves every edge of q outward by d (inward when d is negative).
// Degenerate quadrilaterals fall back to their grown bounds.
func (q Quadrilateral) Grown(d float64) Quadrilateral {
	if d == 0 {
		return q
	}
	if q.area() == 0 {
		b := q.Bounds().Expanded(d)
		return Identity.MapQuadrilateral(b)
	}
	center := q.centroid()
	type line struct{ origin, dir Point }
	var edges [4]line
	for i := range q {
		dir := q[(i+1)%4].Sub(q[i])
		l := dir.Length()
		if l == 0 {
			return Identity.MapQuadrilateral(q.Bounds().Expanded(d))
		}
		n := Point{dir.Y / l, -dir.X / l}
		mid := q[i].Add(dir.Mul(0.5))
		if n.Dot(mid.Sub(center)) < 0 {
			n = n.Mul(-1)
		}
		edges[i] = line{origin: q[i].Add(n.Mul(d)), dir: dir}
	}
	var out Quadrilateral
	for i := range out {
		prev, cur := edges[(i+3)%4], edges[i]
		den := prev.dir.Cross(cur.dir)
		if den == 0 {
			out[i] = cur.origin
			continue
		}
		t := cur.origin.Sub(prev.origin).Cross(cur.dir) / den
		out[i] = prev.origin.Add(prev.dir.Mul(t))
	}
	return out
}

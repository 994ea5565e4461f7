package roadnet

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

const (
	pi180Rev    = 180.0 / math.Pi
	feetInMile  = 5280.0
	feetInMeter = 3.280839895
	earthR      = 20037508.34
)

// TurnDirection is the orientation of the turn formed by three consecutive points
type TurnDirection int

const (
	TURN_CLOCKWISE         = TurnDirection(-1)
	TURN_COLLINEAR         = TurnDirection(0)
	TURN_COUNTER_CLOCKWISE = TurnDirection(1)
)

func (iotaIdx TurnDirection) String() string {
	return [...]string{"clockwise", "collinear", "counter_clockwise"}[iotaIdx+1]
}

// turnDirection returns direction of the turn p0 -> p1 -> p2
//
// Collinear points are resolved by position of the middle one:
// p0 in the middle gives counter-clockwise, p1 in the middle gives clockwise, p2 in the middle gives collinear
//
func turnDirection(p0, p1, p2 orb.Point) TurnDirection {
	dx1 := p1.X() - p0.X()
	dy1 := p1.Y() - p0.Y()
	dx2 := p2.X() - p0.X()
	dy2 := p2.Y() - p0.Y()
	if dy1*dx2 < dy2*dx1 {
		return TURN_COUNTER_CLOCKWISE
	}
	if dy1*dx2 > dy2*dx1 {
		return TURN_CLOCKWISE
	}
	if dx1*dx2 < 0 || dy1*dy2 < 0 {
		return TURN_COUNTER_CLOCKWISE
	}
	if math.Sqrt(math.Abs(dx1))+math.Sqrt(math.Abs(dy1)) >= math.Sqrt(math.Abs(dx2))+math.Sqrt(math.Abs(dy2)) {
		return TURN_COLLINEAR
	}
	return TURN_CLOCKWISE
}

// bearing returns direction from one point to another in degrees measured clockwise from the north [0; 360)
//
// Coincident points give 0
//
func bearing(from, to orb.Point) float64 {
	x1, y1 := from.X(), from.Y()
	x2, y2 := to.X(), to.Y()
	var orientation float64
	switch {
	case x2 > x1 && y2 <= y1:
		orientation = math.Atan(math.Abs(y2-y1)/math.Abs(x2-x1)) + math.Pi/2
	case x2 <= x1 && y2 < y1:
		orientation = math.Atan(math.Abs(x2-x1)/math.Abs(y2-y1)) + math.Pi
	case x2 < x1 && y2 >= y1:
		orientation = math.Atan(math.Abs(y2-y1)/math.Abs(x2-x1)) + 3*math.Pi/2
	case x2 >= x1 && y2 > y1:
		orientation = math.Atan(math.Abs(x2-x1) / math.Abs(y2-y1))
	default:
		orientation = 0.0
	}
	return radiansTodegrees(orientation)
}

// radiansTodegrees r = deg  * 180 / pi
func radiansTodegrees(d float64) float64 {
	return d * pi180Rev
}

// angleClockwise returns angle in degrees [0; 360) between directions of two segments.
// Second segment is rotated until it matches the first one
func angleClockwise(l1 orb.LineString, l2 orb.LineString) float64 {
	angle1 := math.Atan2(l1[len(l1)-1].Y()-l1[0].Y(), l1[len(l1)-1].X()-l1[0].X())
	angle2 := math.Atan2(l2[len(l2)-1].Y()-l2[0].Y(), l2[len(l2)-1].X()-l2[0].X())
	angle := radiansTodegrees(angle2 - angle1)
	if angle < 0 {
		angle += 360
	}
	// Tiny negative angle rounds up to 360
	if angle >= 360 {
		angle -= 360
	}
	return angle
}

// acuteAngle returns angle in degrees [0; 180] at p1 formed by segments p1-p0 and p1-p2
func acuteAngle(p0, p1, p2 orb.Point) (float64, error) {
	dx1 := p0.X() - p1.X()
	dy1 := p0.Y() - p1.Y()
	dx2 := p2.X() - p1.X()
	dy2 := p2.Y() - p1.Y()
	length1 := math.Sqrt(dx1*dx1 + dy1*dy1)
	length2 := math.Sqrt(dx2*dx2 + dy2*dy2)
	if length1 == 0 || length2 == 0 {
		return 0, errors.Errorf("degenerate segment at point %v", p1)
	}
	cos := (dx1*dx2 + dy1*dy2) / (length1 * length2)
	// Rounding could push cosine slightly out of [-1; 1]
	cos = math.Max(-1.0, math.Min(1.0, cos))
	return radiansTodegrees(math.Abs(math.Acos(cos))), nil
}

// findDistance returns Euclidean distance between two points
func findDistance(p, q orb.Point) float64 {
	return planar.Distance(p, q)
}

// middlePointSegment returns middle point for given segment
func middlePointSegment(p, q orb.Point) orb.Point {
	return pointOnSegmentByFraction(p, q, 0.5)
}

// pointOnSegment returns a point on given segment using distance from its start
func pointOnSegment(p, q orb.Point, distance float64) orb.Point {
	return pointOnSegmentByFraction(p, q, distance/findDistance(p, q))
}

// pointOnSegmentByFraction returns a point on given segment assuming knowledge about fraction
func pointOnSegmentByFraction(p, q orb.Point, fraction float64) orb.Point {
	return orb.Point{
		(1-fraction)*p.X() + (fraction * q.X()),
		(1-fraction)*p.Y() + (fraction * q.Y()),
	}
}

// epsg4326To3857 projects WGS84 longitude and latitude to Web Mercator meters
func epsg4326To3857(lon, lat float64) (float64, float64) {
	x := lon * earthR / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return x, y
}

// lonLatToFeet returns Web Mercator coordinates of WGS84 point in feet
func lonLatToFeet(pt orb.Point) orb.Point {
	x, y := epsg4326To3857(pt.Lon(), pt.Lat())
	return orb.Point{x * feetInMeter, y * feetInMeter}
}

package application

import (
	"fmt"
	"strings"

	"go162/internal/ais"
)

// Wire geometry of an Area Notice payload.
const (
	areaNoticeHeaderBits = 51
	// subAreaPrefixBits is the smallest complete subarea prefix: a 3-bit
	// shape tag plus the 28+27-bit reference point. Parsing stops when
	// fewer bits remain.
	subAreaPrefixBits = 58
	// textMaxChars bounds a TEXT subarea.
	textMaxChars = 14
)

// AreaShape is the 3-bit subarea shape tag.
type AreaShape uint8

const (
	ShapeCircle AreaShape = iota
	ShapeRectangle
	ShapeSector
	ShapePolyline
	ShapePolygon
	ShapeText
	ShapeReserved6
	ShapeReserved7
)

func (s AreaShape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	case ShapeSector:
		return "sector"
	case ShapePolyline:
		return "polyline"
	case ShapePolygon:
		return "polygon"
	case ShapeText:
		return "text"
	}
	return fmt.Sprintf("reserved(%d)", uint8(s))
}

// NoticeType is the 7-bit notice classification of an Area Notice.
type NoticeType uint8

const (
	NoticeCaution             NoticeType = 0
	NoticeCautionMammals      NoticeType = 1
	NoticeCautionSeaBirds     NoticeType = 2
	NoticeCautionFish         NoticeType = 3
	NoticeCautionDiving       NoticeType = 4
	NoticeCautionHighSpeed    NoticeType = 5
	NoticeWarningStorm        NoticeType = 6
	NoticeCautionFishingGear  NoticeType = 7
	NoticeCautionTow          NoticeType = 8
	NoticeWarningIce          NoticeType = 9
	NoticeExerciseWarning     NoticeType = 18
	NoticeSpecialProtection   NoticeType = 19
	NoticeSecurityZone        NoticeType = 20
	NoticeNoAnchoring         NoticeType = 21
	NoticeEnvironmental       NoticeType = 25
	NoticeRestrictedArea      NoticeType = 34
	NoticeDangerArea          NoticeType = 35
	NoticeMilitaryExercises   NoticeType = 36
	NoticeUnderwaterOperation NoticeType = 37
	NoticeRouteRecommendation NoticeType = 115
	NoticeChartFeature        NoticeType = 120
	NoticeUndefined           NoticeType = 127
)

// SubArea is one geometric record of an Area Notice. Each shape variant
// carries a reference point in 1/10000-minute fixed point plus its own
// parameters.
type SubArea interface {
	// Shape returns the 3-bit shape tag.
	Shape() AreaShape
	// Position returns the reference point in degrees.
	Position() (lon, lat float64)

	appendBits(w *writer)
}

// refPoint carries the fixed-point reference position common to every shape.
type refPoint struct {
	// Longitude and Latitude are in 1/10000 minute.
	Longitude int32
	Latitude  int32
}

// Position returns the reference point in degrees.
func (p refPoint) Position() (lon, lat float64) {
	return float64(p.Longitude) / 600000.0, float64(p.Latitude) / 600000.0
}

func (p refPoint) appendPosition(w *writer) {
	w.writeInt(int64(p.Longitude), 28)
	w.writeInt(int64(p.Latitude), 27)
}

// fixedPoint converts degrees to 1/10000-minute fixed point.
func fixedPoint(deg float64) int32 {
	if deg < 0 {
		return int32(deg*600000.0 - 0.5)
	}
	return int32(deg*600000.0 + 0.5)
}

// Circle is a circular subarea with a radius in meters.
type Circle struct {
	refPoint
	Radius uint16
}

// NewCircle builds a circle at (lon, lat) degrees.
func NewCircle(lon, lat float64, radius uint16) Circle {
	return Circle{refPoint{fixedPoint(lon), fixedPoint(lat)}, radius}
}

// Shape returns ShapeCircle.
func (Circle) Shape() AreaShape { return ShapeCircle }

func (c Circle) appendBits(w *writer) {
	w.writeUint(uint64(ShapeCircle), 3)
	c.appendPosition(w)
	w.writeUint(uint64(c.Radius), 12)
	w.writeUint(0, 2) // spare
}

// Rectangle is an axis-aligned box rotated by Orientation degrees.
type Rectangle struct {
	refPoint
	EastDim     uint8
	NorthDim    uint8
	Orientation uint16
}

// NewRectangle builds a rectangle at (lon, lat) degrees.
func NewRectangle(lon, lat float64, eastDim, northDim uint8, orientation uint16) Rectangle {
	return Rectangle{refPoint{fixedPoint(lon), fixedPoint(lat)}, eastDim, northDim, orientation}
}

// Shape returns ShapeRectangle.
func (Rectangle) Shape() AreaShape { return ShapeRectangle }

func (r Rectangle) appendBits(w *writer) {
	w.writeUint(uint64(ShapeRectangle), 3)
	r.appendPosition(w)
	w.writeUint(uint64(r.EastDim), 8)
	w.writeUint(uint64(r.NorthDim), 8)
	w.writeUint(uint64(r.Orientation), 9)
	w.writeUint(0, 2) // spare
}

// Sector is a circle segment between two bearings.
type Sector struct {
	refPoint
	Radius     uint16
	LeftBound  uint16
	RightBound uint16
}

// NewSector builds a sector at (lon, lat) degrees.
func NewSector(lon, lat float64, radius, leftBound, rightBound uint16) Sector {
	return Sector{refPoint{fixedPoint(lon), fixedPoint(lat)}, radius, leftBound, rightBound}
}

// Shape returns ShapeSector.
func (Sector) Shape() AreaShape { return ShapeSector }

func (s Sector) appendBits(w *writer) {
	w.writeUint(uint64(ShapeSector), 3)
	s.appendPosition(w)
	w.writeUint(uint64(s.Radius), 12)
	w.writeUint(uint64(s.LeftBound), 9)
	w.writeUint(uint64(s.RightBound), 9)
	w.writeUint(0, 2) // spare
}

// Point is one angle pair of a polyline or polygon, in 1/10000 minute
// relative units.
type Point struct {
	LonAngle int32 // 28-bit signed
	LatAngle int32 // 27-bit signed
}

// polyPoints is the fixed number of angle pairs carried on the wire.
const polyPoints = 2

// Polyline is an open chain of points from the reference position.
type Polyline struct {
	refPoint
	Scale  uint8
	Points []Point // at most polyPoints entries; missing entries encode as zero
}

// Shape returns ShapePolyline.
func (Polyline) Shape() AreaShape { return ShapePolyline }

func (p Polyline) appendBits(w *writer) {
	w.writeUint(uint64(ShapePolyline), 3)
	p.appendPosition(w)
	appendPoints(w, p.Scale, p.Points)
}

// Polygon is a closed chain of points from the reference position.
type Polygon struct {
	refPoint
	Scale  uint8
	Points []Point
}

// Shape returns ShapePolygon.
func (Polygon) Shape() AreaShape { return ShapePolygon }

func (p Polygon) appendBits(w *writer) {
	w.writeUint(uint64(ShapePolygon), 3)
	p.appendPosition(w)
	appendPoints(w, p.Scale, p.Points)
}

func appendPoints(w *writer, scale uint8, points []Point) {
	w.writeUint(uint64(scale), 2)
	for i := 0; i < polyPoints; i++ {
		var pt Point
		if i < len(points) {
			pt = points[i]
		}
		w.writeInt(int64(pt.LonAngle), 28)
		w.writeInt(int64(pt.LatAngle), 27)
	}
}

func readPoints(r *reader) (uint8, []Point) {
	scale := uint8(r.readUint(2))
	var points []Point
	for i := 0; i < polyPoints; i++ {
		if r.remaining() < 28+27 {
			break
		}
		points = append(points, Point{
			LonAngle: int32(r.readInt(28)),
			LatAngle: int32(r.readInt(27)),
		})
	}
	return scale, points
}

// Text is a free-text annotation in six-bit ASCII, terminated in-band by a
// null code or by the remaining bit budget.
type Text struct {
	refPoint
	Value string
}

// NewText builds a text annotation at (lon, lat) degrees, truncated to the
// wire limit.
func NewText(lon, lat float64, value string) Text {
	if len(value) > textMaxChars {
		value = value[:textMaxChars]
	}
	return Text{refPoint{fixedPoint(lon), fixedPoint(lat)}, value}
}

// Shape returns ShapeText.
func (Text) Shape() AreaShape { return ShapeText }

func (t Text) appendBits(w *writer) {
	w.writeUint(uint64(ShapeText), 3)
	t.appendPosition(w)
	value := t.Value
	if len(value) > textMaxChars {
		value = value[:textMaxChars]
	}
	for i := 0; i < len(value); i++ {
		w.writeUint(uint64(ais.ASCIIToSixBit(value[i])), 6)
	}
	if len(value) < textMaxChars {
		w.writeUint(0, 6) // in-band terminator
	}
}

// AreaNotice is the IMO Area Notice application payload (DAC 1, FI 22):
// a timed notice covering an ordered list of geometric subareas.
type AreaNotice struct {
	MessageVersion uint8
	Notice         NoticeType
	StartMonth     uint8
	StartDay       uint8
	StartHour      uint8
	StartMinute    uint8
	// Duration is in minutes; 0 means unlimited.
	Duration uint16
	SubAreas []SubArea
}

func init() {
	Register(DACInternational, FIAreaNotice, func(data *ais.BitVector) (Payload, error) {
		return DecodeAreaNotice(data)
	})
}

// ApplicationID returns (1, 22).
func (a *AreaNotice) ApplicationID() (dac, fi uint16) {
	return DACInternational, FIAreaNotice
}

// DecodeAreaNotice parses envelope data bits into an Area Notice, stopping
// at the first subarea that no longer fits the remaining budget.
func DecodeAreaNotice(data *ais.BitVector) (*AreaNotice, error) {
	if data.Len() < areaNoticeHeaderBits {
		return nil, fmt.Errorf("area notice header: %w: %d bits", ais.ErrTruncated, data.Len())
	}
	r := newReader(data)
	a := &AreaNotice{}
	a.MessageVersion = uint8(r.readUint(8))
	a.Notice = NoticeType(r.readUint(7))
	a.StartMonth = uint8(r.readUint(4))
	a.StartDay = uint8(r.readUint(5))
	a.StartHour = uint8(r.readUint(5))
	a.StartMinute = uint8(r.readUint(6))
	a.Duration = uint16(r.readUint(16))

	for r.err == nil && r.remaining() >= subAreaPrefixBits {
		shape := AreaShape(r.readUint(3))
		point := refPoint{
			Longitude: int32(r.readInt(28)),
			Latitude:  int32(r.readInt(27)),
		}
		sub, ok := readSubAreaParams(r, shape, point)
		if !ok {
			break
		}
		if sub != nil {
			a.SubAreas = append(a.SubAreas, sub)
		}
	}
	return a, r.err
}

// readSubAreaParams reads the shape-specific suffix. It returns ok=false
// when the remaining budget cannot hold the suffix, nil for reserved shapes.
func readSubAreaParams(r *reader, shape AreaShape, point refPoint) (SubArea, bool) {
	switch shape {
	case ShapeCircle:
		if r.remaining() < 14 {
			return nil, false
		}
		c := Circle{refPoint: point}
		c.Radius = uint16(r.readUint(12))
		r.readUint(2) // spare
		return c, true

	case ShapeRectangle:
		if r.remaining() < 27 {
			return nil, false
		}
		rect := Rectangle{refPoint: point}
		rect.EastDim = uint8(r.readUint(8))
		rect.NorthDim = uint8(r.readUint(8))
		rect.Orientation = uint16(r.readUint(9))
		r.readUint(2) // spare
		return rect, true

	case ShapeSector:
		if r.remaining() < 32 {
			return nil, false
		}
		s := Sector{refPoint: point}
		s.Radius = uint16(r.readUint(12))
		s.LeftBound = uint16(r.readUint(9))
		s.RightBound = uint16(r.readUint(9))
		r.readUint(2) // spare
		return s, true

	case ShapePolyline:
		if r.remaining() < 2 {
			return nil, false
		}
		scale, points := readPoints(r)
		return Polyline{refPoint: point, Scale: scale, Points: points}, true

	case ShapePolygon:
		if r.remaining() < 2 {
			return nil, false
		}
		scale, points := readPoints(r)
		return Polygon{refPoint: point, Scale: scale, Points: points}, true

	case ShapeText:
		if r.remaining() < 6 {
			return nil, false
		}
		var sb strings.Builder
		for i := 0; i < textMaxChars && r.remaining() >= 6; i++ {
			code := byte(r.readUint(6))
			if code == 0 {
				break
			}
			sb.WriteByte(ais.SixBitToASCII(code))
		}
		return Text{refPoint: point, Value: sb.String()}, true
	}

	// Reserved shapes carry no parameters; skip the record.
	return nil, true
}

// AppendBits encodes the notice onto bv.
func (a *AreaNotice) AppendBits(bv *ais.BitVector) error {
	w := newWriter(bv)
	w.writeUint(uint64(a.MessageVersion), 8)
	w.writeUint(uint64(a.Notice), 7)
	w.writeUint(uint64(a.StartMonth), 4)
	w.writeUint(uint64(a.StartDay), 5)
	w.writeUint(uint64(a.StartHour), 5)
	w.writeUint(uint64(a.StartMinute), 6)
	w.writeUint(uint64(a.Duration), 16)
	for _, sub := range a.SubAreas {
		sub.appendBits(w)
	}
	return w.err
}

// ToBroadcast wraps the notice in a type 8 envelope.
func (a *AreaNotice) ToBroadcast(mmsi uint32, repeatIndicator uint8) (*ais.BinaryBroadcast, error) {
	return ToBroadcast(a, mmsi, repeatIndicator)
}

// ToAddressed wraps the notice in a type 6 envelope.
func (a *AreaNotice) ToAddressed(mmsi, destMMSI uint32, sequenceNumber, repeatIndicator uint8) (*ais.BinaryAddressed, error) {
	return ToAddressed(a, mmsi, destMMSI, sequenceNumber, repeatIndicator)
}

func (a *AreaNotice) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Area Notice (dac=1 fi=22) version=%d notice=%d\n", a.MessageVersion, a.Notice)
	if a.StartMonth > 0 && a.StartDay > 0 {
		fmt.Fprintf(&sb, "  start: month %d day %d %02d:%02d UTC\n", a.StartMonth, a.StartDay, a.StartHour, a.StartMinute)
	} else {
		sb.WriteString("  start: not available\n")
	}
	if a.Duration == 0 {
		sb.WriteString("  duration: unlimited\n")
	} else {
		fmt.Fprintf(&sb, "  duration: %d min\n", a.Duration)
	}
	fmt.Fprintf(&sb, "  subareas: %d", len(a.SubAreas))
	for i, sub := range a.SubAreas {
		lon, lat := sub.Position()
		fmt.Fprintf(&sb, "\n    %d: %s at (%.4f, %.4f)", i+1, sub.Shape(), lon, lat)
		if t, ok := sub.(Text); ok {
			fmt.Fprintf(&sb, " %q", t.Value)
		}
	}
	return sb.String()
}

package scene

// Kind identifies one of the primitive streams a Scene collects. The
// enumeration order is the deterministic tie-break for batching, though
// draw orders are globally unique so ties cannot occur in practice.
type Kind uint8

const (
	KindShadow Kind = iota
	KindQuad
	KindGlyph
	KindSvg
	KindImage
	KindPath
	KindPolyline
	KindPointCloud
	KindColoredPointCloud

	numKinds
)

var kindNames = [numKinds]string{
	"shadow",
	"quad",
	"glyph",
	"svg",
	"image",
	"path",
	"polyline",
	"pointcloud",
	"coloredpointcloud",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

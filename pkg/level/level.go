package level

import (
	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/spatial"
)

// Tile symbols.
const (
	TileFloor       byte = '.'
	TileHorizontal  byte = '-'
	TileVertical    byte = '|'
	TileLShaped     byte = 'L'
	TileGamma       byte = 'G'
	TileDoor        byte = 'D'
	TileWindow      byte = 'W'
	TileTree        byte = 'T'
	TileTarget      byte = 'X'
	TilePlayerStart byte = 'P'
)

// Orientation selects the fixed wall pieces a wall tile produces.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
	LShaped
	GammaShaped
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case LShaped:
		return "l-shaped"
	case GammaShaped:
		return "gamma-shaped"
	default:
		return "unknown"
	}
}

// WallEntry is one wall tile. Position is the grid coordinate: X is the
// column, Z the row, Y is always 0.
type WallEntry struct {
	Position    math3d.Vec3
	Orientation Orientation
}

// Dimensions are the world sizes shared by every wall piece.
type Dimensions struct {
	Length float64 // tile edge and wall length
	Height float64
	Depth  float64 // wall thickness
}

// DefaultDimensions returns unit tiles with thin walls.
func DefaultDimensions() Dimensions {
	return Dimensions{Length: 1, Height: 1, Depth: 0.1}
}

type piece struct {
	offset math3d.Vec3
	angle  float64 // degrees around +Y
}

// pieces returns the local placement of each wall piece for o.
func (d Dimensions) pieces(o Orientation) []piece {
	l, h, dp := d.Length, d.Height, d.Depth
	along := piece{math3d.V3(l/2, h/2, dp/2), 0}
	switch o {
	case Horizontal:
		return []piece{along}
	case Vertical:
		return []piece{{math3d.V3(dp/2, h/2, -l/2), 90}}
	case LShaped:
		return []piece{{math3d.V3(dp/2, h/2, -l/2), 90}, along}
	case GammaShaped:
		return []piece{along, {math3d.V3(dp/2, h/2, l/2), 90}}
	}
	return nil
}

// Category groups instances drawn with the same mesh.
type Category int

const (
	CategoryWall Category = iota
	CategoryDoor
	CategoryWindow
	CategoryTree
	CategoryTarget
	NumCategories
)

var categoryNames = [NumCategories]string{"walls", "doors", "windows", "trees", "targets"}

func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Materials assigned by Derive. Renderers look textures up by these names.
const (
	MaterialWall    = "wall"
	MaterialWallAlt = "wall_alt"
	MaterialDoor    = "door"
	MaterialWindow  = "window"
	MaterialTree    = "tree"
	MaterialTarget  = "target"

	// MaterialTargetHit is used for targets that have been shot.
	MaterialTargetHit = "target_hit"
)

// UnitBox is the local bounding box of every instanced mesh: a unit cube
// centred on the origin.
var UnitBox = spatial.BoundingBoxFromCenter(math3d.Zero3(), math3d.V3(0.5, 0.5, 0.5))

// Instances are the parallel per-instance arrays of one category.
// Transforms[i], Bounds[i] and Materials[i] describe the same instance.
type Instances struct {
	Transforms []math3d.Mat4
	Bounds     []spatial.BoundingBox
	Materials  []string
}

// Len returns the number of instances.
func (in *Instances) Len() int { return len(in.Transforms) }

func (in *Instances) add(m math3d.Mat4, material string) {
	in.Transforms = append(in.Transforms, m)
	in.Bounds = append(in.Bounds, UnitBox.Transform(m))
	in.Materials = append(in.Materials, material)
}

// Level is the static geometry derived from a tilemap.
type Level struct {
	Rows, Cols int
	Dims       Dimensions

	Walls   []WallEntry
	Doors   []math3d.Vec3
	Windows []math3d.Vec3
	Trees   []math3d.Vec3
	Targets []math3d.Vec3

	// PlayerStart is the grid coordinate of the first 'P' tile.
	PlayerStart    math3d.Vec3
	HasPlayerStart bool

	// WallCenters holds one world point per wall piece for movement checks.
	WallCenters []math3d.Vec3

	// Skipped counts tiles with an unknown symbol.
	Skipped int

	categories [NumCategories]Instances
}

// Derive walks tm once and builds every wall piece and prop.
func Derive(tm *Tilemap, dims Dimensions) *Level {
	lv := &Level{Rows: tm.Rows, Cols: tm.Cols, Dims: dims}

	for row := range tm.Rows {
		for col := range tm.Cols {
			grid := math3d.V3(float64(col), 0, float64(row))
			world := grid.Scale(dims.Length)

			switch sym := tm.Cells[row][col]; sym {
			case TileHorizontal, TileVertical, TileLShaped, TileGamma:
				w := WallEntry{Position: grid, Orientation: orientationOf(sym)}
				lv.Walls = append(lv.Walls, w)
				material := MaterialWall
				if (row+col)%2 == 1 {
					material = MaterialWallAlt
				}
				lv.addWall(w, world, material)
			case TileDoor:
				lv.Doors = append(lv.Doors, grid)
				lv.categories[CategoryDoor].add(dims.doorTransform(world), MaterialDoor)
			case TileWindow:
				lv.Windows = append(lv.Windows, grid)
				lv.categories[CategoryWindow].add(dims.windowTransform(world), MaterialWindow)
			case TileTree:
				lv.Trees = append(lv.Trees, grid)
				lv.categories[CategoryTree].add(dims.treeTransform(world), MaterialTree)
			case TileTarget:
				lv.Targets = append(lv.Targets, grid)
				lv.categories[CategoryTarget].add(dims.TargetTransform(world), MaterialTarget)
			case TilePlayerStart:
				if !lv.HasPlayerStart {
					lv.PlayerStart = grid
					lv.HasPlayerStart = true
				}
			case TileFloor, ' ':
			default:
				lv.Skipped++
			}
		}
	}
	return lv
}

func orientationOf(sym byte) Orientation {
	switch sym {
	case TileVertical:
		return Vertical
	case TileLShaped:
		return LShaped
	case TileGamma:
		return GammaShaped
	default:
		return Horizontal
	}
}

func (lv *Level) addWall(w WallEntry, world math3d.Vec3, material string) {
	d := lv.Dims
	for _, p := range d.pieces(w.Orientation) {
		rot := math3d.RotateY(math3d.Radians(p.angle))

		m := math3d.Translate(world.Add(p.offset)).
			Mul(rot).
			Mul(math3d.Scale(math3d.V3(d.Length, d.Height, d.Depth)))
		lv.categories[CategoryWall].add(m, material)

		center := math3d.Translate(world).
			Mul(rot).
			Mul(math3d.Scale(math3d.V3(d.Length, d.Height, d.Length))).
			MulVec3(math3d.V3(0.5, 0.5, 0))
		lv.WallCenters = append(lv.WallCenters, center)
	}
}

// Doors fill the tile edge like a horizontal wall.
func (d Dimensions) doorTransform(world math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(world.Add(math3d.V3(d.Length/2, d.Height/2, d.Depth/2))).
		Mul(math3d.Scale(math3d.V3(d.Length, d.Height, d.Depth)))
}

// Windows occupy the upper half of the tile edge.
func (d Dimensions) windowTransform(world math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(world.Add(math3d.V3(d.Length/2, d.Height*0.75, d.Depth/2))).
		Mul(math3d.Scale(math3d.V3(d.Length, d.Height/2, d.Depth)))
}

func (d Dimensions) treeTransform(world math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(world.Add(math3d.V3(d.Length/2, d.Height/2, d.Length/2))).
		Mul(math3d.Scale(math3d.V3(d.Length*0.4, d.Height, d.Length*0.4)))
}

// TargetTransform places an upright target board in the middle of the tile
// whose corner is at world.
func (d Dimensions) TargetTransform(world math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(world.Add(math3d.V3(d.Length/2, d.Height/2, d.Length/2))).
		Mul(math3d.Scale(math3d.V3(d.Length*0.6, d.Height*0.6, d.Depth)))
}

// Instances returns the per-instance arrays of category c.
func (lv *Level) Instances(c Category) *Instances {
	return &lv.categories[c]
}

// WorldPosition converts a grid coordinate to the world position of the
// tile corner.
func (lv *Level) WorldPosition(grid math3d.Vec3) math3d.Vec3 {
	return grid.Scale(lv.Dims.Length)
}

// StartPosition returns the floor point the player spawns on: the middle of
// the 'P' tile, or the middle of the map when there is none.
func (lv *Level) StartPosition() math3d.Vec3 {
	half := lv.Dims.Length / 2
	if lv.HasPlayerStart {
		return lv.WorldPosition(lv.PlayerStart).Add(math3d.V3(half, 0, half))
	}
	return math3d.V3(float64(lv.Cols)*half, 0, float64(lv.Rows)*half)
}

// Blocked reports whether p is closer than radius to any wall center,
// measured in the XZ plane.
func (lv *Level) Blocked(p math3d.Vec3, radius float64) bool {
	r2 := radius * radius
	for _, c := range lv.WallCenters {
		dx, dz := p.X-c.X, p.Z-c.Z
		if dx*dx+dz*dz < r2 {
			return true
		}
	}
	return false
}

// Bounds returns the union of every instance box in the level. It is empty
// when the level has no geometry.
func (lv *Level) Bounds() spatial.BoundingBox {
	out := spatial.NewBoundingBox()
	for c := range NumCategories {
		for _, b := range lv.categories[c].Bounds {
			out = out.Union(b)
		}
	}
	return out
}

// PieceCount returns how many wall pieces a tile of orientation o produces.
func PieceCount(o Orientation) int {
	return len(DefaultDimensions().pieces(o))
}

// Count returns the total number of instances across all categories.
func (lv *Level) Count() int {
	n := 0
	for c := range NumCategories {
		n += lv.categories[c].Len()
	}
	return n
}

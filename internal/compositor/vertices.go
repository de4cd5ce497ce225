package compositor

// vertexComponents is the per-vertex float count: position, current-image
// texcoord, old-image texcoord, two floats each.
const vertexComponents = 6

// quadIndices is the fixed element buffer for the wallpaper quad: two
// triangles, top-left/bottom-left/bottom-right and
// bottom-right/top-right/top-left. It is uploaded once and never rewritten.
var quadIndices = []uint32{0, 1, 2, 2, 3, 0}

// vertexData interleaves one device-space rectangle and two texture-space
// rectangles into the 24-float buffer the pipeline expects. Vertex order is
// top-left, bottom-left, bottom-right, top-right, matching quadIndices.
func vertexData(vertex, current, old Coordinates) [24]float32 {
	return [24]float32{
		// top left
		vertex.Left, vertex.Top,
		current.Left, current.Top,
		old.Left, old.Top,
		// bottom left
		vertex.Left, vertex.Bottom,
		current.Left, current.Bottom,
		old.Left, old.Bottom,
		// bottom right
		vertex.Right, vertex.Bottom,
		current.Right, current.Bottom,
		old.Right, old.Bottom,
		// top right
		vertex.Right, vertex.Top,
		current.Right, current.Top,
		old.Right, old.Top,
	}
}

package common

const (
	// TileSize is the edge length of a level tile in pixels.
	TileSize = 32

	BaseWidth  = 1280
	BaseHeight = 720

	// TPS is the fixed physics tick rate.
	TPS = 60
)

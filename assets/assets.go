package assets

import (
	"embed"
	"fmt"

	"github.com/automoto/bhop-mp/geometry"
	"github.com/automoto/bhop-mp/shared/leveldata"
)

//go:embed all:levels
var assetFS embed.FS

// BuiltinArena names the hard-coded arena that needs no TMX file.
const BuiltinArena = "arena"

// LevelNames lists the built-in arena followed by every embedded level.
func LevelNames() ([]string, error) {
	_, names, err := leveldata.LoadAllLevels(assetFS, "levels")
	if err != nil {
		return nil, err
	}
	return append([]string{BuiltinArena}, names...), nil
}

// LoadLevel returns the named level's static geometry. An empty name is the
// built-in arena.
func LoadLevel(name string) (*geometry.Level, error) {
	if name == "" || name == BuiltinArena {
		return geometry.Arena(), nil
	}
	data, err := leveldata.LoadCollisionData(assetFS, "levels/"+name+".tmx")
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	return geometry.FromCollisionData(data), nil
}

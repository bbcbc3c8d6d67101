package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// WallsLayerPrefix selects the tile layers that become walls. Several layers
// ("walls", "walls-tall") may stack different heights.
const WallsLayerPrefix = "walls"

// SpawnGroup is the object group holding spawn points.
const SpawnGroup = "spawn"

// LoadCollisionData parses a TMX file and returns its walls and spawn points.
// It takes an fs.FS so callers can pass embed.FS or os.DirFS.
func LoadCollisionData(fsys fs.FS, tmxPath string) (*CollisionData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth <= 0 || levelMap.TileHeight <= 0 {
		return nil, fmt.Errorf("load TMX %s: invalid tile size %dx%d", tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	block := DefaultBlockSize
	data := &CollisionData{
		BlockSize: block,
		Width:     float64(levelMap.Width) * block,
		Depth:     float64(levelMap.Height) * block,
	}
	originX := -data.Width / 2
	originZ := -data.Depth / 2

	for _, layer := range levelMap.Layers {
		if !strings.HasPrefix(layer.Name, WallsLayerPrefix) {
			continue
		}
		if len(layer.Tiles) < levelMap.Width*levelMap.Height {
			return nil, fmt.Errorf("load TMX %s: layer %q has %d tiles, want %d",
				tmxPath, layer.Name, len(layer.Tiles), levelMap.Width*levelMap.Height)
		}

		blocks := layer.Properties.GetInt("height")
		if blocks <= 0 {
			blocks = DefaultWallBlocks
		}
		height := float64(blocks) * block

		// Adjacent tiles in a row merge into one rect.
		for y := 0; y < levelMap.Height; y++ {
			run := 0
			flush := func(end int) {
				if run == 0 {
					return
				}
				data.Walls = append(data.Walls, WallRect{
					X:      originX + float64(end-run)*block,
					Z:      originZ + float64(y)*block,
					W:      float64(run) * block,
					D:      block,
					Height: height,
				})
				run = 0
			}
			for x := 0; x < levelMap.Width; x++ {
				if layer.Tiles[y*levelMap.Width+x].IsNil() {
					flush(x)
					continue
				}
				run++
			}
			flush(levelMap.Width)
		}
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, og := range levelMap.ObjectGroups {
		if og.Name != SpawnGroup {
			continue
		}
		for _, o := range og.Objects {
			data.SpawnPoints = append(data.SpawnPoints, SpawnPoint{
				X:     originX + o.X/tileW*block,
				Z:     originZ + o.Y/tileH*block,
				Index: o.Properties.GetInt("spawnIndex"),
			})
		}
	}

	sort.SliceStable(data.SpawnPoints, func(i, j int) bool {
		return data.SpawnPoints[i].Index < data.SpawnPoints[j].Index
	})

	return data, nil
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys, loads collision
// data for each, and returns a map keyed by stem name plus a sorted list of names.
func LoadAllLevels(fsys fs.FS, levelsDir string) (map[string]*CollisionData, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	levels := make(map[string]*CollisionData, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		data, err := LoadCollisionData(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".tmx")
		levels[stem] = data
		names = append(names, stem)
	}

	sort.Strings(names)
	return levels, names, nil
}

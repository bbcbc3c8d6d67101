package leveldata

import (
	"testing"
	"testing/fstest"
)

const testArena = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="4" height="3" tilewidth="16" tileheight="16" infinite="0" nextlayerid="3" nextobjectid="3">
 <tileset firstgid="1" name="blocks" tilewidth="16" tileheight="16" tilecount="1" columns="1">
  <image source="blocks.png" width="16" height="16"/>
 </tileset>
 <layer id="1" name="walls" width="4" height="3">
  <properties>
   <property name="height" type="int" value="3"/>
  </properties>
  <data encoding="csv">
1,1,0,1,
0,0,0,0,
0,0,0,0
</data>
 </layer>
 <objectgroup id="2" name="spawn">
  <object id="1" x="48" y="40">
   <properties>
    <property name="spawnIndex" type="int" value="1"/>
   </properties>
  </object>
  <object id="2" x="32" y="24">
   <properties>
    <property name="spawnIndex" type="int" value="0"/>
   </properties>
  </object>
 </objectgroup>
</map>
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"levels/arena.tmx": {Data: []byte(testArena)},
	}
}

func TestLoadCollisionDataMergesWallRuns(t *testing.T) {
	data, err := LoadCollisionData(testFS(), "levels/arena.tmx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if data.Width != 8 || data.Depth != 6 {
		t.Fatalf("extent = %vx%v, want 8x6", data.Width, data.Depth)
	}
	if len(data.Walls) != 2 {
		t.Fatalf("walls = %d, want 2: %+v", len(data.Walls), data.Walls)
	}

	want := []WallRect{
		{X: -4, Z: -3, W: 4, D: 2, Height: 6},
		{X: 2, Z: -3, W: 2, D: 2, Height: 6},
	}
	for i, w := range want {
		if data.Walls[i] != w {
			t.Errorf("wall %d = %+v, want %+v", i, data.Walls[i], w)
		}
	}
}

func TestLoadCollisionDataSpawnsSortedByIndex(t *testing.T) {
	data, err := LoadCollisionData(testFS(), "levels/arena.tmx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(data.SpawnPoints) != 2 {
		t.Fatalf("spawns = %d, want 2", len(data.SpawnPoints))
	}
	first := data.SpawnPoints[0]
	if first.Index != 0 || first.X != 0 || first.Z != 0 {
		t.Fatalf("first spawn = %+v, want index 0 at origin", first)
	}
	second := data.SpawnPoints[1]
	if second.Index != 1 || second.X != 2 || second.Z != 2 {
		t.Fatalf("second spawn = %+v, want index 1 at (2, 2)", second)
	}
}

func TestLoadCollisionDataMissingFile(t *testing.T) {
	if _, err := LoadCollisionData(testFS(), "levels/missing.tmx"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadAllLevels(t *testing.T) {
	levels, names, err := LoadAllLevels(testFS(), "levels")
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(names) != 1 || names[0] != "arena" {
		t.Fatalf("names = %v, want [arena]", names)
	}
	if levels["arena"] == nil {
		t.Fatalf("arena level missing")
	}

	if _, _, err := LoadAllLevels(fstest.MapFS{}, "levels"); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

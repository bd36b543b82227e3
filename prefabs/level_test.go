package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadEmbeddedVault(t *testing.T) {
	spec, err := LoadLevelSpec("vault")
	require.NoError(t, err)

	assert.Equal(t, "vault", spec.Name)
	require.NotNil(t, spec.Player)
	assert.Equal(t, Vec3Spec{-17, 0, -17}, spec.Player.Position)
	assert.Len(t, spec.Guards, 3)
	assert.Len(t, spec.Cameras, 2)
	require.Len(t, spec.Alarms, 1)
	require.NotNil(t, spec.Alarms[0].TurnOffPoint)
	assert.Equal(t, "east_loop", spec.Guards[0].Route)
	assert.Len(t, spec.Guards[0].WaitCurve, 3)
	assert.Equal(t, color.NRGBA{R: 0xd0, G: 0x40, B: 0x40, A: 0xff}, spec.Guards[0].Color.Color)

	src, err := LoadScript(spec.Script)
	require.NoError(t, err)
	assert.Contains(t, string(src), "on_start")

	assert.Contains(t, Levels(), "vault")
}

func TestValidate(t *testing.T) {
	base := func() LevelSpec {
		return LevelSpec{
			Bounds: BoundsSpec{MinX: -1, MinZ: -1, MaxX: 1, MaxZ: 1},
			Player: &PlayerSpec{Name: "player"},
			Routes: []RouteSpec{{Name: "r"}},
			Guards: []GuardSpec{{Name: "g", Route: "r"}},
		}
	}

	cases := []struct {
		name   string
		mutate func(*LevelSpec)
		err    error
	}{
		{"ok", func(*LevelSpec) {}, nil},
		{"no_player", func(s *LevelSpec) { s.Player = nil }, ErrNoPlayer},
		{"empty_bounds", func(s *LevelSpec) { s.Bounds.MaxX = -1 }, ErrBadBounds},
		{"unknown_route", func(s *LevelSpec) { s.Guards[0].Route = "nope" }, ErrUnknownRoute},
		{"duplicate_guard", func(s *LevelSpec) { s.Guards = append(s.Guards, GuardSpec{Name: "g"}) }, ErrDuplicateName},
		{"duplicate_route", func(s *LevelSpec) { s.Routes = append(s.Routes, RouteSpec{Name: "r"}) }, ErrDuplicateName},
		{"camera_alarm_clash", func(s *LevelSpec) {
			s.Cameras = []CameraSpec{{Name: "d"}}
			s.Alarms = []AlarmSpec{{Name: "d"}}
		}, ErrDuplicateName},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := base()
			c.mutate(&s)
			err := s.Validate()
			if c.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{`"#102030"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, true},
		{`"10203040"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, true},
		{`"#12345"`, nil, false},
		{`"#zz0000"`, nil, false},
		{`[1, 2]`, nil, false},
	}
	for _, c := range cases {
		var out struct {
			C YAMLColor `yaml:"c"`
		}
		err := yaml.Unmarshal([]byte("c: "+c.in), &out)
		if !c.ok {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, out.C.Color)
	}

	var none *YAMLColor
	assert.Equal(t, color.White, none.Or(color.White))
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	level := "name: tiny\nbounds: {min_x: 0, min_z: 0, max_x: 4, max_z: 4}\nplayer: {name: p, position: [1, 0, 1]}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(level), 0o644))

	spec, err := LoadLevelSpec("prefabs/tiny.yaml")
	require.NoError(t, err)
	assert.Equal(t, "tiny", spec.Name)
	assert.Contains(t, Levels(), "tiny")

	_, ok := ModTime("tiny.yaml")
	assert.True(t, ok)
	_, err = LoadLevelSpec("missing")
	assert.Error(t, err)
}

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "vault.yaml")
	require.NoError(t, os.WriteFile(target, []byte("name: vault\n"), 0o644))

	select {
	case change := <-w.Changes:
		assert.Equal(t, target, change.Path)
		assert.False(t, change.Script)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no event for spec change")
	}
}

func TestChangeAffects(t *testing.T) {
	spec := LevelSpec{Name: "vault", Script: "vault.tengo"}
	cases := []struct {
		change Change
		want   bool
	}{
		{Change{Path: "/x/prefabs/vault.yaml"}, true},
		{Change{Path: "/x/prefabs/scripts/vault.tengo", Script: true}, true},
		{Change{Path: "/x/prefabs/other.yaml"}, false},
		{Change{Path: "/x/prefabs/scripts/other.tengo", Script: true}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.change.Affects(spec), c.change.Path)
	}

	noScript := LevelSpec{Name: "vault"}
	assert.False(t, Change{Path: "vault.tengo", Script: true}.Affects(noScript))
}

package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/model"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/internal/sceneio"
)

// cube returns an OBJ box spanning [0,sx]×[0,sy]×[0,sz].
func cube(sx, sy, sz float32) string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		x, y, z := float32(0), float32(0), float32(0)
		if i&1 != 0 {
			x = sx
		}
		if i&2 != 0 {
			y = sy
		}
		if i&4 != 0 {
			z = sz
		}
		b.WriteString("v ")
		b.WriteString(strings.Join([]string{ftoa(x), ftoa(y), ftoa(z)}, " "))
		b.WriteByte('\n')
	}
	b.WriteString("f 1 3 4 2\nf 5 6 8 7\nf 1 2 6 5\nf 3 7 8 4\nf 1 5 7 3\nf 2 4 8 6\n")
	return b.String()
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

const sceneFile = `# two lights and a camera
light 0 2 2  1 1 1  0.09 1.0 0.032
light 4 2 2  0.5 0.5 1  0.09 1.0 0.032
camera 0 0 5  0 0 0  0 1 0
`

type fixture struct {
	dir string
	cfg *config.Config
}

func newFixture(t *testing.T, models map[string]string) fixture {
	t.Helper()
	dir := t.TempDir()

	var list []string
	for _, name := range []string{"a.obj", "b.obj", "c.obj", "broken.obj", "missing.obj"} {
		src, ok := models[name]
		if !ok {
			continue
		}
		list = append(list, name)
		if src != "" {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.txt"), []byte(strings.Join(list, "\n")+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.txt"), []byte(sceneFile), 0644))

	cfg := config.Default()
	cfg.Scene.ModelList = filepath.Join(dir, "models.txt")
	cfg.Scene.SceneFile = filepath.Join(dir, "scene.txt")
	return fixture{dir: dir, cfg: cfg}
}

func TestLoadScene(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.obj": cube(4, 1, 1),
		"b.obj": cube(1, 2, 1),
		"c.obj": cube(3, 6, 1),
	})

	loaded, err := LoadScene(f.cfg)
	require.NoError(t, err)
	require.Len(t, loaded.Meshes, 3)
	assert.Equal(t, "a.obj", loaded.Meshes[0].Name)

	ctx := loaded.Context
	assert.Equal(t, 2, ctx.Lights().Len())

	placements := ctx.Placements()
	require.Len(t, placements, 3)
	assert.InDelta(t, 0.5, placements[0].Scale, 1e-5)
	assert.InDelta(t, 1.0, placements[1].Scale, 1e-5)
	assert.InDelta(t, 1.0/3.0, placements[2].Scale, 1e-5)
	assert.InDelta(t, 1.75, placements[1].Delta, 1e-5)
	assert.InDelta(t, 3.0, placements[2].Delta, 1e-5)

	// Box centers land on their slots.
	frame := ctx.Frame()
	for i, b := range ctx.Boxes() {
		p := frame.Models[i].TransformPoint(b.Center().Array())
		assert.InDelta(t, placements[i].Delta, p[0], 1e-5)
		assert.InDelta(t, 0, p[1], 1e-5)
		assert.InDelta(t, 0, p[2], 1e-5)
	}
}

func TestLoadSceneReportsEveryBrokenModel(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.obj":       cube(1, 1, 1),
		"broken.obj":  "v 0 0 0\n",
		"missing.obj": "",
	})

	_, err := LoadScene(f.cfg)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(errors.Unwrap(err)), 2)
	assert.ErrorIs(t, err, model.ErrNoFaces)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSceneMissingCamera(t *testing.T) {
	f := newFixture(t, map[string]string{"a.obj": cube(1, 1, 1)})
	require.NoError(t, os.WriteFile(f.cfg.Scene.SceneFile, []byte("light 0 0 0 1 1 1 0.1 1 0.01\n"), 0644))

	_, err := LoadScene(f.cfg)
	assert.ErrorIs(t, err, sceneio.ErrMissingCamera)
}

func TestLoadSceneMissingList(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.ModelList = filepath.Join(t.TempDir(), "nope.txt")
	_, err := LoadScene(cfg)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Speed = 7
	cfg.Camera.ConstrainPitch = false
	cfg.Window.Width, cfg.Window.Height = 1000, 500
	cfg.Render.Shading = "gouraud"
	cfg.Render.Projection = "orthographic"

	opts, err := Options(cfg)
	require.NoError(t, err)
	assert.Equal(t, float32(7), opts.MovementSpeed)
	assert.False(t, opts.ConstrainPitch)
	assert.Equal(t, float32(2), opts.Projection.Aspect)
	assert.Equal(t, scene.Gouraud, opts.Shading)
	assert.Equal(t, scene.Orthographic, opts.Projection.Mode)

	cfg.Render.Shading = "cel"
	_, err = Options(cfg)
	assert.Error(t, err)

	cfg.Render.Shading = "phong"
	cfg.Render.Projection = "fisheye"
	_, err = Options(cfg)
	assert.Error(t, err)
}

package pipeline

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/infrastructure/raster"
)

func TestLoadTemplates(t *testing.T) {
	lib, err := LoadTemplates(templateFS(t), raster.New(), DefaultParams())
	require.NoError(t, err)

	require.Equal(t, "wash", lib.Allowed[entity.BaseWash].Name)
	require.Equal(t, "wash_not", lib.Forbidden[entity.BaseWash].Name)
	require.Equal(t, "40", lib.Inner[entity.InnerTemplate40].Name)

	// обрезка по собственному контуру
	require.Equal(t, 60, lib.Allowed[entity.BaseWash].Image.Size().X)
	require.Equal(t, 40, lib.Allowed[entity.BaseWash].Image.Size().Y)
	require.Equal(t, 21, lib.Inner[entity.InnerTemplate40].Image.Size().X)
	require.Equal(t, 15, lib.Inner[entity.InnerTemplate40].Image.Size().Y)
	require.Equal(t, 6, lib.Inner[entity.InnerTemplate1Dot].Image.Size().X)
	require.Equal(t, 56, lib.Inner[entity.InnerTemplate6Dot].Image.Size().X)

	require.NoError(t, lib.Close())
	require.NoError(t, lib.Close())
	require.Nil(t, lib.Inner[entity.InnerTemplate40].Image)
}

func TestLoadTemplates_MissingFile(t *testing.T) {
	fsys := templateFS(t)
	delete(fsys, "inner/W.png")

	lib, err := LoadTemplates(fsys, raster.New(), DefaultParams())
	require.Error(t, err)
	require.Nil(t, lib)

	stage, ok := entity.StageOf(err)
	require.True(t, ok)
	require.Equal(t, entity.StageTemplates, stage)
	require.Contains(t, err.Error(), "inner/W.png")
}

func TestLoadTemplates_BadImage(t *testing.T) {
	fsys := templateFS(t)
	fsys["base/dry_not.png"] = &fstest.MapFile{Data: []byte("not a png")}

	_, err := LoadTemplates(fsys, raster.New(), DefaultParams())
	stage, ok := entity.StageOf(err)
	require.True(t, ok)
	require.Equal(t, entity.StageTemplates, stage)
}

func TestLoadTemplates_Blank(t *testing.T) {
	fsys := templateFS(t)
	fsys["base/pro.png"] = &fstest.MapFile{Data: encodePNG(t, whiteGray(20, 20))}

	_, err := LoadTemplates(fsys, raster.New(), DefaultParams())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no ink")
}

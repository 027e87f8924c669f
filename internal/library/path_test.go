package library

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novaforge/launcher/internal/model"
)

func TestPathFromName(t *testing.T) {
	assert.Equal(t,
		"com/mojang/patchy/1.3.9/patchy-1.3.9.jar",
		PathFromName("com.mojang:patchy:1.3.9", ""),
	)
}

func TestPathFromNameWithClassifier(t *testing.T) {
	assert.Equal(t,
		"org/lwjgl/lwjgl/lwjgl-platform/2.9.4-nightly-20150209/lwjgl-platform-2.9.4-nightly-20150209-natives-windows.jar",
		PathFromName("org.lwjgl.lwjgl:lwjgl-platform:2.9.4-nightly-20150209", "natives-windows"),
	)
}

func TestFullNameDropsClassifier(t *testing.T) {
	assert.Equal(t, "org.lwjgl:lwjgl:3.3.1", FullName("org.lwjgl:lwjgl:3.3.1:natives-linux"))
}

func TestGroupID(t *testing.T) {
	assert.Equal(t, "com.mojang", GroupID("com.mojang:patchy:1.3.9"))
}

func TestResolvedPathPrefersExplicitArtifactPath(t *testing.T) {
	lib := model.Library{
		Name: "com.mojang:patchy:1.3.9",
		Downloads: &model.LibraryDownloads{
			Artifact: &model.Download{Path: "explicit/path/patchy.jar"},
		},
	}
	assert.Equal(t, "explicit/path/patchy.jar", ResolvedPath(lib))
}

func TestResolvedPathFallsBackToDerivedPath(t *testing.T) {
	lib := model.Library{Name: "com.mojang:patchy:1.3.9"}
	assert.Equal(t, "com/mojang/patchy/1.3.9/patchy-1.3.9.jar", ResolvedPath(lib))
}

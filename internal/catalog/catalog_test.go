package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGlobal(t *testing.T) {
	path := writeFile(t, t.TempDir(), "global.js", `
export const COMPANY = 'Agora';
export const VSDK = "Video SDK";
export const VSDK_FULL = `+"`${COMPANY} ${VSDK}`"+`;
export const API_REF = 'https://api-ref.agora.io/${VSDK_SLUG}';
export const VSDK_SLUG = 'video-sdk';
const notExported = 'skipped';
`)

	vars, err := LoadGlobal(path)
	require.NoError(t, err)

	assert.Equal(t, "Agora", vars["COMPANY"])
	assert.Equal(t, "Agora Video SDK", vars["VSDK_FULL"])
	assert.Equal(t, "https://api-ref.agora.io/video-sdk", vars["API_REF"])
	assert.NotContains(t, vars, "notExported")
}

func TestLoadGlobalUnknownReferenceExpandsEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "global.js", `export const X = 'a${MISSING}b';`)

	vars, err := LoadGlobal(path)
	require.NoError(t, err)
	assert.Equal(t, "ab", vars["X"])
}

func TestLoadDimension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "platform.js", `
// platform display names
const data = {
	android: {
		NAME: 'Android',
		PATH: 'android', // trailing comment
	},
	'react-native': {
		NAME: "React Native",
		PATH: 'react-native'
	},
};
export default data;
`)

	dict, err := LoadDimension(path)
	require.NoError(t, err)

	require.Contains(t, dict, "android")
	require.Contains(t, dict, "react-native")
	assert.Equal(t, "Android", dict["android"]["NAME"])
	assert.Equal(t, "React Native", dict["react-native"]["NAME"])
}

func TestLoadDimensionMissingData(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.js", `const other = {};`)

	_, err := LoadDimension(path)
	assert.Error(t, err)
}

func TestLoadProducts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "products.js", `
const products = [
	{
		id: 'video-calling',
		name: 'Video Calling',
		platforms: {
			latest: ['android', 'ios', 'web'],
		},
	},
	{
		id: 'voice-calling',
		platforms: {
			latest: ['android', 'ios'],
		},
	},
];
`)

	mapping, err := LoadProducts(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"android", "ios", "web"}, mapping["video-calling"])
	assert.Equal(t, []string{"android", "ios"}, mapping["voice-calling"])
}

func TestInferProduct(t *testing.T) {
	known := map[string]map[string]string{
		"video-calling": {"NAME": "Video Calling"},
	}

	docsDir := filepath.Join("repo", "docs")

	product, err := InferProduct(filepath.Join(docsDir, "video-calling", "get-started", "get-started-sdk.mdx"), docsDir, known)
	require.NoError(t, err)
	assert.Equal(t, "video-calling", product)

	_, err = InferProduct(filepath.Join(docsDir, "shared", "x.mdx"), docsDir, known)
	assert.Error(t, err)
}

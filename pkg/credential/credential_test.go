package credential_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/mapsmoke/pkg/credential"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFromFile(t *testing.T) {
	testCases := []struct {
		desc    string
		content string
		want    string
		wantErr error
	}{
		{
			desc:    "the key is extracted from the nested path",
			content: `{"mcpServers": {"google_maps_server": {"env": {"GOOGLE_MAPS_API_KEY": "X"}}}}`,
			want:    "X",
		},
		{
			desc:    "when the servers level is missing, it fails",
			content: `{"google_maps_server": {"env": {"GOOGLE_MAPS_API_KEY": "X"}}}`,
			wantErr: credential.ErrKeyNotFound,
		},
		{
			desc:    "when the server entry is missing, it fails",
			content: `{"mcpServers": {"other": {}}}`,
			wantErr: credential.ErrKeyNotFound,
		},
		{
			desc:    "when the env block is missing, it fails",
			content: `{"mcpServers": {"google_maps_server": {}}}`,
			wantErr: credential.ErrKeyNotFound,
		},
		{
			desc:    "when the key itself is missing, it fails",
			content: `{"mcpServers": {"google_maps_server": {"env": {}}}}`,
			wantErr: credential.ErrKeyNotFound,
		},
		{
			desc:    "when an intermediate level is not an object, it fails",
			content: `{"mcpServers": {"google_maps_server": "nope"}}`,
			wantErr: credential.ErrKeyNotFound,
		},
		{
			desc:    "when the key is not a string, it fails",
			content: `{"mcpServers": {"google_maps_server": {"env": {"GOOGLE_MAPS_API_KEY": 42}}}}`,
			wantErr: credential.ErrNotString,
		},
		{
			desc:    "when the key is empty, it fails",
			content: `{"mcpServers": {"google_maps_server": {"env": {"GOOGLE_MAPS_API_KEY": ""}}}}`,
			wantErr: credential.ErrNotString,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			path := writeFile(t, "mcp.json", tC.content)

			got, err := credential.FromFile(path)
			if tC.wantErr != nil {
				assert.True(t, errors.Is(err, tC.wantErr), "got error %v", err)
				assert.Empty(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tC.want, got)
		})
	}
}

func TestFromFileUnparsable(t *testing.T) {
	path := writeFile(t, "mcp.json", `{"mcpServers": `)

	_, err := credential.FromFile(path)
	assert.Error(t, err)
}

func TestFromFileMissing(t *testing.T) {
	_, err := credential.FromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFromFileCustomKeyPath(t *testing.T) {
	path := writeFile(t, "config.json", `{"google": {"maps": "abc"}}`)

	got, err := credential.FromFile(path, credential.ParseKeyPath("google.maps")...)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestResolve(t *testing.T) {
	t.Run("the environment wins over the config file", func(t *testing.T) {
		t.Setenv("GOOGLE_MAPS_API_KEY", "from-env")
		path := writeFile(t, "mcp.json", `{"mcpServers": {"google_maps_server": {"env": {"GOOGLE_MAPS_API_KEY": "from-file"}}}}`)

		got, err := credential.Resolve(credential.Source{ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, "from-env", got)
	})

	t.Run("the config file is used when the environment is empty", func(t *testing.T) {
		t.Setenv("GOOGLE_MAPS_API_KEY", "")
		path := writeFile(t, "mcp.json", `{"mcpServers": {"google_maps_server": {"env": {"GOOGLE_MAPS_API_KEY": "from-file"}}}}`)

		got, err := credential.Resolve(credential.Source{ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, "from-file", got)
	})

	t.Run("MAPSMOKE_CONFIG points at the config file", func(t *testing.T) {
		t.Setenv("GOOGLE_MAPS_API_KEY", "")
		path := writeFile(t, "mcp.json", `{"mcpServers": {"google_maps_server": {"env": {"GOOGLE_MAPS_API_KEY": "from-env-file"}}}}`)
		t.Setenv("MAPSMOKE_CONFIG", path)

		got, err := credential.Resolve(credential.Source{})
		require.NoError(t, err)
		assert.Equal(t, "from-env-file", got)
	})

	t.Run("with no source at all, it fails", func(t *testing.T) {
		t.Setenv("GOOGLE_MAPS_API_KEY", "")
		t.Setenv("MAPSMOKE_CONFIG", "")

		_, err := credential.Resolve(credential.Source{DotEnv: []string{filepath.Join(t.TempDir(), ".env")}})
		assert.True(t, errors.Is(err, credential.ErrNoSource))
	})
}

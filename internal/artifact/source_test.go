package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		value any
		want  Source
	}{
		{
			name:  "existing directory",
			value: dir,
			want:  DirectorySource{Path: dir},
		},
		{
			name:  "registry name",
			value: "deepset/bert-base-cased-squad2",
			want:  RegistrySource{Name: "deepset/bert-base-cased-squad2"},
		},
		{
			name:  "bundle map",
			value: map[string]any{KeyModel: 1, KeyTokenizer: 2, KeyEmbedder: 3},
			want:  BundleSource{Objects: map[string]any{KeyModel: 1, KeyTokenizer: 2, KeyEmbedder: 3}},
		},
		{
			name:  "source passthrough",
			value: RegistrySource{Name: "x"},
			want:  RegistrySource{Name: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSource(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSource_UnsupportedShape(t *testing.T) {
	for _, v := range []any{42, 3.14, nil, []string{"x"}} {
		_, err := ResolveSource(v)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

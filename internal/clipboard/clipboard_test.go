package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func only(tools ...string) lookPathFunc {
	return func(file string) (string, error) {
		for _, t := range tools {
			if t == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCommandFor(t *testing.T) {
	argv, err := commandFor("linux", only("xsel", "xclip"))
	require.NoError(t, err)
	assert.Equal(t, []string{"xclip", "-selection", "clipboard"}, argv)

	argv, err = commandFor("linux", only("wl-copy", "xclip"))
	require.NoError(t, err)
	assert.Equal(t, []string{"wl-copy"}, argv)

	argv, err = commandFor("darwin", only("pbcopy"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pbcopy"}, argv)

	argv, err = commandFor("windows", only())
	require.NoError(t, err)
	assert.Equal(t, "clip", argv[2])
}

func TestCommandFor_Unavailable(t *testing.T) {
	_, err := commandFor("linux", only())
	assert.ErrorIs(t, err, ErrUnavailable)
}

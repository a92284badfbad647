package bollywood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath_Valid(t *testing.T) {
	p, err := ParsePath("/user/directory/room-1")
	require.NoError(t, err)
	assert.Equal(t, "/user/directory/room-1", p.String())
}

func TestParsePath_Invalid(t *testing.T) {
	cases := []string{"", "user/a", "/a/b", "/user/"}
	for _, raw := range cases {
		_, err := ParsePath(raw)
		assert.ErrorIs(t, err, ErrInvalidPath, "raw=%q", raw)
	}
}

func TestMustParsePath_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParsePath("not-a-path") })
}

func TestPath_Child(t *testing.T) {
	root := RootPath()
	directory := root.Child("directory")
	room := directory.Child("room-1")

	assert.Equal(t, "/user/directory", directory.String())
	assert.Equal(t, "/user/directory/room-1", room.String())
}

func TestPath_Parent(t *testing.T) {
	room := MustParsePath("/user/directory/room-1")
	parent, ok := room.Parent()
	require.True(t, ok)
	assert.Equal(t, "/user/directory", parent.String())

	root := RootPath()
	_, ok = root.Parent()
	assert.False(t, ok, "root has no parent")
}

func TestPath_Equal(t *testing.T) {
	a := MustParsePath("/user/x/y")
	b := MustParsePath("/user/x/y")
	c := MustParsePath("/user/x/z")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestPath_IsDescendantOf(t *testing.T) {
	root := RootPath()
	directory := root.Child("directory")
	room := directory.Child("room-1")

	assert.True(t, room.IsDescendantOf(directory))
	assert.True(t, room.IsDescendantOf(root))
	assert.False(t, directory.IsDescendantOf(room))
	assert.True(t, room.IsDescendantOf(room), "IsDescendantOf is reflexive; callers exclude self explicitly")
}

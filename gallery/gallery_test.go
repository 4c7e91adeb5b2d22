package gallery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfolden/portfolio-backend/models"
)

func makeItems(n int) []models.MediaItem {
	items := make([]models.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.MediaItem{
			Type: models.MediaTypeImage,
			URL:  fmt.Sprintf("https://cdn.example.com/img-%d.png", i),
		})
	}
	return items
}

func TestNextWrapsAroundFullCycle(t *testing.T) {
	for _, length := range []int{2, 3, 5} {
		t.Run(fmt.Sprintf("length %d", length), func(t *testing.T) {
			v := New(makeItems(length))

			for i := 0; i < length; i++ {
				assert.Equal(t, i, v.Index())
				v = v.Next()
			}
			assert.Equal(t, 0, v.Index(), "a full cycle of Next returns to the start")

			for i := 0; i < length; i++ {
				v = v.Previous()
			}
			assert.Equal(t, 0, v.Index(), "a full cycle of Previous returns to the start")
		})
	}
}

func TestPreviousWrapsToLast(t *testing.T) {
	v := New(makeItems(4))
	v = v.Previous()
	assert.Equal(t, 3, v.Index())

	current, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/img-3.png", current.URL)
}

func TestShortSequencesNeverNavigate(t *testing.T) {
	for _, length := range []int{0, 1} {
		t.Run(fmt.Sprintf("length %d", length), func(t *testing.T) {
			v := New(makeItems(length))

			assert.NotPanics(t, func() {
				v = v.Next()
				v = v.Previous()
				v = v.Next()
			})
			assert.Equal(t, 0, v.Index())
			assert.Equal(t, length, v.Len())
		})
	}
}

func TestEmptyHasNoCurrent(t *testing.T) {
	v := New(nil)
	_, ok := v.Current()
	assert.False(t, ok)
	assert.Nil(t, v.Items())
}

func TestSelectBounds(t *testing.T) {
	v := New(makeItems(3))

	selected, err := v.Select(2)
	require.NoError(t, err)
	assert.Equal(t, 2, selected.Index())

	_, err = v.Select(3)
	assert.Error(t, err)
	_, err = v.Select(-1)
	assert.Error(t, err)

	_, err = New(nil).Select(0)
	assert.Error(t, err)

	single := New(makeItems(1))
	_, err = single.Select(0)
	assert.NoError(t, err)
	_, err = single.Select(1)
	assert.Error(t, err)
}

func TestViewsAreImmutable(t *testing.T) {
	v := New(makeItems(3))
	next := v.Next()

	assert.Equal(t, 0, v.Index())
	assert.Equal(t, 1, next.Index())
}

func TestAtRestoresPositionWithFallback(t *testing.T) {
	items := makeItems(3)

	assert.Equal(t, 2, At(items, 2).Index())
	assert.Equal(t, 0, At(items, 7).Index(), "out-of-range restores to the first item")
	assert.Equal(t, 0, At(items, -1).Index())
	assert.Equal(t, 0, At(nil, 2).Index())
}

func TestHandleKey(t *testing.T) {
	v := New(makeItems(3))

	v, action := HandleKey(v, KeyArrowRight)
	assert.Equal(t, KeyNavigated, action)
	assert.Equal(t, 1, v.Index())

	v, action = HandleKey(v, KeyArrowLeft)
	assert.Equal(t, KeyNavigated, action)
	assert.Equal(t, 0, v.Index())

	v, action = HandleKey(v, "Enter")
	assert.Equal(t, KeyIgnored, action)
	assert.Equal(t, 0, v.Index())

	_, action = HandleKey(v, KeyEscape)
	assert.Equal(t, KeyClosed, action)
}

func TestRenderEmpty(t *testing.T) {
	frame := Render(New(nil))

	assert.Nil(t, frame.Current)
	assert.False(t, frame.ShowControls)
	assert.Empty(t, frame.Indicator)
	assert.Empty(t, frame.Thumbnails)
}

func TestRenderSingleHidesIndicator(t *testing.T) {
	frame := Render(New(makeItems(1)))

	require.NotNil(t, frame.Current)
	assert.False(t, frame.ShowControls)
	assert.Empty(t, frame.Indicator, "no position indicator for a single item")
	assert.Len(t, frame.Thumbnails, 1)
	assert.True(t, frame.Thumbnails[0].Selected)
}

func TestRenderIndicatorAndSelection(t *testing.T) {
	v := New(makeItems(5))
	v = v.Next().Next()

	frame := Render(v)
	require.NotNil(t, frame.Current)
	assert.Equal(t, "3 / 5", frame.Indicator)
	assert.True(t, frame.ShowControls)

	require.Len(t, frame.Thumbnails, 5)
	for i, thumb := range frame.Thumbnails {
		assert.Equal(t, i == 2, thumb.Selected)
		assert.False(t, thumb.Autoplay, "thumbnails never autoplay")
	}
}

func TestRenderVideoAutoplayAndMuting(t *testing.T) {
	items := []models.MediaItem{
		{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/a.mp4"},
		{Type: models.MediaTypeImage, URL: "https://cdn.example.com/b.png"},
		{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/c.mp4"},
	}

	frame := Render(New(items))
	assert.True(t, frame.Autoplay, "the selected video autoplays")
	assert.True(t, frame.Thumbnails[0].Muted)
	assert.False(t, frame.Thumbnails[1].Muted, "image thumbnails are not muted")
	assert.True(t, frame.Thumbnails[2].Muted)

	imageFrame := Render(New(items).Next())
	assert.False(t, imageFrame.Autoplay, "a selected image never autoplays")
}

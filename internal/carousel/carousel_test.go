package carousel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/cinemap/internal/carousel"
)

func TestEightItemsThreeVisible(t *testing.T) {
	vp := carousel.NewFixedWidth(3*216 + 10)
	c := carousel.New(vp, 8)

	s := c.Reposition()
	assert.Equal(t, 3, s.Visible)
	assert.Equal(t, 5, s.MaxIndex)
	assert.False(t, s.CanRetreat)
	assert.True(t, s.CanAdvance)

	s = c.Retreat()
	assert.Equal(t, 0, s.Index)

	for i := 0; i < 10; i++ {
		s = c.Advance()
	}
	assert.Equal(t, 5, s.Index)
	assert.Equal(t, 5*216, s.Offset)
	assert.False(t, s.CanAdvance)
	assert.True(t, s.CanRetreat)
}

func TestResizeClampsIndex(t *testing.T) {
	vp := carousel.NewFixedWidth(2 * 216)
	c := carousel.New(vp, 8)
	for i := 0; i < 6; i++ {
		c.Advance()
	}
	assert.Equal(t, 6, c.Reposition().Index)

	vp.Resize(6 * 216)
	s := c.OnResize()
	assert.Equal(t, 2, s.MaxIndex)
	assert.Equal(t, 2, s.Index)
	assert.Equal(t, 2*216, s.Offset)
}

func TestFewerItemsThanVisible(t *testing.T) {
	c := carousel.New(carousel.NewFixedWidth(1200), 3)
	s := c.Advance()
	assert.Equal(t, 0, s.MaxIndex)
	assert.Equal(t, 0, s.Index)
	assert.False(t, s.CanAdvance)
	assert.False(t, s.CanRetreat)
}

func TestViewportReadLive(t *testing.T) {
	vp := carousel.NewFixedWidth(216)
	c := carousel.New(vp, 4)
	assert.Equal(t, 3, c.Reposition().MaxIndex)

	// No OnResize call: the next operation still sees the new width.
	vp.Resize(4 * 216)
	s := c.Advance()
	assert.Equal(t, 0, s.MaxIndex)
	assert.Equal(t, 0, s.Index)
}

func TestItemCountChange(t *testing.T) {
	c := carousel.New(carousel.NewFixedWidth(216), 10)
	for i := 0; i < 9; i++ {
		c.Advance()
	}
	s := c.SetItems(4)
	assert.Equal(t, 3, s.Index)

	s = c.Reset(20)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 19, s.MaxIndex)
}

func TestZeroWidthViewport(t *testing.T) {
	c := carousel.New(carousel.NewFixedWidth(0), 5)
	s := c.Advance()
	assert.Equal(t, 0, s.Visible)
	assert.Equal(t, 5, s.MaxIndex)
	assert.Equal(t, 1, s.Index)
}

func TestCustomMetrics(t *testing.T) {
	c := carousel.New(carousel.NewFixedWidth(300), 5, carousel.WithCardMetrics(90, 10))
	s := c.Advance()
	assert.Equal(t, 3, s.Visible)
	assert.Equal(t, 100, s.Offset)
}

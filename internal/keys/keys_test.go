package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/cinemap/internal/keys"
)

func TestRegisterDispatchRemove(t *testing.T) {
	bus := keys.NewBus()
	var got []string

	a := bus.Register("a", func(k string) { got = append(got, "a:"+k) })
	bus.Register("b", func(k string) { got = append(got, "b:"+k) })
	assert.Equal(t, 2, bus.Len())

	assert.Equal(t, 2, bus.Dispatch(keys.Escape))
	assert.Equal(t, []string{"a:Escape", "b:Escape"}, got)

	a.Remove()
	a.Remove()
	assert.Equal(t, 0, bus.Count("a"))
	assert.Equal(t, 1, bus.Dispatch("Enter"))
}

func TestListenerMayRemoveItself(t *testing.T) {
	bus := keys.NewBus()
	calls := 0
	var reg *keys.Registration
	reg = bus.Register("once", func(string) {
		calls++
		reg.Remove()
	})

	bus.Dispatch(keys.Escape)
	bus.Dispatch(keys.Escape)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Len())
}

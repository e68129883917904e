package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type health struct{ HP int }
type name struct{ Value string }
type player struct{}

func populate(t *testing.T) (*World, Entity, Entity, Entity) {
	t.Helper()
	w := NewWorld()

	ralph := w.NewEntity()
	betty := w.NewEntity()
	hero := w.NewEntity()

	require.NoError(t, AddComponent(w, ralph, health{100}))
	require.NoError(t, AddComponent(w, ralph, name{"Ralph"}))
	require.NoError(t, AddComponent(w, betty, health{100}))
	require.NoError(t, AddComponent(w, betty, name{"Betty"}))
	require.NoError(t, AddComponent(w, hero, health{100}))
	require.NoError(t, AddComponent(w, hero, player{}))

	return w, ralph, betty, hero
}

func TestEntityAllocation(t *testing.T) {
	w := NewWorld()

	a := w.NewEntity()
	b := w.NewEntity()
	require.Equal(t, Entity(0), a)
	require.Equal(t, Entity(1), b)
	require.Equal(t, uint64(2), w.NumEntities())

	require.NoError(t, w.RemoveEntity(a))
	require.Equal(t, uint64(1), w.NumEntities())

	c := w.NewEntity()
	require.Equal(t, Entity(2), c, "ids are never recycled")
}

func TestAddThenQueryReturnsValue(t *testing.T) {
	w, ralph, betty, _ := populate(t)

	names, err := Query[name](w)
	require.NoError(t, err)
	defer names.Release()

	v, ok := names.Get(ralph)
	require.True(t, ok)
	require.Equal(t, name{"Ralph"}, v)

	v, ok = names.Get(betty)
	require.True(t, ok)
	require.Equal(t, name{"Betty"}, v)
	require.Equal(t, 2, names.Len())
}

func TestAddComponentOverwrites(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()

	require.NoError(t, AddComponent(w, e, health{10}))
	require.NoError(t, AddComponent(w, e, health{20}))

	v, ok, err := Get[health](w, e)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20, v.HP)
}

func TestMutableIterationWithJoin(t *testing.T) {
	w, _, _, hero := populate(t)

	healths, err := QueryMut[health](w)
	require.NoError(t, err)
	names, err := Query[name](w)
	require.NoError(t, err)

	drained := 0
	for e, h := range healths.All() {
		if !names.Has(e) {
			continue
		}
		for h.HP > 0 {
			h.HP--
		}
		drained++
	}
	names.Release()
	healths.Release()
	require.Equal(t, 2, drained)

	heroHealth, ok, err := Get[health](w, hero)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 100, heroHealth.HP, "only named entities were drained")
}

func TestRemoveEntityClearsEveryTable(t *testing.T) {
	w, ralph, _, _ := populate(t)

	require.NoError(t, w.RemoveEntity(ralph))
	require.Equal(t, uint64(2), w.NumEntities())

	_, ok, err := Get[health](w, ralph)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = Get[name](w, ralph)
	require.NoError(t, err)
	require.False(t, ok)

	// Removing an unknown entity is a silent no-op per table.
	require.NoError(t, w.RemoveEntity(Entity(999)))
}

func TestTablesPersistWhenEmpty(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity()
	require.NoError(t, AddComponent(w, e, player{}))
	require.NoError(t, RemoveComponent[player](w, e))

	ref, err := Query[player](w)
	require.NoError(t, err)
	defer ref.Release()
	require.Zero(t, ref.Len())
	require.Len(t, w.Components(), 1)
}

func TestQueryMissingTable(t *testing.T) {
	w := NewWorld()

	_, err := Query[health](w)
	require.ErrorIs(t, err, ErrNoTable)
	_, err = QueryMut[health](w)
	require.ErrorIs(t, err, ErrNoTable)
	_, err = EntitiesWith(w, func(health) bool { return true })
	require.ErrorIs(t, err, ErrNoTable)

	// Removing a component of an unknown type is not an error.
	require.NoError(t, RemoveComponent[health](w, 0))
}

func TestBorrowRules(t *testing.T) {
	w, ralph, _, _ := populate(t)

	t.Run("shared borrows coexist", func(t *testing.T) {
		a, err := Query[health](w)
		require.NoError(t, err)
		b, err := Query[health](w)
		require.NoError(t, err)
		a.Release()
		b.Release()
	})

	t.Run("exclusive excludes shared", func(t *testing.T) {
		m, err := QueryMut[health](w)
		require.NoError(t, err)

		_, err = Query[health](w)
		require.ErrorIs(t, err, ErrAliasing)
		_, err = QueryMut[health](w)
		require.ErrorIs(t, err, ErrAliasing)

		m.Release()
		r, err := Query[health](w)
		require.NoError(t, err)
		r.Release()
	})

	t.Run("shared excludes exclusive", func(t *testing.T) {
		r, err := Query[health](w)
		require.NoError(t, err)
		defer r.Release()

		_, err = QueryMut[health](w)
		require.ErrorIs(t, err, ErrAliasing)
		require.ErrorIs(t, AddComponent(w, ralph, health{1}), ErrAliasing)
	})

	t.Run("different types never conflict", func(t *testing.T) {
		h, err := QueryMut[health](w)
		require.NoError(t, err)
		defer h.Release()
		n, err := QueryMut[name](w)
		require.NoError(t, err)
		defer n.Release()
	})

	t.Run("remove entity reports borrowed tables", func(t *testing.T) {
		r, err := Query[name](w)
		require.NoError(t, err)

		err = w.RemoveEntity(ralph)
		require.ErrorIs(t, err, ErrAliasing)
		require.True(t, r.Has(ralph), "borrowed table keeps the row")
		r.Release()

		_, ok, err := Get[health](w, ralph)
		require.NoError(t, err)
		require.False(t, ok, "unborrowed tables were still cleared")
	})
}

func TestReleaseIsIdempotent(t *testing.T) {
	w, _, _, _ := populate(t)

	r, err := Query[health](w)
	require.NoError(t, err)
	r.Release()
	r.Release()

	m, err := QueryMut[health](w)
	require.NoError(t, err, "double release must not leave a phantom reader")
	m.Release()
	m.Release()

	_, err = QueryMut[health](w)
	require.NoError(t, err)
}

func TestUseAfterRelease(t *testing.T) {
	w, ralph, _, _ := populate(t)

	r, err := Query[health](w)
	require.NoError(t, err)
	r.Release()

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrReleased))
	}()
	r.Get(ralph)
}

func TestEntitiesWith(t *testing.T) {
	w, ralph, betty, _ := populate(t)

	got, err := EntitiesWith(w, func(n name) bool { return n.Value == "Ralph" })
	require.NoError(t, err)
	require.Equal(t, []Entity{ralph}, got)

	got, err = EntitiesWith(w, func(name) bool { return true })
	require.NoError(t, err)
	require.ElementsMatch(t, []Entity{ralph, betty}, got)
}

func TestComponentIDs(t *testing.T) {
	require.Equal(t, ComponentIDOf[health](), ComponentIDOf[health]())
	require.NotEqual(t, ComponentIDOf[health](), ComponentIDOf[name]())

	w, _, _, _ := populate(t)
	infos := w.Components()
	require.Len(t, infos, 3)
	require.Equal(t, ComponentIDOf[health](), infos[0].ID)
	require.Equal(t, 3, infos[0].Len)
	require.Contains(t, infos[1].Name, "ecs.name")
}

func TestOnTableCreated(t *testing.T) {
	w := NewWorld()
	var created []ComponentInfo
	w.OnTableCreated(func(info ComponentInfo) { created = append(created, info) })

	e := w.NewEntity()
	require.NoError(t, AddComponent(w, e, health{10}))
	require.NoError(t, AddComponent(w, e, health{20}))
	require.NoError(t, AddComponent(w, e, name{"ralph"}))

	require.Len(t, created, 2, "one call per component type")
	require.Equal(t, ComponentIDOf[health](), created[0].ID)
	require.Contains(t, created[1].Name, "ecs.name")
	require.Zero(t, created[0].Len)
}

func TestAliasingErrorNamesTable(t *testing.T) {
	w, _, _, _ := populate(t)

	ref, err := QueryMut[health](w)
	require.NoError(t, err)
	defer ref.Release()

	_, err = Query[health](w)
	require.ErrorIs(t, err, ErrAliasing)
	require.Contains(t, err.Error(), "ecs.health")
	require.Contains(t, err.Error(), ComponentIDOf[health]().String())
	require.Contains(t, err.Error(), "exclusively borrowed")
}

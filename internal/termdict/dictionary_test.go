package termdict

import (
	"testing"

	"github.com/hupe1980/jsonlddb/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary(t *testing.T) {
	d := New()

	a := d.Intern(model.IRI("a"))
	b := d.Intern(model.String("a"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, d.Intern(model.IRI("a")))
	assert.Equal(t, 2, d.Len())

	id, ok := d.Lookup(model.String("a"))
	require.True(t, ok)
	assert.Equal(t, b, id)
	assert.Equal(t, model.String("a"), d.Term(id))

	_, ok = d.Lookup(model.IRI("missing"))
	assert.False(t, ok)
	assert.Equal(t, 2, d.Len())
}

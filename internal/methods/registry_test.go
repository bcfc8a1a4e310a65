package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShipsSevenMethods(t *testing.T) {
	assert.Equal(t,
		[]string{"50-30-20", "kakeibo", "zero-based", "envelope", "80-20", "60-20-20", "70-20-10"},
		IDs())
	assert.Len(t, All(), 7)
}

func TestFixedAllocationsNeverExceedIncome(t *testing.T) {
	for _, m := range All() {
		assert.LessOrEqualf(t, m.Allocated(), 100.0, "method %s allocates more than 100%%", m.ID)
		assert.NotEmptyf(t, m.Tips, "method %s has no tips", m.ID)
	}
}

func TestGet(t *testing.T) {
	m, ok := Get("50-30-20")
	require.True(t, ok)
	assert.Equal(t, "Regla 50/30/20", m.Name)
	require.Len(t, m.Buckets, 3)
	assert.Equal(t, 50.0, m.Buckets[0].Percentage)
	assert.Contains(t, m.Buckets[0].MatchCategories, "Educación")

	zb, ok := Get("zero-based")
	require.True(t, ok)
	assert.Len(t, zb.Buckets, 7)
	assert.Equal(t, 100.0, zb.Allocated())
}

func TestGetUnknownMeansNoMethod(t *testing.T) {
	m, ok := Get("does-not-exist")
	assert.False(t, ok)
	assert.Empty(t, m.ID)
	assert.Empty(t, m.Buckets)
}

func TestCatalogIsReadOnly(t *testing.T) {
	m, _ := Get("envelope")
	m.Buckets[0].Percentage = 99
	m.Buckets[0].MatchCategories[0] = "Otra"
	m.Tips[0] = "changed"

	again, _ := Get("envelope")
	assert.Equal(t, 20.0, again.Buckets[0].Percentage)
	assert.Equal(t, "Comida", again.Buckets[0].MatchCategories[0])
	assert.NotEqual(t, "changed", again.Tips[0])
}

func TestParseCatalogRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"empty":      "methods: []",
		"no id":      "methods:\n  - name: x\n    buckets:\n      - name: a\n        percentage: 10\n",
		"duplicate":  "methods:\n  - id: a\n    buckets: [{name: b, percentage: 1}]\n  - id: a\n    buckets: [{name: b, percentage: 1}]\n",
		"no buckets": "methods:\n  - id: a\n",
		"percentage": "methods:\n  - id: a\n    buckets: [{name: b, percentage: 120}]\n",
		"syntax":     "methods: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}

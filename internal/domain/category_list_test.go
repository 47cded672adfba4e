package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeCategoryListShapes(t *testing.T) {
	want := []Category{{ID: "1", Name: "Food"}, {ID: "c2", Name: "Drinks"}}
	cases := []struct {
		name  string
		body  string
		shape ListShape
	}{
		{"bare array", `[{"id":1,"name":"Food"},{"id":"c2","name":"Drinks"}]`, ShapeArray},
		{"data envelope", `{"data":[{"id":1,"name":"Food"},{"id":"c2","name":"Drinks"}]}`, ShapeData},
		{"categories envelope", `{"categories":[{"id":1,"name":"Food"},{"id":"c2","name":"Drinks"}]}`, ShapeCategories},
		{"service envelope", `{"Status":"Success","Message":"ok","Data":[{"id":1,"name":"Food"},{"id":"c2","name":"Drinks"}]}`, ShapeData},
		{"padded array", "\n  [{\"id\":1,\"name\":\"Food\"},{\"id\":\"c2\",\"name\":\"Drinks\"}]  ", ShapeArray},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeCategoryList([]byte(tc.body))
			assert.Equal(t, tc.shape, got.Shape)
			assert.Equal(t, want, got.Categories)
		})
	}
}

func TestDecodeCategoryListPrefersDataOverCategories(t *testing.T) {
	got := DecodeCategoryList([]byte(`{"categories":[{"id":2,"name":"B"}],"data":[{"id":1,"name":"A"}]}`))
	assert.Equal(t, ShapeData, got.Shape)
	assert.Equal(t, []Category{{ID: "1", Name: "A"}}, got.Categories)
}

func TestDecodeCategoryListFallsThroughNonArrayData(t *testing.T) {
	got := DecodeCategoryList([]byte(`{"data":{"id":1},"categories":[{"id":2,"name":"B"}]}`))
	assert.Equal(t, ShapeCategories, got.Shape)
	assert.Equal(t, []Category{{ID: "2", Name: "B"}}, got.Categories)
}

func TestDecodeCategoryListUnknownShapes(t *testing.T) {
	bodies := []string{
		``,
		`null`,
		`"categories"`,
		`42`,
		`{}`,
		`{"data":null}`,
		`{"items":[{"id":1,"name":"A"}]}`,
		`not json`,
		`{"data":[`,
	}
	for _, body := range bodies {
		got := DecodeCategoryList([]byte(body))
		assert.Equal(t, ShapeUnknown, got.Shape, body)
		assert.NotNil(t, got.Categories, body)
		assert.Empty(t, got.Categories, body)
	}
}

func TestDecodeCategoryListSkipsBadElements(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		shape   ListShape
		want    []Category
		skipped int
	}{
		{"mixed array", `[{"id":1,"name":"Food"},null,{"id":2,"name":5},"x",{"id":"c3","name":"Drinks"}]`, ShapeArray,
			[]Category{{ID: "1", Name: "Food"}, {ID: "c3", Name: "Drinks"}}, 3},
		{"only nulls", `[null]`, ShapeArray, []Category{}, 1},
		{"numbers", `[1,2,3]`, ShapeArray, []Category{}, 3},
		{"bad name in envelope", `{"data":[{"id":1,"name":5},{"id":2,"name":"B"}]}`, ShapeData,
			[]Category{{ID: "2", Name: "B"}}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeCategoryList([]byte(tc.body))
			assert.Equal(t, tc.shape, got.Shape)
			assert.Equal(t, tc.want, got.Categories)
			assert.Equal(t, tc.skipped, got.Skipped)
		})
	}
}

func TestDecodeCategoryListEmptyArray(t *testing.T) {
	got := DecodeCategoryList([]byte(`[]`))
	assert.Equal(t, ShapeArray, got.Shape)
	assert.Empty(t, got.Categories)
}

func TestListShapeString(t *testing.T) {
	assert.Equal(t, "array", ShapeArray.String())
	assert.Equal(t, "data", ShapeData.String())
	assert.Equal(t, "categories", ShapeCategories.String())
	assert.Equal(t, "unknown", ShapeUnknown.String())
}

package domain

import (
	"bytes"
	"encoding/json"
)

// ListShape tags which envelope a category list response arrived in.
type ListShape int

const (
	ShapeUnknown ListShape = iota
	ShapeArray
	ShapeData
	ShapeCategories
)

func (s ListShape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeData:
		return "data"
	case ShapeCategories:
		return "categories"
	default:
		return "unknown"
	}
}

// CategoryList is the canonical result of decoding GET /categories.
// Skipped counts array elements that were not category objects.
type CategoryList struct {
	Shape      ListShape
	Categories []Category
	Skipped    int
}

type categoryEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Categories json.RawMessage `json:"categories"`
}

// DecodeCategoryList accepts a bare array, {"data": [...]} or
// {"categories": [...]}, tried in that order. Anything else decodes to
// ShapeUnknown with an empty list. Elements of a matched array that are not
// category objects are dropped and counted in Skipped.
func DecodeCategoryList(body []byte) CategoryList {
	if cats, skipped, ok := decodeCategoryArray(body); ok {
		return CategoryList{Shape: ShapeArray, Categories: cats, Skipped: skipped}
	}

	var env categoryEnvelope
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &env) != nil {
		return CategoryList{Shape: ShapeUnknown, Categories: []Category{}}
	}
	if cats, skipped, ok := decodeCategoryArray(env.Data); ok {
		return CategoryList{Shape: ShapeData, Categories: cats, Skipped: skipped}
	}
	if cats, skipped, ok := decodeCategoryArray(env.Categories); ok {
		return CategoryList{Shape: ShapeCategories, Categories: cats, Skipped: skipped}
	}
	return CategoryList{Shape: ShapeUnknown, Categories: []Category{}}
}

func decodeCategoryArray(raw []byte) ([]Category, int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, 0, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, false
	}
	cats := make([]Category, 0, len(items))
	skipped := 0
	for _, item := range items {
		item = bytes.TrimSpace(item)
		var c Category
		if len(item) == 0 || item[0] != '{' || json.Unmarshal(item, &c) != nil {
			skipped++
			continue
		}
		cats = append(cats, c)
	}
	return cats, skipped, true
}

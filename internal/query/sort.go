// Copyright 2026 The Shopcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import (
	"fmt"
	"sort"
	"time"
)

// SortSlice orders items in place by the named field. The sort is stable:
// records comparing equal on the sort key keep their relative input order.
// Unknown field names fail with ErrInvalidSort.
func SortSlice[T any](items []*T, reg *Registry[T], name string, dir Direction) error {
	get, err := reg.accessor(name)
	if err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := compareValues(get(items[i]), get(items[j]))
		if dir == Ascending {
			return c < 0
		}
		return c > 0
	})
	return nil
}

// compareValues orders two scalar field values of the same registered field.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case int:
		return compareInt64(int64(av), int64(b.(int)))
	case int32:
		return compareInt64(int64(av), int64(b.(int32)))
	case int64:
		return compareInt64(av, b.(int64))
	case float32:
		return compareFloat64(float64(av), float64(b.(float32)))
	case float64:
		return compareFloat64(av, b.(float64))
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv := b.(bool)
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
		return 0
	case time.Time:
		return av.Compare(b.(time.Time))
	default:
		as, bs := fmt.Sprint(a), fmt.Sprint(b)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Package milestoneset provides the set operations the progress engine uses
// for milestone completion tracking. Duplicate ids collapse on construction.
package milestoneset

import "sort"

type Set map[int64]struct{}

func New(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func FromSlice(ids []int64) Set {
	return New(ids...)
}

func (s Set) Add(id int64) {
	s[id] = struct{}{}
}

func (s Set) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Union returns a new set containing every id in s or other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns a new set containing the ids present in both s and other.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for id := range s {
		if _, ok := other[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// SubsetOf reports whether every id in s is present in other.
func (s Set) SubsetOf(other Set) bool {
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

func (s Set) Equal(other Set) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}

// Slice returns the ids in ascending order, for stable storage and JSON.
func (s Set) Slice() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package imports

import (
	"reflect"
	"testing"
)

func TestSortedIsDeterministic(t *testing.T) {
	s := NewSet()
	s.Add("fmt")
	s.Add("context")
	s.Add("github.com/tetratelabs/wazero/api")
	s.Add("context") // duplicate add should not affect ordering or count

	got := s.Sorted()
	want := []string{"context", "fmt", "github.com/tetratelabs/wazero/api"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

func TestEmptySet(t *testing.T) {
	s := NewSet()
	if got := s.Sorted(); len(got) != 0 {
		t.Errorf("Sorted() on empty set = %v, want empty", got)
	}
}

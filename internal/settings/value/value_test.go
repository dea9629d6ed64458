package value

import "testing"

func TestLit_Resolve(t *testing.T) {
	v := Lit("X")
	if got := v.Resolve(); got != "X" {
		t.Errorf("Resolve() = %q, want %q", got, "X")
	}
	if v.IsComputed() {
		t.Error("literal Value reported as computed")
	}
}

func TestFunc_Resolve(t *testing.T) {
	v := Func(func() string { return "X" })
	if got := v.Resolve(); got != "X" {
		t.Errorf("Resolve() = %q, want %q", got, "X")
	}
	if !v.IsComputed() {
		t.Error("computed Value reported as literal")
	}
}

func TestFunc_ResolvedPerCall(t *testing.T) {
	calls := 0
	v := Func(func() int {
		calls++
		return calls
	})

	// Construction must not invoke the computation.
	if calls != 0 {
		t.Fatalf("computation ran %d times at construction", calls)
	}

	if got := v.Resolve(); got != 1 {
		t.Errorf("first Resolve() = %d, want 1", got)
	}
	if got := v.Resolve(); got != 2 {
		t.Errorf("second Resolve() = %d, want 2", got)
	}
}

func TestZeroValue_Resolve(t *testing.T) {
	var s Value[string]
	if got := s.Resolve(); got != "" {
		t.Errorf("zero Value[string].Resolve() = %q, want empty", got)
	}

	var b Value[bool]
	if b.Resolve() {
		t.Error("zero Value[bool].Resolve() = true, want false")
	}
}

func TestFunc_NilComputation(t *testing.T) {
	v := Func[string](nil)
	if got := v.Resolve(); got != "" {
		t.Errorf("nil computation Resolve() = %q, want empty", got)
	}
}

package envutil

import "testing"

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "45")
	if got := Int("ENVUTIL_TEST_INT", 10); got != 45 {
		t.Fatalf("got %d, want 45", got)
	}
	t.Setenv("ENVUTIL_TEST_INT", "not a number")
	if got := Int("ENVUTIL_TEST_INT", 10); got != 10 {
		t.Fatalf("unparsable value: got %d, want default 10", got)
	}
	if got := Int("ENVUTIL_TEST_INT_UNSET", 10); got != 10 {
		t.Fatalf("unset variable: got %d, want default 10", got)
	}
}

func TestFirst(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_A", "")
	t.Setenv("ENVUTIL_TEST_B", "value")
	v, name := First("ENVUTIL_TEST_A", "ENVUTIL_TEST_B")
	if v != "value" || name != "ENVUTIL_TEST_B" {
		t.Fatalf("got (%q, %q), want (value, ENVUTIL_TEST_B)", v, name)
	}
	v, name = First("ENVUTIL_TEST_A")
	if v != "" || name != "" {
		t.Fatalf("got (%q, %q), want empty", v, name)
	}
}
